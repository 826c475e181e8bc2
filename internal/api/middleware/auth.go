package middleware

import (
	"log/slog"
	"net/http"

	"voting/internal/api/util"
	"voting/internal/core/token"
)

type AuthMiddleware struct {
	tokens *token.Service
}

func NewAuthMiddleware(tokens *token.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate rejects requests without a valid bearer token and attaches
// the verified claims to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := util.BearerToken(r)
		if err == util.ErrNoToken {
			util.ErrorResponse(w, http.StatusUnauthorized, "Token not found")
			return
		}
		if err != nil {
			util.ErrorResponse(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		claims, err := m.tokens.Verify(raw)
		if err != nil {
			slog.DebugContext(r.Context(), "token rejected", "reason", err)
			util.ErrorResponse(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(util.WithUserClaims(r.Context(), claims)))
	})
}
