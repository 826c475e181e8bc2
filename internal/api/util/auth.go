package util

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"voting/internal/core/token"
)

type contextKey struct{}

var (
	ErrNoToken     = errors.New("authorization header required")
	ErrNoClaims    = errors.New("request is not authenticated")
	ErrBadAuthType = errors.New("authorization header must use the Bearer scheme")
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, error) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if authHeader == "" {
		return "", ErrNoToken
	}

	scheme, tok, ok := strings.Cut(authHeader, " ")
	tok = strings.TrimSpace(tok)
	if !ok || !strings.EqualFold(scheme, "Bearer") || tok == "" {
		return "", ErrBadAuthType
	}
	return tok, nil
}

func WithUserClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// GetUserClaims returns the claims the auth middleware attached to r.
func GetUserClaims(r *http.Request) (*token.Claims, error) {
	claims, ok := r.Context().Value(contextKey{}).(*token.Claims)
	if !ok || claims == nil {
		return nil, ErrNoClaims
	}
	return claims, nil
}
