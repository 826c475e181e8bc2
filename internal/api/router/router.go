package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"voting/internal/api/handler"
	"voting/internal/api/middleware"
	"voting/internal/api/util"
	"voting/internal/core/service"
	"voting/internal/core/token"
)

type Options struct {
	AllowedOrigin string
	MaxBodyBytes  int64
	// HealthCheck reports database reachability. Nil means always healthy.
	HealthCheck func(ctx context.Context) error
}

func NewRouter(
	userService service.UserService,
	candidateService service.CandidateService,
	tokens *token.Service,
	opts Options,
) http.Handler {
	// Initialize handlers
	userHandler := handler.NewUserHandler(userService)
	candidateHandler := handler.NewCandidateHandler(candidateService)
	authMiddleware := middleware.NewAuthMiddleware(tokens)

	mux := http.NewServeMux()

	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.Authenticate(h)
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if opts.HealthCheck != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := opts.HealthCheck(ctx); err != nil {
				slog.WarnContext(r.Context(), "health check failed", "error", err)
				util.JSONResponse(w, http.StatusServiceUnavailable, map[string]string{
					"status":   "degraded",
					"database": "unreachable",
				})
				return
			}
		}
		util.JSONResponse(w, http.StatusOK, map[string]string{
			"status":   "ok",
			"database": "connected",
		})
	})

	// User routes
	mux.HandleFunc("POST /user/signup", userHandler.Signup)
	mux.HandleFunc("POST /user/login", userHandler.Login)
	mux.Handle("GET /user/profile", protected(userHandler.Profile))
	mux.Handle("PUT /user/profile/password", protected(userHandler.ChangePassword))

	// Candidate routes
	mux.HandleFunc("GET /candidate", candidateHandler.List)
	mux.HandleFunc("GET /candidate/vote/count", candidateHandler.VoteCount)
	mux.Handle("POST /candidate/add", protected(candidateHandler.Create))
	mux.Handle("POST /candidate/vote/{id}", protected(candidateHandler.Vote))
	mux.Handle("PUT /candidate/{id}", protected(candidateHandler.Update))
	mux.Handle("DELETE /candidate/{id}", protected(candidateHandler.Delete))

	origin := opts.AllowedOrigin
	if origin == "" {
		origin = "*"
	}

	var h http.Handler = mux
	if opts.MaxBodyBytes > 0 {
		h = middleware.BodyLimit(opts.MaxBodyBytes)(h)
	}
	return middleware.CORSMiddleware(origin)(middleware.LoggingMiddleware(h))
}
