package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voting/internal/api/router"
	"voting/internal/cache"
	"voting/internal/config"
	"voting/internal/core/repository"
	"voting/internal/core/service"
	"voting/internal/core/token"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB
	db, err := config.ConnectMongoDB(ctx, cfg.Mongo)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			slog.Warn("MongoDB disconnect failed", "error", err)
		}
	}()

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		slog.Error("index creation failed", "error", err)
		os.Exit(1)
	}

	redisCache := cache.New(ctx, cfg.RedisURL)
	defer redisCache.Close()

	// Initialize repositories with MongoDB
	userRepo := repository.NewMongoUserRepository(db)
	candidateRepo := repository.NewMongoCandidateRepository(db)

	// Initialize services
	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	authorizer := service.NewAuthorizer(userRepo)
	userService := service.NewUserService(userRepo, authorizer, tokens)
	candidateService := service.NewCandidateService(candidateRepo, userRepo, authorizer, redisCache, cfg.CacheTTL)

	r := router.NewRouter(userService, candidateService, tokens, router.Options{
		AllowedOrigin: cfg.FrontendOrigin,
		MaxBodyBytes:  cfg.MaxBodyBytes,
		HealthCheck:   config.PingMongoDB(db),
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Addr())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
