package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vaultpass/passgen-go/internal/config"
	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/handler"
	"github.com/vaultpass/passgen-go/internal/repository"
	"github.com/vaultpass/passgen-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg)

	src, err := crypto.NewCryptoSource()
	if err != nil {
		slog.Error("initializing random source", "error", err)
		os.Exit(1)
	}
	gen := crypto.NewGenerator(src)

	store, err := openProfileStore(cfg)
	if err != nil {
		slog.Warn("profile store unavailable, profile routes disabled", "store", cfg.ProfileStore, "error", err)
	}

	routes := handler.RouterConfig{
		Auth:           handler.NewAuthHandler(service.NewAuthService(cfg.AdminPasswordHash, cfg.JWTSecret, cfg.JWTExpiry)),
		JWTSecret:      cfg.JWTSecret,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}
	if store != nil {
		defer store.Close()
		routes.Generator = handler.NewGeneratorHandler(service.NewGeneratorService(gen, store, cfg.MaxHTTPLength))
		routes.Profiles = handler.NewProfileHandler(service.NewProfileService(store, cfg.MaxHTTPLength))
	} else {
		routes.Generator = handler.NewGeneratorHandler(service.NewGeneratorService(gen, nil, cfg.MaxHTTPLength))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(routes),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "profile_store", cfg.ProfileStore)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		return
	}

	slog.Info("server stopped")
}

func setupLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

// openProfileStore returns nil without error when profiles are turned off.
func openProfileStore(cfg config.Config) (repository.ProfileStore, error) {
	switch cfg.ProfileStore {
	case config.StoreMySQL:
		db, err := repository.NewDB(cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repository.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return repository.NewMySQLProfileStore(db), nil
	case config.StoreBolt:
		store, err := repository.NewBoltProfileStore(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, nil
	}
}
