package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/app"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/auth"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/config"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/health"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/registry"
)

const shutdownGrace = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := newLogger(cfg)

	reg, err := registry.New(cfg.Services, cfg.Routes)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid service configuration")
	}

	checker := health.New(reg, cfg.HealthCheckInterval, logger)
	checker.Start()
	defer checker.Stop()

	verifier := auth.NewVerifier(auth.Options{
		Secret:   cfg.JWTSecret,
		Remote:   remoteValidator(cfg, reg),
		Cache:    identityCache(cfg, logger),
		CacheTTL: cfg.AuthCacheTTL,
		Logger:   logger,
	})

	gw := app.New(app.Options{
		Config:   cfg,
		Registry: reg,
		Checker:  checker,
		Verifier: verifier,
		Logger:   logger,
	})
	defer gw.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           gw.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Strs("services", reg.Keys()).
			Msg("API gateway listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown after grace period")
	}
	logger.Info().Msg("gateway stopped")
}

func newLogger(cfg config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "api-gateway").Logger()
	if cfg.Development() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger
}

// remoteValidator builds the auth-service fallback validator when enabled.
func remoteValidator(cfg config.Config, reg *registry.Registry) *auth.RemoteValidator {
	if !cfg.AuthValidateRemote {
		return nil
	}
	svc, ok := reg.Resolve("auth")
	if !ok {
		return nil
	}
	return auth.NewRemoteValidator(svc.BaseURL, svc.Timeout)
}

// identityCache prefers Redis when an address is configured so validated
// identities are shared across gateway replicas.
func identityCache(cfg config.Config, logger zerolog.Logger) auth.Cache {
	if cfg.RedisAddr == "" {
		return auth.NewMemoryCache()
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddr).
			Msg("redis unreachable, falling back to in-memory identity cache")
		return auth.NewMemoryCache()
	}
	logger.Info().Str("addr", cfg.RedisAddr).Msg("using redis identity cache")
	return auth.NewRedisCache(rdb)
}
