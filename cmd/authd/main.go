// Command authd runs the credential authentication service: user
// registration, login with bearer token issuance, and credential-based
// access to protected endpoints.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/authd/auth"
	"github.com/kbukum/authd/config"
	"github.com/kbukum/authd/logger"
	"github.com/kbukum/authd/observability"
	"github.com/kbukum/authd/password"
	"github.com/kbukum/authd/server"
	"github.com/kbukum/authd/server/endpoint"
	"github.com/kbukum/authd/server/middleware"
	"github.com/kbukum/authd/token"
	"github.com/kbukum/authd/user/memory"
	"github.com/kbukum/authd/version"
)

const serviceName = "authd"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config.Config
	if err := config.Load(serviceName, &cfg); err != nil {
		return err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(cfg.Logging)
	log := logger.GetGlobalLogger()

	log.Info("starting", logger.Fields(
		"version", version.GetShortVersion(),
		"environment", cfg.Environment,
	))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metrics *observability.Metrics
	if cfg.Observability.Enabled {
		mp, err := observability.InitMeter(ctx, cfg.Observability, cfg.Name, version.GetShortVersion(), cfg.Environment)
		if err != nil {
			return fmt.Errorf("init meter: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mp.Shutdown(shutdownCtx); err != nil {
				log.Warn("meter shutdown", logger.Fields("error", err.Error()))
			}
		}()

		tp, err := observability.InitTracer(ctx, cfg.Observability, cfg.Name, version.GetShortVersion(), cfg.Environment)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Warn("tracer shutdown", logger.Fields("error", err.Error()))
			}
		}()

		metrics, err = observability.NewMetrics(observability.Meter(cfg.Name))
		if err != nil {
			return fmt.Errorf("metric instruments: %w", err)
		}
	}

	tokens, err := token.NewService(&cfg.Token)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	store := memory.New()
	hasher := password.NewHasher(cfg.Password)
	svc := auth.NewService(store, hasher, cfg.Password.Policy, tokens, log).WithMetrics(metrics)

	srv := server.New(cfg.Server, log)
	engine := srv.GinEngine()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.CORS(&cfg.Server.CORS))
	if cfg.Observability.Enabled {
		engine.Use(middleware.Tracing(cfg.Name))
		engine.Use(middleware.Metrics(metrics))
	}

	engine.GET("/health", endpoint.Health(cfg.Name))
	engine.GET("/version", endpoint.Version())

	server.NewAuthHandler(svc).RegisterRoutes(engine)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server start: %w", err)
	}

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
