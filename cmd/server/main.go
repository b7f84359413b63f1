package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/stevenscomputer/site/internal/config"
	"github.com/stevenscomputer/site/internal/handler"
	"github.com/stevenscomputer/site/internal/logging"
	"github.com/stevenscomputer/site/internal/metrics"
	"github.com/stevenscomputer/site/internal/migrations"
	"github.com/stevenscomputer/site/internal/repository"
	"github.com/stevenscomputer/site/internal/service"
	"github.com/stevenscomputer/site/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	gateway := repository.NewGateway(repository.GatewayOptions{
		PoolSize:         cfg.Database.PoolSize,
		QueueLimit:       cfg.Database.QueueLimit,
		StatementTimeout: cfg.Database.StatementTimeout,
	})
	defer gateway.Close()
	m.RegisterGatewayInFlight(gateway.InFlight)

	router, err := handler.NewRouter(handler.RouterConfig{
		DB:             gateway,
		ContactService: service.NewContactService(gateway),
		Site:           web.Load(cfg.StaticDir),
		Metrics:        m,
		Gatherer:       reg,
		RateLimiter:    handler.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustedProxyCount, m.RecordRateLimitHit),
		CORSOrigin:     cfg.CORSOrigin,
		DebugEndpoints: cfg.DebugEndpoints,
	})
	if err != nil {
		logging.Fatal("build router failed", "error", err)
	}
	if cfg.DebugEndpoints {
		slog.Warn("debug endpoints enabled", "route", "GET /api/contacts")
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	// Requests that arrive before the store is attached get "Database not available".
	go connect(ctx, cfg, gateway)

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// connect prepares the schema when configured, opens the store and attaches
// it to the gateway. Any failure terminates the process.
func connect(ctx context.Context, cfg *config.Config, gateway *repository.Gateway) {
	if cfg.AutoMigrate {
		if err := migrations.Up(cfg.Database); err != nil {
			logging.Fatal("migration failed", "error", err)
		}
	}

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	store, err := repository.Open(openCtx, cfg.Database)
	if err != nil {
		logging.Fatal("failed to connect to database", "driver", cfg.Database.Driver, "error", err)
	}
	gateway.Attach(store)
	slog.Info("database connected", "driver", cfg.Database.Driver, "pool_size", cfg.Database.PoolSize)
}
