package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/tair/storefront/internal/app"
	orderdomain "github.com/tair/storefront/internal/order/domain"
	"github.com/tair/storefront/internal/seed"
	"github.com/tair/storefront/internal/session"
	"github.com/tair/storefront/internal/store"
	"github.com/tair/storefront/kafka"
	"github.com/tair/storefront/pkg/auth"
	"github.com/tair/storefront/pkg/config"
	"github.com/tair/storefront/pkg/logger"
	"github.com/tair/storefront/pkg/middleware"
	"github.com/tair/storefront/pkg/tracing"
)

const (
	metricsRefreshInterval = 30 * time.Second
	shutdownTimeout        = 10 * time.Second
)

// NewServeCommand creates the serve command
func NewServeCommand(opts *RootOptions) *cobra.Command {
	var rateLimit int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Seed the store and serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(opts)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, rateLimit)
		},
	}

	cmd.Flags().IntVar(&rateLimit, "rate-limit", 100, "requests per minute per client when sessions are held in Redis (0 disables)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, rateLimit int) error {
	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting storefront")

	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(cfg.ServiceName, cfg.JaegerEndpoint)
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tracing.Shutdown(ctx, tp); err != nil {
					logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
				}
			}()
		}
	}

	f, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return err
	}
	s := store.New()
	creds := session.NewMemoryCredentials()
	if err := seed.Apply(f, s, creds); err != nil {
		return err
	}
	logger.Logger.Info().
		Int("users", len(f.Users)).
		Int("products", len(f.Products)).
		Int("orders", len(f.Orders)).
		Msg("Store seeded")

	var holders session.HolderStore = session.NewMemoryHolderStore()
	var limiter *middleware.RateLimiter
	if cfg.SessionBackend == "redis" {
		rdb := session.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		holders = session.NewRedisHolderStore(rdb)
		if rateLimit > 0 {
			limiter = middleware.NewRateLimiter(rdb, rateLimit, time.Minute)
		}
		logger.Logger.Info().Str("addr", cfg.RedisAddr).Msg("Sessions held in Redis")
	}

	var publisher orderdomain.EventPublisher = orderdomain.NoopPublisher{}
	if cfg.KafkaEnabled {
		p, err := kafka.NewPublisher(cfg.KafkaBrokers)
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Kafka unavailable, order events disabled")
		} else {
			defer p.Close()
			publisher = p
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv, err := app.InitializeServer(
		s,
		creds,
		holders,
		auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL),
		publisher,
		reg,
		app.LowStockThreshold(cfg.LowStockThreshold),
	)
	if err != nil {
		return err
	}
	if limiter != nil {
		srv.Use(limiter.Middleware)
	}
	go srv.RunMetricsRefresher(ctx, metricsRefreshInterval)

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           srv.Handler(cfg.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
