// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"razorpay-facade/internal/config"
	"razorpay-facade/internal/domain/ports/adapter"
	payAdapters "razorpay-facade/internal/infra/adapters/payment"
	"razorpay-facade/internal/infra/api"
	"razorpay-facade/internal/infra/logging"
	"razorpay-facade/internal/infra/metrics"
	"razorpay-facade/internal/infra/ratelimit"
	red "razorpay-facade/internal/infra/redis"
	"razorpay-facade/internal/infra/scheduler"
	"razorpay-facade/internal/infra/security"
	"razorpay-facade/internal/infra/telemetry"
	"razorpay-facade/internal/usecase"

	"github.com/rs/zerolog"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file (optional)")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted ids, fake gateway allowed)")
	flag.Parse()

	boot := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load(*cfgPath, *devMode)
	if err != nil {
		boot.Error().Err(err).Msg("config")
		os.Exit(1)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
		if cfg.IsProduction() {
			logger.Warn().Msg("dev mode in a production environment: identifiers are logged unredacted")
		}
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) error {
	// ---- Metrics & tracing ----
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry, version)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			logger.Warn().Err(err).Msg("tracer shutdown")
		}
	}()

	// ---- Gateway ----
	var gw adapter.PaymentGateway
	if cfg.Razorpay.Fake {
		gw = payAdapters.NewNoopPaymentGateway()
		logger.Warn().Msg("using in-memory payment gateway")
	} else {
		gw, err = payAdapters.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.BaseURL, cfg.Razorpay.Timeout)
		if err != nil {
			return fmt.Errorf("razorpay gateway: %w", err)
		}
	}

	// ---- Signature verifier ----
	sig, err := security.NewSignatureVerifier(cfg.Razorpay.KeySecret)
	if err != nil {
		return fmt.Errorf("signature verifier: %w", err)
	}

	// ---- Use cases ----
	orderUC := usecase.NewOrderUseCase(gw, cfg.Server.Environment, logger, cfg.Runtime.Dev)
	var detailsGW adapter.PaymentGateway
	if cfg.Razorpay.FetchDetails {
		detailsGW = gw
	}
	verifyUC := usecase.NewVerifyUseCase(sig, detailsGW, logger, cfg.Runtime.Dev)

	// ---- Rate limiter (redis when configured, else in-process) ----
	var limiter api.Limiter
	if cfg.RateLimit.Enabled {
		if cfg.Redis.URL != "" {
			redisClient, err := red.NewClient(ctx, &cfg.Redis)
			if err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			defer redisClient.Close()
			limiter = red.NewRateLimiter(redisClient)
		} else {
			mem := ratelimit.NewMemory()
			janitor := scheduler.NewScheduler("ratelimit_sweep", 5*time.Minute, mem.SweepJob(30*time.Minute), logger)
			janitor.Start(ctx)
			defer janitor.Stop()
			limiter = mem
		}
	}

	// ---- HTTP server ----
	srv := api.NewServer(orderUC, verifyUC, logger, api.Options{
		RequestTimeout: cfg.Server.RequestTimeout,
		TrustProxy:     cfg.Server.TrustProxy,
		ServiceName:    cfg.Telemetry.ServiceName,
		Limiter:        limiter,
		RateLimit:      cfg.RateLimit,
	})
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", server.Addr).
			Str("environment", cfg.Server.Environment).
			Str("gateway", gw.Name()).
			Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	// ---- Graceful shutdown ----
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info().Msg("shutdown requested")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()
	if err := server.Shutdown(sctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
