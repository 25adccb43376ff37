package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"darksecrets/internal/analytics"
	"darksecrets/internal/contentfilter"
	"darksecrets/internal/identity"
	"darksecrets/internal/platform/config"
	"darksecrets/internal/platform/httpserver"
	"darksecrets/internal/platform/logger"
	"darksecrets/internal/platform/metrics"
	"darksecrets/internal/platform/middleware"
	platformredis "darksecrets/internal/platform/redis"
	"darksecrets/internal/ratelimit"
	rlmetrics "darksecrets/internal/ratelimit/metrics"
	"darksecrets/internal/secret/handler"
	secretmetrics "darksecrets/internal/secret/metrics"
	"darksecrets/internal/secret/service"
	"darksecrets/internal/secret/store"
	"darksecrets/internal/secret/store/memory"
	"darksecrets/internal/secret/store/postgres"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	secretStore, closeStore, err := newStore(ctx, cfg, log)
	if err != nil {
		log.Error("store initialization failed", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	limiterStore, closeLimiter, err := newLimiterStore(cfg, log)
	if err != nil {
		log.Error("rate limiter initialization failed", "error", err)
		os.Exit(1)
	}
	defer closeLimiter()
	limiter := ratelimit.New(limiterStore, cfg.WriteLimit, cfg.WriteWindow)

	recorder := newRecorder(ctx, cfg, log)
	defer recorder.Close()

	if cfg.SeedDemoData {
		if err := store.Seed(ctx, secretStore); err != nil {
			log.Warn("demo data seeding failed", "error", err)
		}
	}

	hasher := identity.NewHasher(cfg.OriginHashSecret)
	svc := service.New(secretStore, contentfilter.New(), hasher, log, secretmetrics.New(), recorder)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.ClientOrigin)
	router.Use(middleware.Metrics(metrics.New()))
	router.Use(middleware.Logging(log))
	router.Use(middleware.Recovery(log))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	handler.New(svc, log, recorder).Register(router, middleware.Throttle(limiter, hasher, log, recorder, rlmetrics.New()))

	apiSrv := httpserver.New(cfg.Addr, router)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := httpserver.New(cfg.MetricsAddr, metricsMux)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting darksecrets api", "addr", cfg.Addr)
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting metrics listener", "addr", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := apiSrv.Shutdown(shutdownCtx); err != nil {
			log.Error("api shutdown failed", "error", err)
		}
		return metricsSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

func newStore(ctx context.Context, cfg config.Config, log *slog.Logger) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info("using in-memory secret store")
		return memory.New(), func() {}, nil
	}

	pg, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}
	log.Info("using postgres secret store")
	return pg, func() { pg.Close() }, nil
}

func newLimiterStore(cfg config.Config, log *slog.Logger) (ratelimit.Store, func(), error) {
	client, err := platformredis.New(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Info("using in-memory rate limit store")
		return ratelimit.NewInMemoryStore(), func() {}, nil
	}
	log.Info("using redis rate limit store")
	return ratelimit.NewRedisStore(client.Client), func() { client.Close() }, nil
}

func newRecorder(ctx context.Context, cfg config.Config, log *slog.Logger) analytics.Recorder {
	if len(cfg.KafkaBrokers) == 0 {
		return analytics.Noop{}
	}
	rec, err := analytics.NewKafkaRecorder(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, log)
	if err != nil {
		// Analytics is best effort; the API runs without it.
		log.Warn("kafka recorder unavailable", "error", err)
		return analytics.Noop{}
	}
	return rec
}
