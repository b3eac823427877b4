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

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"regwatch/internal/audit"
	jwttoken "regwatch/internal/jwt_token"
	"regwatch/internal/platform/config"
	"regwatch/internal/platform/httpserver"
	"regwatch/internal/platform/logger"
	platformredis "regwatch/internal/platform/redis"
	"regwatch/internal/regulation/handler"
	regmetrics "regwatch/internal/regulation/metrics"
	"regwatch/internal/regulation/service"
	"regwatch/internal/regulation/store"
	"regwatch/internal/regulation/store/statscache"
	authmw "regwatch/pkg/platform/middleware/auth"
	"regwatch/pkg/platform/middleware/metadata"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := buildStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	var stats service.StatsSource
	if redisClient != nil {
		defer redisClient.Close()
		stats = statscache.New(st, redisClient.Client, cfg.StatsCacheTTL, log)
		log.Info("stats cache enabled", "ttl", cfg.StatsCacheTTL)
	}

	publisher, err := buildPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer publisher.Close()
	worker := audit.NewWorker(publisher, log)

	svc, err := service.New(st, stats, worker, regmetrics.New())
	if err != nil {
		return err
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	requireAuth := authmw.RequireAuth(jwttoken.NewJWTServiceAdapter(jwtService), log)

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Recoverer)
	router.Use(metadata.ClientMetadata)

	handler.New(svc, log).Register(router, requireAuth)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(gctx)
	})
	g.Go(func() error {
		log.Info("starting regwatch server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// buildStore selects Postgres when configured, falling back to the seeded
// in-memory store for demo deployments.
func buildStore(ctx context.Context, cfg config.Server, log *slog.Logger) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		mem := store.NewMemory()
		if err := store.Seed(ctx, mem); err != nil {
			return nil, nil, err
		}
		log.Info("using in-memory store with seed data")
		return mem, func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	pg := store.NewPostgres(pool)
	if err := pg.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	log.Info("using postgres store")
	return pg, pool.Close, nil
}

func buildPublisher(cfg config.Server, log *slog.Logger) (audit.Publisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("audit publishing in-process only; no kafka brokers configured")
		return audit.NewMemoryPublisher(), nil
	}
	log.Info("audit publishing to kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.AuditTopic)
	return audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
}
