package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rogerio-castellano/order-tracker/internal/catalog"
	"github.com/rogerio-castellano/order-tracker/internal/config"
	"github.com/rogerio-castellano/order-tracker/internal/db"
	"github.com/rogerio-castellano/order-tracker/internal/http/handlers"
	rl "github.com/rogerio-castellano/order-tracker/internal/http/rate_limiter"
	"github.com/rogerio-castellano/order-tracker/internal/http/router"
	"github.com/rogerio-castellano/order-tracker/internal/idempotency"
	"github.com/rogerio-castellano/order-tracker/internal/kafka"
	"github.com/rogerio-castellano/order-tracker/internal/logger"
	"github.com/rogerio-castellano/order-tracker/internal/metrics"
	"github.com/rogerio-castellano/order-tracker/internal/orders"
	"github.com/rogerio-castellano/order-tracker/internal/redissvc"
	"github.com/rogerio-castellano/order-tracker/internal/repo"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const producerBuffer = 1024

// @title Order Tracker API
// @version 1.0
// @description REST API for users, products, stock movements and orders.
// @host localhost:8080
// @BasePath /api
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid logger configuration: %v\n", err)
		os.Exit(1)
	}
	log = log.With().Str("service", cfg.ServiceName).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	catalogSvc := catalog.NewService(store, catalog.WithMetrics(m), catalog.WithLogger(log))
	if cfg.Store.Seed {
		if err := catalogSvc.Seed(ctx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	orderOpts := []orders.Option{orders.WithMetrics(m), orders.WithLogger(log)}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, producerBuffer, log)
		producer.Start(ctx)
		defer producer.WaitClosed()
		defer producer.Close()
		orderOpts = append(orderOpts, orders.WithEvents(kafka.NewOrderEventPublisher(producer, cfg.ServiceName)))
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing order events")
	}
	orderSvc := orders.NewService(store, orderOpts...)

	var idem idempotency.Store = idempotency.NewMemoryStore(cfg.Redis.IdempotencyTTL)
	if cfg.Redis.Addr != "" {
		rs, err := redissvc.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rs.Close()
		idem = idempotency.NewRedisStore(rs.Rdb(), cfg.Redis.IdempotencyTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency keys stored in redis")
	}

	limiter := rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	g.Go(func() error {
		limiter.StartVisitorCleanupLoop(ctx)
		return nil
	})

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: router.NewRouter(router.Config{
			Handler:     handlers.NewHandler(catalogSvc, orderSvc, log),
			Logger:      log,
			Metrics:     m,
			Gatherer:    reg,
			Limiter:     limiter,
			Idempotency: idem,
			Timeout:     cfg.Server.RequestTimeout,
		}),
		ReadHeaderTimeout: cfg.Server.RequestTimeout,
	}

	g.Go(func() error {
		log.Info().Str("addr", cfg.Server.Addr).Str("store", cfg.Store.Driver).Msg("✅ server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repo.Store, error) {
	if cfg.Store.Driver != config.StorePostgres {
		log.Info().Msg("using in-memory store")
		return repo.NewMemoryStore(), nil
	}

	pool, err := db.Connect(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("❌ could not connect to database: %w", err)
	}
	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Msg("using postgres store")
	return repo.NewPostgresStore(pool), nil
}
