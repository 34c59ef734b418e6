// Command oceansafe runs the conditions service: the Kafka evaluation
// pipeline and the HTTP API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	httpadapter "github.com/hideyae/Hackathon-Ocean-Safe/internal/adapter/http"
	kafkaadapter "github.com/hideyae/Hackathon-Ocean-Safe/internal/adapter/kafka"
	"github.com/hideyae/Hackathon-Ocean-Safe/internal/adapter/postgres"
	"github.com/hideyae/Hackathon-Ocean-Safe/internal/adapter/power"
	"github.com/hideyae/Hackathon-Ocean-Safe/internal/config"
	"github.com/hideyae/Hackathon-Ocean-Safe/internal/domain"
	"github.com/hideyae/Hackathon-Ocean-Safe/internal/evaluation"
	"github.com/hideyae/Hackathon-Ocean-Safe/internal/observability"
	"github.com/hideyae/Hackathon-Ocean-Safe/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err := run(cfg, logger); err != nil {
		logger.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	policy, err := domain.ParseEmptyPolicy(cfg.HistoryEmptyPolicy)
	if err != nil {
		return err
	}
	estimate := domain.EstimateOptions{
		HotPercentile:  cfg.HotPercentile,
		ColdPercentile: cfg.ColdPercentile,
		Policy:         policy,
	}

	evaluator := evaluation.NewEvaluator(metrics)
	opts := []httpadapter.Option{
		httpadapter.WithEvaluator(evaluator),
		httpadapter.WithEstimateOptions(estimate),
	}

	// Persistence (enabled by DATABASE_URL).
	var repo *postgres.Repository
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return err
		}
		repo = postgres.NewRepository(pool)
		opts = append(opts, httpadapter.WithStore(repo))
		logger.Info("condition persistence enabled")
	} else {
		logger.Info("condition persistence disabled")
	}

	// Historical temperatures (feature-flagged via POWER_ENABLED).
	if cfg.PowerEnabled {
		client := power.NewClient(cfg.PowerBaseURL, cfg.PowerTimeout, cfg.PowerRateLimit, metrics, logger)
		opts = append(opts, httpadapter.WithHistory(power.NewCachedProvider(client, cfg.PowerCacheSize, metrics)))
		logger.Info("nasa power history enabled", "cache_size", cfg.PowerCacheSize, "rate_limit", cfg.PowerRateLimit)
	} else {
		logger.Info("nasa power history disabled")
	}

	var (
		p      *pipeline.Pipeline
		ready  httpadapter.ReadinessChecker
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)

		// The repository goes first: its inserts are idempotent, so a batch
		// redelivered after a Kafka write failure is not stored twice.
		var loader pipeline.BatchLoader = writer
		if repo != nil {
			loader = pipeline.MultiLoader{repo, writer}
		}

		p = pipeline.New(reader, pipeline.NewTransformer(evaluator), loader, logger, metrics, cfg.BatchSize,
			pipeline.WithConcurrency(cfg.EvalConcurrency))
		ready = p
	} else {
		logger.Info("kafka pipeline disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, logger, opts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if p != nil {
		g.Go(func() error { return p.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		return nil
	})

	err = g.Wait()

	if reader != nil {
		if cerr := reader.Close(); cerr != nil {
			logger.Error("kafka reader close error", "error", cerr)
		}
	}
	if writer != nil {
		if cerr := writer.Close(); cerr != nil {
			logger.Error("kafka writer close error", "error", cerr)
		}
	}

	logger.Info("shutdown complete")
	return err
}
