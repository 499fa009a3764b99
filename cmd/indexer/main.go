package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facsearch/faculty-search/internal/corpus"
	"github.com/facsearch/faculty-search/internal/index"
	"github.com/facsearch/faculty-search/pkg/config"
	"github.com/facsearch/faculty-search/pkg/kafka"
	"github.com/facsearch/faculty-search/pkg/logger"
	"github.com/facsearch/faculty-search/pkg/postgres"
	"github.com/facsearch/faculty-search/pkg/resilience"
)

// IndexCompleteEvent is published after a successful build so searchers can
// hot-swap to the new artifact.
type IndexCompleteEvent struct {
	ArtifactPath string    `json:"artifact_path"`
	Documents    int       `json:"documents"`
	Terms        int       `json:"terms"`
	BuiltAt      time.Time `json:"built_at"`
}

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting index build",
		"artifact", cfg.Indexer.ArtifactPath,
		"workers", cfg.Indexer.BuildWorkers,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := postgres.New(cfg.Postgres)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pg.Close()

	store, err := corpus.NewPGStore(ctx, pg)
	if err != nil {
		slog.Error("failed to open document store", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	docs, err := store.All(ctx)
	if err != nil {
		slog.Error("failed to read corpus", "error", err)
		os.Exit(1)
	}
	slog.Info("corpus loaded", "documents", len(docs))

	builder := index.NewBuilder(cfg.Indexer.BuildWorkers)
	artifact, err := builder.Build(ctx, docs)
	if err != nil {
		slog.Error("index build failed", "error", err)
		os.Exit(1)
	}

	if err := index.WriteArtifact(cfg.Indexer.ArtifactPath, artifact); err != nil {
		slog.Error("failed to write index artifact", "error", err)
		os.Exit(1)
	}
	slog.Info("index artifact written",
		"path", cfg.Indexer.ArtifactPath,
		"terms", artifact.TermCount(),
		"documents", artifact.DocCount(),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.IndexComplete)
	defer producer.Close()
	event := IndexCompleteEvent{
		ArtifactPath: cfg.Indexer.ArtifactPath,
		Documents:    artifact.DocCount(),
		Terms:        artifact.TermCount(),
		BuiltAt:      time.Now().UTC(),
	}
	err = resilience.Retry(ctx, "publish-index-complete", resilience.RetryConfig{}, func() error {
		return producer.Publish(ctx, kafka.Event{Key: "index", Value: event})
	})
	if err != nil {
		// The artifact is already durable; searchers will pick it up on
		// their next restart even if the notification is lost.
		slog.Warn("failed to publish index.complete event", "error", err)
	}

	slog.Info("index build complete")
}
