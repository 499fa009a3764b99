package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/facsearch/faculty-search/internal/index"
	"github.com/facsearch/faculty-search/internal/querylog"
	"github.com/facsearch/faculty-search/internal/search"
	"github.com/facsearch/faculty-search/internal/search/cache"
	"github.com/facsearch/faculty-search/internal/search/handler"
	"github.com/facsearch/faculty-search/internal/search/speller"
	"github.com/facsearch/faculty-search/pkg/config"
	"github.com/facsearch/faculty-search/pkg/health"
	"github.com/facsearch/faculty-search/pkg/kafka"
	"github.com/facsearch/faculty-search/pkg/logger"
	"github.com/facsearch/faculty-search/pkg/metrics"
	"github.com/facsearch/faculty-search/pkg/middleware"
	pkgredis "github.com/facsearch/faculty-search/pkg/redis"
	"github.com/facsearch/faculty-search/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service",
		"port", cfg.Server.Port,
		"artifact", cfg.Indexer.ArtifactPath,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		slog.Error("failed to load index artifact", "error", err)
		os.Exit(1)
	}
	swapper := search.NewSwapper(engine)
	observeArtifact(m, engine.Artifact())
	slog.Info("index artifact loaded",
		"terms", engine.Artifact().TermCount(),
		"documents", engine.Artifact().DocCount(),
	)

	var queryCache *cache.QueryCache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, query caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = cache.New(redisClient, cfg.Redis)
		slog.Info("query cache enabled",
			"addr", cfg.Redis.Addr,
			"ttl", cfg.Redis.CacheTTL,
		)
	}

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.QueryEvents)
	defer producer.Close()
	collector := querylog.NewCollector(producer, 10000)
	collector.Start(ctx)
	defer collector.Close()

	// index.complete events trigger an atomic engine swap; the old engine
	// keeps serving until the new artifact is fully loaded and verified.
	reload := func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[map[string]any](value)
		if err != nil {
			return err
		}
		slog.Info("index rebuild notification received", "event", event)
		var fresh *search.Engine
		err = resilience.Retry(ctx, "reload-artifact", resilience.RetryConfig{}, func() error {
			var loadErr error
			fresh, loadErr = buildEngine(cfg)
			return loadErr
		})
		if err != nil {
			return fmt.Errorf("reloading index artifact: %w", err)
		}
		swapper.Swap(fresh)
		observeArtifact(m, fresh.Artifact())
		if queryCache != nil {
			if err := queryCache.Invalidate(ctx); err != nil {
				slog.Error("cache invalidation after swap failed", "error", err)
			}
		}
		slog.Info("index artifact swapped",
			"terms", fresh.Artifact().TermCount(),
			"documents", fresh.Artifact().DocCount(),
		)
		return nil
	}
	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.IndexComplete, reload)
	go func() {
		if err := consumer.Start(ctx); err != nil {
			slog.Error("index.complete consumer error", "error", err)
		}
	}()

	checker := health.NewChecker()
	checker.Register("index_artifact", func(ctx context.Context) health.ComponentHealth {
		art := swapper.Engine().Artifact()
		if art.DocCount() > 0 {
			return health.ComponentHealth{
				Status:  health.StatusUp,
				Message: fmt.Sprintf("%d documents, %d terms", art.DocCount(), art.TermCount()),
			}
		}
		return health.ComponentHealth{Status: health.StatusDown, Message: "empty index"}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := handler.New(swapper, queryCache, collector, m, cfg.Search.PageSize, cfg.Search.MaxPageSize)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())
	if cfg.Metrics.Enabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("search service stopped")
}

func buildEngine(cfg *config.Config) (*search.Engine, error) {
	artifact, err := index.LoadArtifact(cfg.Indexer.ArtifactPath)
	if err != nil {
		return nil, err
	}
	corrector := speller.New(artifact.Vocab, cfg.Search.SpellMaxDistance)
	return search.NewEngine(artifact, corrector), nil
}

func observeArtifact(m *metrics.Metrics, art *index.Artifact) {
	if m == nil {
		return
	}
	m.IndexTermCount.Set(float64(art.TermCount()))
	m.IndexDocCount.Set(float64(art.DocCount()))
}
