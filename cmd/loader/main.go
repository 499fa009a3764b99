// Command loader is the tail end of the ETL pipeline: it reads a JSON
// fixture of crawled faculty pages, normalises the text into token
// sequences, and upserts the documents into the Postgres store the indexer
// builds from.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/facsearch/faculty-search/internal/corpus"
	"github.com/facsearch/faculty-search/internal/tokenizer"
	"github.com/facsearch/faculty-search/pkg/config"
	"github.com/facsearch/faculty-search/pkg/logger"
	"github.com/facsearch/faculty-search/pkg/postgres"
)

// inputDoc is one crawled page in the fixture file.
type inputDoc struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
	Text    string `json:"text"`
}

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	inputPath := flag.String("input", "", "path to JSON fixture of crawled pages")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: loader -input pages.json [-config configs/development.yaml]")
		os.Exit(2)
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		slog.Error("failed to read input file", "path", *inputPath, "error", err)
		os.Exit(1)
	}
	var pages []inputDoc
	if err := json.Unmarshal(data, &pages); err != nil {
		slog.Error("failed to parse input file", "path", *inputPath, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
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

	loaded := 0
	skipped := 0
	for _, page := range pages {
		if page.ID == "" || page.Text == "" {
			skipped++
			continue
		}
		doc := corpus.Document{
			ID:      page.ID,
			Title:   page.Title,
			URL:     page.URL,
			Summary: page.Summary,
			Tokens:  tokenizer.Normalize(page.Text),
		}
		if err := store.Put(ctx, doc); err != nil {
			slog.Error("failed to store document", "id", page.ID, "error", err)
			os.Exit(1)
		}
		loaded++
	}

	total, err := store.Count(ctx)
	if err != nil {
		slog.Error("failed to count documents", "error", err)
		os.Exit(1)
	}
	slog.Info("corpus load complete",
		"loaded", loaded,
		"skipped", skipped,
		"total_documents", total,
	)
}
