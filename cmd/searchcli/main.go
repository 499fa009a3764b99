// Command searchcli is the interactive terminal front end: it loads the
// index artifact, accepts free-text queries, applies spell correction, and
// pages through ranked results five at a time.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/facsearch/faculty-search/internal/index"
	"github.com/facsearch/faculty-search/internal/search"
	"github.com/facsearch/faculty-search/internal/search/speller"
	"github.com/facsearch/faculty-search/pkg/config"
	apperrors "github.com/facsearch/faculty-search/pkg/errors"
	"github.com/facsearch/faculty-search/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	artifactPath := flag.String("artifact", "", "index artifact path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *artifactPath != "" {
		cfg.Indexer.ArtifactPath = *artifactPath
	}
	logger.Setup("error", "text")

	artifact, err := index.LoadArtifact(cfg.Indexer.ArtifactPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load index artifact %s: %v\n", cfg.Indexer.ArtifactPath, err)
		os.Exit(1)
	}
	corrector := speller.New(artifact.Vocab, cfg.Search.SpellMaxDistance)
	engine := search.NewEngine(artifact, corrector)

	fmt.Printf("Faculty search ready: %d documents, %d terms\n",
		artifact.DocCount(), artifact.TermCount())

	stdin := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nEnter a query (or 'quit'): ")
		if !stdin.Scan() {
			return
		}
		query := strings.TrimSpace(stdin.Text())
		switch {
		case query == "":
			fmt.Println("Query cannot be empty. Please try again.")
			continue
		case strings.EqualFold(query, "quit"), strings.EqualFold(query, "q"):
			fmt.Println("Goodbye.")
			return
		}

		resp, err := engine.Search(context.Background(), query)
		if err != nil {
			if errors.Is(err, apperrors.ErrNoQueryTerms) {
				fmt.Println("No searchable terms in that query. Please try again.")
				continue
			}
			fmt.Fprintf(os.Stderr, "search failed: %v\n", err)
			continue
		}
		for original, corrected := range resp.Corrections {
			fmt.Printf("Did you mean '%s'? Searched with '%s' instead of '%s'.\n",
				corrected, corrected, original)
		}
		if resp.TotalHits == 0 {
			fmt.Println("No relevant results found for your query.")
			continue
		}

		if done := browse(stdin, resp, cfg.Search.PageSize); done {
			fmt.Println("Goodbye.")
			return
		}
	}
}

// browse pages through one result set. Returns true when the user quits the
// program rather than starting a new query.
func browse(stdin *bufio.Scanner, resp *search.Response, pageSize int) bool {
	if pageSize <= 0 {
		pageSize = search.DefaultPageSize
	}
	pager := search.NewPaginator(resp.Results, pageSize)
	for {
		printPage(pager, pageSize)

		fmt.Print("\n[n] next  [p] previous  [r] new query  [q] quit: ")
		if !stdin.Scan() {
			return true
		}
		switch strings.ToLower(strings.TrimSpace(stdin.Text())) {
		case "n":
			if pager.HasNext() {
				pager.Next()
			} else {
				fmt.Println("Already on the last page.")
			}
		case "p":
			if pager.HasPrevious() {
				pager.Previous()
			} else {
				fmt.Println("Already on the first page.")
			}
		case "r":
			return false
		case "q":
			return true
		default:
			fmt.Println("Invalid choice. Try again.")
		}
	}
}

func printPage(pager *search.Paginator, pageSize int) {
	fmt.Printf("\nSearch results (page %d of %d, %d total):\n",
		pager.PageNumber()+1, pager.TotalPages(), pager.Total())
	fmt.Println(strings.Repeat("=", 72))
	for i, res := range pager.Page() {
		fmt.Printf("%d. %s\n", pager.PageNumber()*pageSize+i+1, res.Title)
		fmt.Printf("   Score: %.3f\n", res.Score)
		fmt.Printf("   URL: %s\n", res.URL)
		if res.Summary != "" {
			fmt.Printf("   Info: %s\n", res.Summary)
		}
		fmt.Println(strings.Repeat("-", 72))
	}
}
