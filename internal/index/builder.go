package index

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/facsearch/faculty-search/internal/corpus"
)

// Builder turns a document corpus into an immutable Artifact.
type Builder struct {
	workers int
	logger  *slog.Logger
}

// NewBuilder creates a Builder that parallelises per-document work across the
// given number of workers.
func NewBuilder(workers int) *Builder {
	if workers <= 0 {
		workers = 1
	}
	return &Builder{
		workers: workers,
		logger:  slog.Default().With("component", "index-builder"),
	}
}

// Build runs the full batch build: vocabulary first (a barrier, since every
// TF-IDF weight needs the final df counts), then one vector per document,
// then the inverted index derived from the vectors. The result is read-only.
func (b *Builder) Build(ctx context.Context, docs []corpus.Document) (*Artifact, error) {
	vocab, err := BuildVocabulary(ctx, docs, b.workers)
	if err != nil {
		return nil, fmt.Errorf("building vocabulary: %w", err)
	}
	b.logger.Info("vocabulary built",
		"terms", len(vocab.DocFreq),
		"documents", vocab.DocCount,
	)

	vectors := make([]Vector, len(docs))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i := range docs {
		i := i
		g.Go(func() error {
			vectors[i] = documentVector(docs[i].Tokens, vocab)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	art := &Artifact{
		Docs:     make(map[string]DocMeta, len(docs)),
		Vocab:    vocab,
		Vectors:  make(map[string]Vector, len(docs)),
		Postings: make(map[string]PostingList),
	}
	for i, doc := range docs {
		art.Docs[doc.ID] = DocMeta{
			ID:      doc.ID,
			Title:   doc.Title,
			URL:     doc.URL,
			Summary: doc.Summary,
		}
		art.Vectors[doc.ID] = vectors[i]
		for term, weight := range vectors[i] {
			art.Postings[term] = append(art.Postings[term], Posting{
				DocID:  doc.ID,
				Weight: weight,
			})
		}
	}
	for term := range art.Postings {
		sortPostings(art.Postings[term])
	}

	b.logger.Info("index built",
		"terms", art.TermCount(),
		"documents", art.DocCount(),
	)
	return art, nil
}

// documentVector computes the unit-normalised sparse TF-IDF vector for one
// token sequence. Zero weights (unknown terms, df == N) are omitted. A
// document with no weighted terms keeps an empty vector; normalising a
// zero-norm vector is the identity, never a division by zero.
func documentVector(tokens []string, vocab *Vocabulary) Vector {
	tf := make(map[string]int, len(tokens))
	for _, term := range tokens {
		if term == "" {
			continue
		}
		tf[term]++
	}

	vec := make(Vector, len(tf))
	var sumSquares float64
	for term, count := range tf {
		idf := vocab.IDF(term)
		if idf == 0 {
			continue
		}
		w := float64(count) * idf
		vec[term] = w
		sumSquares += w * w
	}
	if sumSquares == 0 {
		return vec
	}
	norm := math.Sqrt(sumSquares)
	for term, w := range vec {
		vec[term] = w / norm
	}
	return vec
}

// sortPostings orders a posting list by weight descending, DocID ascending
// on ties, so top-k retrieval and rebuilds are deterministic.
func sortPostings(list PostingList) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Weight != list[j].Weight {
			return list[i].Weight > list[j].Weight
		}
		return list[i].DocID < list[j].DocID
	})
}
