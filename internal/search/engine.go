// Package search resolves raw query strings into ranked results against an
// immutable index artifact, with spell correction for unknown tokens and
// cursor-based pagination.
package search

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/facsearch/faculty-search/internal/index"
	"github.com/facsearch/faculty-search/internal/search/speller"
	"github.com/facsearch/faculty-search/internal/tokenizer"
	apperrors "github.com/facsearch/faculty-search/pkg/errors"
)

// Result is one scored document with its display metadata.
type Result struct {
	DocID   string  `json:"doc_id"`
	Score   float64 `json:"score"`
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Summary string  `json:"summary,omitempty"`
}

// Response is the outcome of one query: the ranked results plus the spell
// corrections that were actually applied (original token -> substituted term).
type Response struct {
	Query       string            `json:"query"`
	Corrections map[string]string `json:"corrections,omitempty"`
	TotalHits   int               `json:"total_hits"`
	Results     []Result          `json:"results"`
}

// Engine scores queries against one immutable artifact. It holds no mutable
// state and serves concurrent queries without coordination.
type Engine struct {
	art     *index.Artifact
	speller *speller.Corrector
	logger  *slog.Logger
}

// NewEngine constructs an engine over the given artifact. The corrector is
// optional; without one, unknown tokens pass through and score zero.
func NewEngine(art *index.Artifact, sp *speller.Corrector) *Engine {
	return &Engine{
		art:     art,
		speller: sp,
		logger:  slog.Default().With("component", "query-engine"),
	}
}

// Artifact returns the artifact this engine serves.
func (e *Engine) Artifact() *index.Artifact {
	return e.art
}

// Search normalises the raw query with the same tokenizer used at ingest,
// routes unknown tokens through the spell corrector, builds a unit-normalised
// query vector from the stored document frequencies, and scores candidates by
// dot product. Only documents on the posting lists of the query's terms are
// visited. A query that produces no tokens is ErrNoQueryTerms; a query with
// tokens but no scoring documents is a successful empty result.
func (e *Engine) Search(ctx context.Context, rawQuery string) (*Response, error) {
	tokens := tokenizer.Normalize(rawQuery)
	if len(tokens) == 0 {
		return nil, apperrors.ErrNoQueryTerms
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := &Response{
		Query:   rawQuery,
		Results: []Result{},
	}

	terms := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if e.art.Vocab.Contains(token) || e.speller == nil {
			terms = append(terms, token)
			continue
		}
		suggestion, ok := e.speller.Correct(token)
		if !ok {
			// No candidate within the threshold: keep the token, it
			// simply matches nothing.
			terms = append(terms, token)
			continue
		}
		if resp.Corrections == nil {
			resp.Corrections = make(map[string]string)
		}
		resp.Corrections[token] = suggestion
		terms = append(terms, suggestion)
	}

	qvec := queryVector(terms, e.art.Vocab)
	if len(qvec) == 0 {
		return resp, nil
	}

	scores := make(map[string]float64)
	for term, qw := range qvec {
		for _, posting := range e.art.Postings[term] {
			scores[posting.DocID] += qw * posting.Weight
		}
	}

	ranked := make([]Result, 0, len(scores))
	for docID, score := range scores {
		if score <= 0 {
			continue
		}
		meta := e.art.Docs[docID]
		ranked = append(ranked, Result{
			DocID:   docID,
			Score:   score,
			Title:   meta.Title,
			URL:     meta.URL,
			Summary: meta.Summary,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].DocID < ranked[j].DocID
	})

	resp.TotalHits = len(ranked)
	resp.Results = ranked
	e.logger.Debug("query scored",
		"query", rawQuery,
		"terms", terms,
		"hits", len(ranked),
	)
	return resp, nil
}

// queryVector builds the unit-normalised TF-IDF vector for the query terms
// using the corpus statistics only; df is never re-estimated from the query.
// Terms absent from the vocabulary or with df == N contribute nothing. A
// zero-norm vector stays zero.
func queryVector(terms []string, vocab *index.Vocabulary) index.Vector {
	tf := make(map[string]int, len(terms))
	for _, term := range terms {
		tf[term]++
	}
	vec := make(index.Vector, len(tf))
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
