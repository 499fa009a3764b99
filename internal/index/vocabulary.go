package index

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/facsearch/faculty-search/internal/corpus"
	apperrors "github.com/facsearch/faculty-search/pkg/errors"
)

// BuildVocabulary scans the corpus once and counts, for each distinct term,
// the number of documents containing it at least once. Counting is presence
// based: repeated occurrences within one document contribute a single df
// increment. An empty corpus is a build failure, never an empty vocabulary.
//
// Documents are partitioned across workers; partial counts are merged after
// all workers finish, so the full statistics exist before any weight is
// computed.
func BuildVocabulary(ctx context.Context, docs []corpus.Document, workers int) (*Vocabulary, error) {
	if len(docs) == 0 {
		return nil, apperrors.ErrEmptyCorpus
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(docs) {
		workers = len(docs)
	}

	partials := make([]map[string]int, workers)
	g, _ := errgroup.WithContext(ctx)
	chunk := (len(docs) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(docs) {
			hi = len(docs)
		}
		part := docs[lo:hi]
		slot := w
		g.Go(func() error {
			df := make(map[string]int)
			for _, doc := range part {
				seen := make(map[string]struct{}, len(doc.Tokens))
				for _, term := range doc.Tokens {
					if term == "" {
						continue
					}
					if _, dup := seen[term]; dup {
						continue
					}
					seen[term] = struct{}{}
					df[term]++
				}
			}
			partials[slot] = df
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]int)
	for _, part := range partials {
		for term, n := range part {
			merged[term] += n
		}
	}
	return &Vocabulary{
		DocFreq:  merged,
		DocCount: len(docs),
	}, nil
}

// IDF returns log(N/df) for a term, or 0 when the term is unknown or occurs
// in every document. A term present everywhere carries no discriminating
// power and is dropped from all vectors.
func (v *Vocabulary) IDF(term string) float64 {
	df, ok := v.DocFreq[term]
	if !ok || df == 0 {
		return 0
	}
	return math.Log(float64(v.DocCount) / float64(df))
}

// Contains reports whether the term occurs anywhere in the corpus.
func (v *Vocabulary) Contains(term string) bool {
	_, ok := v.DocFreq[term]
	return ok
}
