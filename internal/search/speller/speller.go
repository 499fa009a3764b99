// Package speller suggests replacements for query tokens missing from the
// vocabulary. Candidates are generated with the symmetric-delete scheme:
// every dictionary term is indexed under all of its deletion variants up to
// the maximum edit distance, so lookup is a handful of map probes instead of
// a vocabulary scan. Candidates are then verified with true Levenshtein
// distance.
package speller

import (
	"github.com/facsearch/faculty-search/internal/index"
)

// DefaultMaxDistance is the edit-distance cutoff used when none is configured.
const DefaultMaxDistance = 2

// Corrector is an immutable dictionary built from one vocabulary. It never
// mutates the vocabulary and is safe for concurrent use.
type Corrector struct {
	maxDistance int
	deletes     map[string][]string
	docFreq     map[string]int
}

// New builds a Corrector over the vocabulary's terms. Selection policy:
// smallest edit distance wins, then highest document frequency, then
// lexicographic order, so suggestions are deterministic.
func New(vocab *index.Vocabulary, maxDistance int) *Corrector {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	c := &Corrector{
		maxDistance: maxDistance,
		deletes:     make(map[string][]string),
		docFreq:     make(map[string]int, len(vocab.DocFreq)),
	}
	for term, df := range vocab.DocFreq {
		c.docFreq[term] = df
		for variant := range deleteVariants(term, maxDistance) {
			c.deletes[variant] = append(c.deletes[variant], term)
		}
	}
	return c
}

// Correct returns the closest known term for token. A token already in the
// vocabulary is its own correction. ok is false when no candidate lies within
// the distance threshold; the caller passes such tokens through unchanged.
func (c *Corrector) Correct(token string) (suggestion string, ok bool) {
	if token == "" {
		return "", false
	}
	if _, known := c.docFreq[token]; known {
		return token, true
	}

	seen := make(map[string]struct{})
	best := ""
	bestDist := c.maxDistance + 1
	bestFreq := 0
	for variant := range deleteVariants(token, c.maxDistance) {
		for _, candidate := range c.deletes[variant] {
			if _, dup := seen[candidate]; dup {
				continue
			}
			seen[candidate] = struct{}{}
			dist := levenshtein(token, candidate, c.maxDistance)
			if dist < 0 || dist > c.maxDistance {
				continue
			}
			freq := c.docFreq[candidate]
			if dist < bestDist ||
				(dist == bestDist && freq > bestFreq) ||
				(dist == bestDist && freq == bestFreq && (best == "" || candidate < best)) {
				best = candidate
				bestDist = dist
				bestFreq = freq
			}
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// MaxDistance returns the configured edit-distance cutoff.
func (c *Corrector) MaxDistance() int {
	return c.maxDistance
}

// deleteVariants returns the word plus every string reachable from it by
// removing up to maxDeletes characters.
func deleteVariants(word string, maxDeletes int) map[string]struct{} {
	variants := map[string]struct{}{word: {}}
	frontier := []string{word}
	for d := 0; d < maxDeletes; d++ {
		var next []string
		for _, w := range frontier {
			for i := 0; i < len(w); i++ {
				del := w[:i] + w[i+1:]
				if _, dup := variants[del]; dup {
					continue
				}
				variants[del] = struct{}{}
				next = append(next, del)
			}
		}
		frontier = next
	}
	return variants
}

// levenshtein computes the edit distance between a and b, returning -1 as
// soon as the distance provably exceeds maxDist.
func levenshtein(a, b string, maxDist int) int {
	la, lb := len(a), len(b)
	if la-lb > maxDist || lb-la > maxDist {
		return -1
	}
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > maxDist {
			return -1
		}
		prev, curr = curr, prev
	}
	if prev[lb] > maxDist {
		return -1
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
