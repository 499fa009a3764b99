// Package index builds the TF-IDF index: corpus-wide term statistics,
// unit-normalised sparse document vectors, and the inverted index the query
// engine scores against.
package index

// Posting records the TF-IDF weight of one term in one document.
type Posting struct {
	DocID  string  `json:"doc_id"`
	Weight float64 `json:"weight"`
}

// PostingList holds every document containing a term, ordered by weight
// descending (ties by DocID ascending).
type PostingList []Posting

// Vector is a sparse TF-IDF document vector. Terms with zero weight are
// absent; a missing key is an explicit lookup miss, never an implicit zero.
type Vector map[string]float64

// Vocabulary holds corpus-wide term statistics: the number of documents each
// term occurs in at least once, and the total corpus size.
type Vocabulary struct {
	DocFreq  map[string]int `json:"doc_freq"`
	DocCount int            `json:"doc_count"`
}

// DocMeta is the display metadata carried into the artifact so the searcher
// can render results without re-reading the document store.
type DocMeta struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
}

// Artifact is the complete, immutable output of one index build. A query
// engine is constructed from an Artifact alone.
type Artifact struct {
	Docs     map[string]DocMeta
	Vocab    *Vocabulary
	Vectors  map[string]Vector
	Postings map[string]PostingList
}

// TermCount returns the number of distinct indexed terms.
func (a *Artifact) TermCount() int {
	return len(a.Postings)
}

// DocCount returns the number of documents the artifact was built from.
func (a *Artifact) DocCount() int {
	return a.Vocab.DocCount
}
