// Package corpus defines the document model produced by the upstream
// crawl/parse/normalise pipeline and the store the indexer reads it from.
package corpus

import "context"

// Document is one faculty page after upstream normalisation. Tokens is the
// normalised term sequence; Title, URL, and Summary are display metadata.
// Documents are immutable once written to the store.
type Document struct {
	ID      string
	Title   string
	URL     string
	Summary string
	Tokens  []string
}

// Store is the document store the index build reads from and the loader
// writes into.
type Store interface {
	// All returns every document, ordered by ID for deterministic builds.
	All(ctx context.Context) ([]Document, error)
	// Put inserts or replaces a document by ID.
	Put(ctx context.Context, doc Document) error
	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)
}
