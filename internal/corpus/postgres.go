package corpus

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/facsearch/faculty-search/pkg/postgres"
)

// PGStore is the Postgres-backed document store.
type PGStore struct {
	client *postgres.Client
}

// NewPGStore wraps a Postgres client and ensures the documents table exists.
func NewPGStore(ctx context.Context, client *postgres.Client) (*PGStore, error) {
	s := &PGStore{client: client}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensuring corpus schema: %w", err)
	}
	return s, nil
}

func (s *PGStore) ensureSchema(ctx context.Context) error {
	_, err := s.client.DB.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS documents (
		id      TEXT PRIMARY KEY,
		title   TEXT NOT NULL,
		url     TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		tokens  TEXT[] NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}
	return nil
}

// All returns every document ordered by ID.
func (s *PGStore) All(ctx context.Context) ([]Document, error) {
	rows, err := s.client.DB.QueryContext(ctx,
		`SELECT id, title, url, summary, tokens FROM documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Title, &d.URL, &d.Summary, pq.Array(&d.Tokens)); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document rows: %w", err)
	}
	return docs, nil
}

// Put upserts a document by ID.
func (s *PGStore) Put(ctx context.Context, doc Document) error {
	_, err := s.client.DB.ExecContext(ctx, `
	INSERT INTO documents (id, title, url, summary, tokens)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE
	SET title = EXCLUDED.title,
	    url = EXCLUDED.url,
	    summary = EXCLUDED.summary,
	    tokens = EXCLUDED.tokens`,
		doc.ID, doc.Title, doc.URL, doc.Summary, pq.Array(doc.Tokens))
	if err != nil {
		return fmt.Errorf("upserting document %s: %w", doc.ID, err)
	}
	return nil
}

// Count returns the number of stored documents.
func (s *PGStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.client.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}
