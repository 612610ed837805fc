package index

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// embeddingDims matches OpenAI's text-embedding-ada-002 output.
const embeddingDims = 1536

var tableNameSanitizer = regexp.MustCompile(`[^a-z0-9_]+`)

// PgvectorCollection stores index entries as rows with a vector column and
// answers nearest-neighbour queries by cosine distance.
type PgvectorCollection struct {
	pool  *pgxpool.Pool
	table string
}

// NewPgvectorCollection constructs a collection backed by the given pool.
// The collection name is sanitised into a table identifier (for example
// "jobs-collection" becomes "jobs_collection").
func NewPgvectorCollection(pool *pgxpool.Pool, name string) *PgvectorCollection {
	table := tableNameSanitizer.ReplaceAllString(strings.ToLower(name), "_")
	return &PgvectorCollection{pool: pool, table: table}
}

// Ensure creates the collection table if missing. A concurrent initializer
// racing the same CREATE is tolerated: "already exists" is success.
func (c *PgvectorCollection) Ensure(ctx context.Context) error {
	_, err := c.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id        TEXT PRIMARY KEY,
			document  TEXT NOT NULL,
			title     TEXT NOT NULL DEFAULT '',
			company   TEXT NOT NULL DEFAULT '',
			location  TEXT NOT NULL DEFAULT '',
			url       TEXT NOT NULL DEFAULT '',
			embedding vector(%d) NOT NULL
		)`, c.table, embeddingDims))
	if err != nil && !isAlreadyExists(err) {
		return fmt.Errorf("ensure collection %s: %w", c.table, err)
	}
	return nil
}

// isAlreadyExists reports whether err is Postgres telling us another session
// created the same object first (duplicate_table / unique_violation on the
// catalog).
func isAlreadyExists(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P07" || pgErr.Code == "23505"
	}
	return false
}

// Upsert writes entries by id, refreshing document, metadata and embedding
// for ids already present.
func (c *PgvectorCollection) Upsert(ctx context.Context, entries []Entry, vectors [][]float32) error {
	if len(entries) != len(vectors) {
		return fmt.Errorf("got %d entries but %d vectors", len(entries), len(vectors))
	}

	batch := &pgx.Batch{}
	sql := fmt.Sprintf(`
		INSERT INTO %s (id, document, title, company, location, url, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			document  = EXCLUDED.document,
			title     = EXCLUDED.title,
			company   = EXCLUDED.company,
			location  = EXCLUDED.location,
			url       = EXCLUDED.url,
			embedding = EXCLUDED.embedding`, c.table)
	for i, e := range entries {
		batch.Queue(sql,
			e.ID, e.Document, e.Metadata.Title, e.Metadata.Company,
			e.Metadata.Location, e.Metadata.URL, pgvector.NewVector(vectors[i]))
	}

	if err := c.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert %d entries into %s: %w", len(entries), c.table, err)
	}
	return nil
}

// Query returns the topN nearest entries by cosine distance, ranked by
// similarity score (1 - distance).
func (c *PgvectorCollection) Query(ctx context.Context, vector []float32, topN int) ([]Result, error) {
	rows, err := c.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, title, company, location, url, 1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2`, c.table),
		pgvector.NewVector(vector), topN)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.table, err)
	}
	defer rows.Close()

	results := []Result{}
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.Metadata.Title, &r.Metadata.Company,
			&r.Metadata.Location, &r.Metadata.URL, &r.Score); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Delete removes the given ids; missing ids are ignored.
func (c *PgvectorCollection) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := c.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, c.table), ids)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", c.table, err)
	}
	return nil
}

// Count reports how many entries the collection holds.
func (c *PgvectorCollection) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := c.pool.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, c.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", c.table, err)
	}
	return n, nil
}
