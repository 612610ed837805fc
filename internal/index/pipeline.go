// Package index maintains the semantic job index: it embeds postings and
// upserts them into a vector collection keyed by a stable, URL-derived id.
package index

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/tmc/langchaingo/embeddings"

	"github.com/Sarthak-Malla/gradsearch-demo/internal/model"
)

// batchSize bounds how many postings are embedded and upserted per request
// to the underlying services.
const batchSize = 100

// Metadata is carried alongside each index entry so search results can be
// rendered (and re-hydrated from the primary store) without a second lookup.
type Metadata struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	URL      string `json:"url"`
}

// Entry is one indexed document.
type Entry struct {
	ID       string
	Document string
	Metadata Metadata
}

// Result is one ranked search hit.
type Result struct {
	ID       string   `json:"id"`
	Score    float64  `json:"score"`
	Metadata Metadata `json:"metadata"`
}

// Collection is the black-box nearest-neighbour store behind the pipeline.
type Collection interface {
	// Ensure creates the collection if missing; reusing an existing one is
	// not an error, including when a concurrent initializer wins the race.
	Ensure(ctx context.Context) error
	Upsert(ctx context.Context, entries []Entry, vectors [][]float32) error
	Query(ctx context.Context, vector []float32, topN int) ([]Result, error)
	Delete(ctx context.Context, ids []string) error
	Count(ctx context.Context) (int64, error)
}

// Pipeline converts saved postings into index entries and serves semantic
// queries over them.
type Pipeline struct {
	collection Collection
	embedder   embeddings.Embedder

	initOnce sync.Once
	initErr  error
}

// NewPipeline constructs a Pipeline. Collection setup is deferred to the
// first operation and performed exactly once.
func NewPipeline(collection Collection, embedder embeddings.Embedder) *Pipeline {
	return &Pipeline{collection: collection, embedder: embedder}
}

func (p *Pipeline) init(ctx context.Context) error {
	p.initOnce.Do(func() {
		p.initErr = p.collection.Ensure(ctx)
	})
	return p.initErr
}

// Index embeds and upserts the given postings in batches. An empty input is
// a no-op with no service calls at all. A batch failure is returned to the
// caller; batches already written stay written (no cross-batch atomicity).
func (p *Pipeline) Index(ctx context.Context, jobs []model.JobPosting) error {
	if len(jobs) == 0 {
		return nil
	}
	if err := p.init(ctx); err != nil {
		return fmt.Errorf("init index: %w", err)
	}

	for start := 0; start < len(jobs); start += batchSize {
		end := min(start+batchSize, len(jobs))
		if err := p.indexBatch(ctx, jobs[start:end]); err != nil {
			return fmt.Errorf("index batch %d-%d of %d: %w", start+1, end, len(jobs), err)
		}
	}
	return nil
}

func (p *Pipeline) indexBatch(ctx context.Context, jobs []model.JobPosting) error {
	docs := make([]string, len(jobs))
	entries := make([]Entry, len(jobs))
	for i, job := range jobs {
		docs[i] = buildDocument(job)
		entries[i] = Entry{
			ID:       KeyForURL(job.URL),
			Document: docs[i],
			Metadata: Metadata{
				Title:    job.Title,
				Company:  job.Company,
				Location: job.Location,
				URL:      job.URL,
			},
		}
	}

	vectors, err := p.embedder.EmbedDocuments(ctx, docs)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(vectors) != len(entries) {
		return fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(entries))
	}

	return p.collection.Upsert(ctx, entries, vectors)
}

// Search returns up to topN postings ranked by semantic similarity to the
// query text. Zero matches yield an empty slice, not an error.
func (p *Pipeline) Search(ctx context.Context, query string, topN int) ([]Result, error) {
	if err := p.init(ctx); err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}
	if topN < 1 {
		topN = 5
	}

	vector, err := p.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := p.collection.Query(ctx, vector, topN)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	if results == nil {
		results = []Result{}
	}
	return results, nil
}

// DeleteByURL removes the entry for the given listing URL, if present.
func (p *Pipeline) DeleteByURL(ctx context.Context, jobURL string) error {
	if err := p.init(ctx); err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	return p.collection.Delete(ctx, []string{KeyForURL(jobURL)})
}

// Count reports how many entries the index holds.
func (p *Pipeline) Count(ctx context.Context) (int64, error) {
	if err := p.init(ctx); err != nil {
		return 0, fmt.Errorf("init index: %w", err)
	}
	return p.collection.Count(ctx)
}

// KeyForURL derives the index identity from a listing URL. The URL is
// percent-encoded so it satisfies the collection's key constraints.
func KeyForURL(jobURL string) string {
	return url.QueryEscape(jobURL)
}

// buildDocument concatenates the embeddable fields of a posting into one
// text blob.
func buildDocument(job model.JobPosting) string {
	return fmt.Sprintf("Title: %s. Company: %s. Description: %s. Location: %s",
		job.Title, job.Company, job.Description, job.Location)
}
