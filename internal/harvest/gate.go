// Package harvest runs the extract → dedupe → enrich → persist pipeline for
// one job board at a time.
package harvest

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Sarthak-Malla/gradsearch-demo/internal/model"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/scraper"
)

// Store is the slice of the job store the gate needs.
type Store interface {
	ExistsByIdentity(ctx context.Context, key string) (bool, error)
	Insert(ctx context.Context, job *model.JobPosting) (bool, error)
}

// Outcome is the gate's per-listing decision.
type Outcome int

const (
	// Skipped means the listing was a duplicate or failed to persist; either
	// way nothing new reached the store.
	Skipped Outcome = iota
	// Saved means a new posting was written.
	Saved
)

// Gate decides whether a raw listing becomes a new posting. Duplicates are
// detected by identity key before any expensive detail-page navigation.
type Gate struct {
	store Store
}

// NewGate constructs a Gate over the given store.
func NewGate(store Store) *Gate {
	return &Gate{store: store}
}

// Ingest runs one listing through the dedupe check, detail enrichment and
// write. Failures are logged and converted to Skipped so one bad listing
// never aborts its siblings. A detail fetch that comes back empty still
// saves the base record: partial data beats losing the listing.
func (g *Gate) Ingest(ctx context.Context, ex scraper.Extractor, raw model.RawListing) (*model.JobPosting, Outcome) {
	key := raw.IdentityKey()

	exists, err := g.store.ExistsByIdentity(ctx, key)
	if err != nil {
		log.Printf("[gate] identity lookup failed for %q @ %q (%s): %v",
			raw.Title, raw.Company, raw.URL, err)
		return nil, Skipped
	}
	if exists {
		return nil, Skipped
	}

	details := ex.FetchDetails(ctx, raw.URL)
	job := merge(raw, details)

	inserted, err := g.store.Insert(ctx, &job)
	if err != nil {
		log.Printf("[gate] insert failed for %q @ %q (%s): %v",
			raw.Title, raw.Company, raw.URL, err)
		return nil, Skipped
	}
	if !inserted {
		// Lost the race against a concurrent harvest; the unique index on
		// identity_key did its job.
		return nil, Skipped
	}
	return &job, Saved
}

// merge builds the posting to persist; detail fields win on conflict.
func merge(raw model.RawListing, details model.JobDetails) model.JobPosting {
	salary := raw.Salary
	if details.Salary != "" {
		salary = details.Salary
	}
	jobType := details.JobType
	if jobType == "" {
		jobType = model.JobTypeOther
	}

	now := time.Now().UTC()
	return model.JobPosting{
		ID:              uuid.NewString(),
		Title:           raw.Title,
		Company:         raw.Company,
		Location:        raw.Location,
		Description:     details.Description,
		URL:             raw.URL,
		Salary:          salary,
		JobType:         jobType,
		ExperienceLevel: raw.ExperienceLevel,
		Skills:          details.Skills,
		PostedDate:      raw.PostedDate,
		Source:          raw.Source,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
