// Package scraper implements per-source extraction of job listings from
// script-rendered search pages.
package scraper

import (
	"context"
	"time"

	"github.com/Sarthak-Malla/gradsearch-demo/internal/model"
)

// Entry-level positions are the product focus; every search query is pinned
// to this term and extracted listings carry ExperienceLevel "Entry Level".
const searchQuery = "entry level"

// pageSettleDelay gives a board's script-driven pagination time to swap the
// results container after a next-page click.
const pageSettleDelay = 3 * time.Second

// Extractor drives one job board. Implementations own exactly one browser
// session per call and release it on every exit path.
type Extractor interface {
	// Source tags the board this extractor scrapes.
	Source() model.Source

	// Search pages through up to pages search-result pages for the given
	// location (empty means unspecified) and returns the raw listings found.
	// Page-level trouble — selector timeouts, navigation failures mid-run,
	// unparseable listings — degrades to partial or empty output rather than
	// an error; only a failure to obtain a browser session is returned.
	Search(ctx context.Context, location string, pages int) ([]model.RawListing, error)

	// FetchDetails loads one listing's own page and extracts long-form
	// fields. It never fails: any trouble yields zero-valued details with
	// JobType defaulted to Other.
	FetchDetails(ctx context.Context, url string) model.JobDetails
}

// sleep waits for d or until ctx is cancelled, whichever comes first.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
