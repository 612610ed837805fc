package harvest

import (
	"context"
	"fmt"
	"log"

	"github.com/Sarthak-Malla/gradsearch-demo/internal/model"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/scraper"
)

// Harvester runs one complete pass over one board's search results for one
// location and returns only the postings that were newly saved. This return
// value is the sole channel by which new postings reach the semantic index;
// the gate itself never talks to the indexer.
type Harvester struct {
	gate *Gate
}

// NewHarvester constructs a Harvester over the given gate.
func NewHarvester(gate *Gate) *Harvester {
	return &Harvester{gate: gate}
}

// Run searches up to pages result pages (the extractor stops early when
// pagination runs out) and ingests every listing found, in page order.
// Listing-level failures are absorbed by the gate; only a source-level
// failure (browser could not launch) is returned.
func (h *Harvester) Run(ctx context.Context, ex scraper.Extractor, location string, pages int) ([]model.JobPosting, error) {
	listings, err := ex.Search(ctx, location, pages)
	if err != nil {
		return nil, fmt.Errorf("%s search (%q): %w", ex.Source(), location, err)
	}

	var saved []model.JobPosting
	for _, raw := range listings {
		if job, outcome := h.gate.Ingest(ctx, ex, raw); outcome == Saved {
			saved = append(saved, *job)
		}
	}

	log.Printf("[harvest] %s (%q): %d listings scraped, %d new jobs saved",
		ex.Source(), location, len(listings), len(saved))
	return saved, nil
}
