package harvest_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Sarthak-Malla/gradsearch-demo/internal/harvest"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/model"
)

var errBoom = errors.New("boom")

// ── Harvester.Run ──────────────────────────────────────────────────────────

func TestRun_ReturnsOnlyNewlySaved(t *testing.T) {
	store := newFakeStore()
	known := listing("Engineer", "Acme", "https://example.com/jobs/1")
	store.existing[known.IdentityKey()] = true

	ex := &fakeExtractor{
		source: model.SourceLinkedIn,
		listings: []model.RawListing{
			known,
			listing("Analyst", "Globex", "https://example.com/jobs/2"),
			listing("Designer", "Initech", "https://example.com/jobs/3"),
		},
	}
	h := harvest.NewHarvester(harvest.NewGate(store))

	saved, err := h.Run(context.Background(), ex, "Remote", 3)
	if err != nil {
		t.Fatalf("Run returned unexpected error: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("Run saved %d postings, want 2 (duplicate excluded)", len(saved))
	}
	if saved[0].Title != "Analyst" || saved[1].Title != "Designer" {
		t.Errorf("saved order = [%s, %s], want page order [Analyst, Designer]",
			saved[0].Title, saved[1].Title)
	}
	if ex.detailCalls != 2 {
		t.Errorf("detail fetches = %d, want 2 (none for the duplicate)", ex.detailCalls)
	}
}

func TestRun_SecondPassSavesNothing(t *testing.T) {
	store := newFakeStore()
	ex := &fakeExtractor{
		source: model.SourceIndeed,
		listings: []model.RawListing{
			listing("Engineer", "Acme", "https://example.com/jobs/1"),
			listing("Analyst", "Globex", "https://example.com/jobs/2"),
		},
	}
	h := harvest.NewHarvester(harvest.NewGate(store))

	first, err := h.Run(context.Background(), ex, "Remote", 1)
	if err != nil {
		t.Fatalf("first run returned unexpected error: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("first run saved %d postings, want 2", len(first))
	}

	second, err := h.Run(context.Background(), ex, "Remote", 1)
	if err != nil {
		t.Fatalf("second run returned unexpected error: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("second run saved %d postings, want 0", len(second))
	}
	if ex.detailCalls != 2 {
		t.Errorf("detail fetches across both runs = %d, want 2", ex.detailCalls)
	}
}

func TestRun_SearchFailureIsWrapped(t *testing.T) {
	ex := &fakeExtractor{source: model.SourceLinkedIn, searchErr: errBoom}
	h := harvest.NewHarvester(harvest.NewGate(newFakeStore()))

	saved, err := h.Run(context.Background(), ex, "United States", 3)
	if err == nil {
		t.Fatal("Run with failing search returned nil error")
	}
	if !strings.Contains(err.Error(), "LinkedIn") || !strings.Contains(err.Error(), "United States") {
		t.Errorf("error %q should name the source and location", err)
	}
	if saved != nil {
		t.Errorf("Run with failing search saved %d postings, want none", len(saved))
	}
}

func TestRun_BadListingDoesNotAbortSiblings(t *testing.T) {
	store := newFakeStore()
	ex := &fakeExtractor{
		source: model.SourceLinkedIn,
		listings: []model.RawListing{
			listing("Engineer", "Acme", "https://example.com/jobs/1"),
			listing("Analyst", "Globex", "https://example.com/jobs/2"),
		},
	}
	// First insert fails, the rest succeed.
	failing := &failFirstStore{fakeStore: store}
	h := harvest.NewHarvester(harvest.NewGate(failing))

	saved, err := h.Run(context.Background(), ex, "Remote", 1)
	if err != nil {
		t.Fatalf("Run returned unexpected error: %v", err)
	}
	if len(saved) != 1 || saved[0].Title != "Analyst" {
		t.Errorf("Run saved %v, want only the Analyst posting", saved)
	}
}

// failFirstStore fails the first Insert and delegates the rest.
type failFirstStore struct {
	*fakeStore
	calls int
}

func (s *failFirstStore) Insert(ctx context.Context, job *model.JobPosting) (bool, error) {
	s.calls++
	if s.calls == 1 {
		return false, errBoom
	}
	return s.fakeStore.Insert(ctx, job)
}
