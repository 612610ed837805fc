package harvest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sarthak-Malla/gradsearch-demo/internal/harvest"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/model"
)

// fakeStore remembers inserted identities so repeated ingests behave like a
// real store across runs.
type fakeStore struct {
	existing    map[string]bool
	existsErr   error
	insertErr   error
	conflict    bool
	insertCalls int
	inserted    []model.JobPosting
}

func newFakeStore() *fakeStore {
	return &fakeStore{existing: map[string]bool{}}
}

func (s *fakeStore) ExistsByIdentity(ctx context.Context, key string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.existing[key], nil
}

func (s *fakeStore) Insert(ctx context.Context, job *model.JobPosting) (bool, error) {
	s.insertCalls++
	if s.insertErr != nil {
		return false, s.insertErr
	}
	key := job.IdentityKey()
	if s.conflict || s.existing[key] {
		return false, nil
	}
	s.existing[key] = true
	s.inserted = append(s.inserted, *job)
	return true, nil
}

// fakeExtractor serves canned listings and details and counts detail
// fetches.
type fakeExtractor struct {
	source      model.Source
	listings    []model.RawListing
	searchErr   error
	details     model.JobDetails
	detailCalls int
}

func (e *fakeExtractor) Source() model.Source { return e.source }

func (e *fakeExtractor) Search(ctx context.Context, location string, pages int) ([]model.RawListing, error) {
	if e.searchErr != nil {
		return nil, e.searchErr
	}
	return e.listings, nil
}

func (e *fakeExtractor) FetchDetails(ctx context.Context, url string) model.JobDetails {
	e.detailCalls++
	return e.details
}

func listing(title, company, url string) model.RawListing {
	return model.RawListing{
		Title:           title,
		Company:         company,
		Location:        "Remote/Unspecified",
		URL:             url,
		Source:          model.SourceLinkedIn,
		ExperienceLevel: model.ExperienceEntry,
		PostedDate:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

// ── Gate.Ingest — dedupe ───────────────────────────────────────────────────

func TestIngest_ExistingIdentitySkipsWithoutDetailFetch(t *testing.T) {
	store := newFakeStore()
	raw := listing("Engineer", "Acme", "https://example.com/jobs/1")
	store.existing[raw.IdentityKey()] = true

	ex := &fakeExtractor{source: model.SourceLinkedIn}
	gate := harvest.NewGate(store)

	job, outcome := gate.Ingest(context.Background(), ex, raw)
	if outcome != harvest.Skipped {
		t.Errorf("outcome = %v, want Skipped", outcome)
	}
	if job != nil {
		t.Errorf("job = %+v, want nil", job)
	}
	if ex.detailCalls != 0 {
		t.Errorf("detail fetches = %d, want 0 for a known identity", ex.detailCalls)
	}
	if store.insertCalls != 0 {
		t.Errorf("insert calls = %d, want 0 for a known identity", store.insertCalls)
	}
}

// ── Gate.Ingest — save path ────────────────────────────────────────────────

func TestIngest_NovelIdentitySavesMergedRecord(t *testing.T) {
	store := newFakeStore()
	ex := &fakeExtractor{
		source: model.SourceLinkedIn,
		details: model.JobDetails{
			Description: "Build things",
			JobType:     model.JobTypeFullTime,
			Salary:      "$90k",
			Skills:      []string{"Python", "SQL"},
		},
	}
	gate := harvest.NewGate(store)
	raw := listing("Engineer", "Acme", "https://example.com/jobs/1")
	raw.Salary = "$80k"

	job, outcome := gate.Ingest(context.Background(), ex, raw)
	if outcome != harvest.Saved {
		t.Fatalf("outcome = %v, want Saved", outcome)
	}
	if job == nil {
		t.Fatal("Saved outcome returned nil job")
	}
	if ex.detailCalls != 1 {
		t.Errorf("detail fetches = %d, want 1", ex.detailCalls)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("inserted %d records, want 1", len(store.inserted))
	}

	got := store.inserted[0]
	if got.Description != "Build things" {
		t.Errorf("Description = %q, want detail text", got.Description)
	}
	if got.JobType != model.JobTypeFullTime {
		t.Errorf("JobType = %q, want Full-time", got.JobType)
	}
	if got.Salary != "$90k" {
		t.Errorf("Salary = %q, want detail value to win over %q", got.Salary, raw.Salary)
	}
	if got.ID == "" {
		t.Error("saved record has no ID")
	}
	if got.Title != raw.Title || got.Company != raw.Company || got.URL != raw.URL {
		t.Errorf("base fields not carried over: %+v", got)
	}
}

func TestIngest_EmptyDetailsStillSavesBaseRecord(t *testing.T) {
	// Detail extraction is best-effort; an empty result must not discard
	// the listing.
	store := newFakeStore()
	ex := &fakeExtractor{source: model.SourceIndeed, details: model.JobDetails{JobType: model.JobTypeOther}}
	gate := harvest.NewGate(store)

	job, outcome := gate.Ingest(context.Background(), ex, listing("Clerk", "Acme", ""))
	if outcome != harvest.Saved {
		t.Fatalf("outcome = %v, want Saved even with empty details", outcome)
	}
	if job.Description != "" || job.JobType != model.JobTypeOther {
		t.Errorf("job = %+v, want base record with default details", job)
	}
}

func TestIngest_DistinctIndeedListingsBothSave(t *testing.T) {
	// Indeed listing URLs differ only in the jk query parameter; two
	// different postings must not dedupe against each other.
	store := newFakeStore()
	ex := &fakeExtractor{source: model.SourceIndeed, details: model.JobDetails{JobType: model.JobTypeOther}}
	gate := harvest.NewGate(store)

	first := listing("Engineer", "Acme", "https://www.indeed.com/viewjob?jk=aaa111")
	second := listing("Analyst", "Globex", "https://www.indeed.com/viewjob?jk=bbb222")
	first.Source, second.Source = model.SourceIndeed, model.SourceIndeed

	if _, outcome := gate.Ingest(context.Background(), ex, first); outcome != harvest.Saved {
		t.Fatalf("first Indeed ingest outcome = %v, want Saved", outcome)
	}
	if _, outcome := gate.Ingest(context.Background(), ex, second); outcome != harvest.Saved {
		t.Fatalf("second Indeed ingest outcome = %v, want Saved, not a duplicate of the first", outcome)
	}
	if len(store.inserted) != 2 {
		t.Errorf("inserted %d records, want 2", len(store.inserted))
	}
}

// ── Gate.Ingest — failure isolation ────────────────────────────────────────

func TestIngest_LookupFailureSkips(t *testing.T) {
	store := newFakeStore()
	store.existsErr = errors.New("connection reset")
	ex := &fakeExtractor{source: model.SourceLinkedIn}
	gate := harvest.NewGate(store)

	_, outcome := gate.Ingest(context.Background(), ex, listing("Engineer", "Acme", "https://example.com/jobs/1"))
	if outcome != harvest.Skipped {
		t.Errorf("outcome = %v, want Skipped on lookup failure", outcome)
	}
	if store.insertCalls != 0 {
		t.Errorf("insert calls = %d, want 0 after lookup failure", store.insertCalls)
	}
}

func TestIngest_InsertFailureSkips(t *testing.T) {
	store := newFakeStore()
	store.insertErr = errors.New("disk full")
	ex := &fakeExtractor{source: model.SourceLinkedIn}
	gate := harvest.NewGate(store)

	_, outcome := gate.Ingest(context.Background(), ex, listing("Engineer", "Acme", "https://example.com/jobs/1"))
	if outcome != harvest.Skipped {
		t.Errorf("outcome = %v, want Skipped on insert failure", outcome)
	}
}

func TestIngest_LostInsertRaceSkips(t *testing.T) {
	// ON CONFLICT DO NOTHING reports zero rows when a concurrent harvest
	// wins; the gate must treat that as Skipped, not Saved.
	// Pre-check misses the row but the insert conflicts anyway.
	store := newFakeStore()
	store.conflict = true
	ex := &fakeExtractor{source: model.SourceLinkedIn}
	gate := harvest.NewGate(store)

	job, outcome := gate.Ingest(context.Background(), ex, listing("Engineer", "Acme", "https://example.com/jobs/1"))
	if outcome != harvest.Skipped {
		t.Errorf("outcome = %v, want Skipped when the insert loses the race", outcome)
	}
	if job != nil {
		t.Errorf("job = %+v, want nil", job)
	}
	if store.insertCalls != 1 {
		t.Errorf("insert calls = %d, want 1", store.insertCalls)
	}
}
