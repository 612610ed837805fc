// Package scheduler fans harvesting out across job boards and locations,
// either on a recurring cron trigger or as an immediate one-shot run, and
// forwards newly-saved postings to the semantic index.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Sarthak-Malla/gradsearch-demo/internal/harvest"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/model"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/scraper"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/store"
)

// Indexer receives the batch of postings saved by a run.
type Indexer interface {
	Index(ctx context.Context, jobs []model.JobPosting) error
}

// StatusRecorder persists a run summary for the status endpoint.
type StatusRecorder interface {
	Record(ctx context.Context, status store.RunStatus) error
}

// Summary reports one run. Accumulation is per-invocation: concurrent runs
// never share a Summary.
type Summary struct {
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	PerSource  map[string]int `json:"jobsScraped"`
	Errors     []string       `json:"errors"`
}

// Saved returns the total number of postings saved across all sources.
func (s Summary) Saved() int {
	total := 0
	for _, n := range s.PerSource {
		total += n
	}
	return total
}

// Options configures a Scheduler.
type Options struct {
	CronSpec    string        // e.g. "0 3 * * *"
	Locations   []string      // default locations for scheduled runs
	Pages       int           // search pages per (source, location)
	SourceDelay time.Duration // pause between consecutive harvests
}

// Scheduler wraps robfig/cron and owns the multi-source fan-out.
type Scheduler struct {
	cron       *cron.Cron
	harvester  *harvest.Harvester
	extractors []scraper.Extractor
	indexer    Indexer
	status     StatusRecorder
	opts       Options
}

// New creates a Scheduler. status may be nil when run-status persistence is
// not wanted (tests, backfill tooling).
func New(harvester *harvest.Harvester, extractors []scraper.Extractor, indexer Indexer, status StatusRecorder, opts Options) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(cron.DefaultLogger)),
		harvester:  harvester,
		extractors: extractors,
		indexer:    indexer,
		status:     status,
		opts:       opts,
	}
}

// Start registers the recurring harvest and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.opts.CronSpec, func() {
		sum := s.RunNow(ctx, s.opts.Locations, s.opts.Pages)
		log.Printf("[scheduler] scheduled run complete — saved=%d errors=%d",
			sum.Saved(), len(sum.Errors))
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc(%q): %w", s.opts.CronSpec, err)
	}

	s.cron.Start()
	log.Printf("[scheduler] cron started — spec: %q locations: %v", s.opts.CronSpec, s.opts.Locations)
	return nil
}

// Stop gracefully shuts down the cron loop. A run already in flight
// completes; there is no mid-run cancellation.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] cron stopped")
}

// NextRun reports when the recurring harvest fires next, or the zero time
// when no schedule is registered.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunNow harvests every (source, location) pair synchronously and indexes
// whatever was saved. A failing pair is recorded and the remaining pairs
// still run; an indexing failure is recorded too but does not undo the
// primary-store writes of the run.
func (s *Scheduler) RunNow(ctx context.Context, locations []string, pages int) Summary {
	sum := Summary{
		StartedAt: time.Now().UTC(),
		PerSource: make(map[string]int, len(s.extractors)),
		Errors:    []string{},
	}
	for _, ex := range s.extractors {
		sum.PerSource[sourceKey(ex.Source())] = 0
	}

	log.Printf("[scheduler] run started — locations: %v pages: %d", locations, pages)

	var batch []model.JobPosting
	first := true
	for _, location := range locations {
		for _, ex := range s.extractors {
			// Pause between boards so we are not hammering them back to back.
			if !first {
				pause(ctx, s.opts.SourceDelay)
			}
			first = false

			saved, err := s.harvester.Run(ctx, ex, location, pages)
			if err != nil {
				log.Printf("[scheduler] %s harvest error for %q: %v — continuing", ex.Source(), location, err)
				sum.Errors = append(sum.Errors, fmt.Sprintf("%s - %s: %v", ex.Source(), location, err))
				continue
			}
			sum.PerSource[sourceKey(ex.Source())] += len(saved)
			batch = append(batch, saved...)
		}
	}

	// The indexer no-ops on an empty batch; a failure here does not touch
	// the harvest counts already collected.
	if err := s.indexer.Index(ctx, batch); err != nil {
		log.Printf("[scheduler] indexing error: %v", err)
		sum.Errors = append(sum.Errors, fmt.Sprintf("indexing: %v", err))
	}

	sum.FinishedAt = time.Now().UTC()
	s.recordStatus(ctx, sum)

	log.Printf("[scheduler] run finished — saved: %v errors: %d", sum.PerSource, len(sum.Errors))
	return sum
}

func (s *Scheduler) recordStatus(ctx context.Context, sum Summary) {
	if s.status == nil {
		return
	}
	err := s.status.Record(ctx, store.RunStatus{
		StartedAt:  sum.StartedAt,
		FinishedAt: sum.FinishedAt,
		PerSource:  sum.PerSource,
		Errors:     sum.Errors,
	})
	if err != nil {
		log.Printf("[scheduler] recording run status failed: %v", err)
	}
}

func sourceKey(source model.Source) string {
	return strings.ToLower(string(source))
}

func pause(ctx context.Context, d time.Duration) {
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
