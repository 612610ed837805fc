package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const runStatusKey = "gradsearch:scraper:last_run"

// RunStatus is the persisted summary of the most recent harvest run.
type RunStatus struct {
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	PerSource  map[string]int `json:"jobsScraped"`
	Errors     []string       `json:"errors"`
}

// RunStatusStore keeps the latest harvest summary in Redis so the status
// endpoint can report it without touching the primary store.
type RunStatusStore struct {
	rdb *redis.Client
}

// NewRunStatusStore constructs a RunStatusStore.
func NewRunStatusStore(rdb *redis.Client) *RunStatusStore {
	return &RunStatusStore{rdb: rdb}
}

// Record overwrites the stored summary with the given run's.
func (s *RunStatusStore) Record(ctx context.Context, status RunStatus) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshal run status: %w", err)
	}
	if err := s.rdb.Set(ctx, runStatusKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("store run status: %w", err)
	}
	return nil
}

// Load returns the last recorded summary, or (nil, nil) when no run has
// completed yet.
func (s *RunStatusStore) Load(ctx context.Context) (*RunStatus, error) {
	payload, err := s.rdb.Get(ctx, runStatusKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load run status: %w", err)
	}
	var status RunStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		return nil, fmt.Errorf("unmarshal run status: %w", err)
	}
	return &status, nil
}
