// Package store persists job postings in PostgreSQL and harvest run status
// in Redis.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sarthak-Malla/gradsearch-demo/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

const jobsSchema = `
CREATE TABLE IF NOT EXISTS jobs (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	company          TEXT NOT NULL,
	location         TEXT NOT NULL DEFAULT '',
	description      TEXT NOT NULL DEFAULT '',
	url              TEXT NOT NULL DEFAULT '',
	salary           TEXT NOT NULL DEFAULT '',
	job_type         TEXT NOT NULL DEFAULT 'Other',
	experience_level TEXT NOT NULL DEFAULT 'Not Specified',
	skills           TEXT[] NOT NULL DEFAULT '{}',
	posted_date      TIMESTAMPTZ NOT NULL DEFAULT now(),
	source           TEXT NOT NULL,
	identity_key     TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS jobs_identity_key_idx ON jobs (identity_key);
CREATE INDEX IF NOT EXISTS jobs_source_idx ON jobs (source);
CREATE INDEX IF NOT EXISTS jobs_created_at_idx ON jobs (created_at);
`

const jobColumns = `id, title, company, location, description, url, salary,
	job_type, experience_level, skills, posted_date, source, created_at, updated_at`

// JobStore provides access to the jobs table.
type JobStore struct {
	pool *pgxpool.Pool
}

// NewJobStore constructs a JobStore over the given pool.
func NewJobStore(pool *pgxpool.Pool) *JobStore {
	return &JobStore{pool: pool}
}

// EnsureSchema creates the jobs table and its indexes if missing.
func (s *JobStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, jobsSchema); err != nil {
		return fmt.Errorf("ensure jobs schema: %w", err)
	}
	return nil
}

// ExistsByIdentity reports whether a posting with the given identity key is
// already persisted.
func (s *JobStore) ExistsByIdentity(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM jobs WHERE identity_key = $1)`, key,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query identity %q: %w", key, err)
	}
	return exists, nil
}

// Insert writes a new posting. The unique index on identity_key is the
// backstop against concurrent harvests racing past the pre-check; a conflict
// is reported as inserted=false, not an error.
func (s *JobStore) Insert(ctx context.Context, job *model.JobPosting) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (id, title, company, location, description, url, salary,
			job_type, experience_level, skills, posted_date, source, identity_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (identity_key) DO NOTHING`,
		job.ID, job.Title, job.Company, job.Location, job.Description, job.URL,
		job.Salary, string(job.JobType), string(job.ExperienceLevel), job.Skills,
		job.PostedDate, string(job.Source), job.IdentityKey(),
	)
	if err != nil {
		return false, fmt.Errorf("insert job %q: %w", job.Title, err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetByID fetches one posting, returning ErrNotFound when absent.
func (s *JobStore) GetByID(ctx context.Context, id string) (*model.JobPosting, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	job, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return job, nil
}

// List returns one page of postings matching the filter plus the total
// match count.
func (s *JobStore) List(ctx context.Context, f Filter) ([]model.JobPosting, int, error) {
	f = f.normalized()

	countSQL, countArgs := buildCountQuery(f)
	var total int
	if err := s.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	listSQL, listArgs := buildListQuery(f)
	rows, err := s.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs, err := collectJobs(rows)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// ListAll streams every posting, oldest first. Used by the index backfill.
func (s *JobStore) ListAll(ctx context.Context) ([]model.JobPosting, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list all jobs: %w", err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*model.JobPosting, error) {
	var (
		j          model.JobPosting
		jobType    string
		expLevel   string
		source     string
		postedDate time.Time
	)
	err := row.Scan(
		&j.ID, &j.Title, &j.Company, &j.Location, &j.Description, &j.URL,
		&j.Salary, &jobType, &expLevel, &j.Skills, &postedDate, &source,
		&j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	j.JobType = model.JobType(jobType)
	j.ExperienceLevel = model.ExperienceLevel(expLevel)
	j.Source = model.Source(source)
	j.PostedDate = postedDate
	return &j, nil
}

func collectJobs(rows pgx.Rows) ([]model.JobPosting, error) {
	jobs := []model.JobPosting{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}
