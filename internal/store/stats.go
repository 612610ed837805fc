package store

import (
	"context"
	"fmt"
)

// CountRow is one bucket of a grouped count.
type CountRow struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Stats aggregates the jobs table for the dashboard.
type Stats struct {
	TotalJobs         int        `json:"totalJobs"`
	BySource          []CountRow `json:"jobsBySource"`
	ByExperienceLevel []CountRow `json:"jobsByExperienceLevel"`
	ByJobType         []CountRow `json:"jobsByType"`
	TopLocations      []CountRow `json:"topLocations"`
	TopCompanies      []CountRow `json:"topCompanies"`
	TopSkills         []CountRow `json:"topSkills"`
	PerDay            []CountRow `json:"jobsOverTime"`
}

// Stats computes all dashboard aggregates.
func (s *JobStore) Stats(ctx context.Context) (*Stats, error) {
	out := &Stats{}

	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM jobs`).Scan(&out.TotalJobs); err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}

	groups := []struct {
		dest  *[]CountRow
		query string
	}{
		{&out.BySource,
			`SELECT source, count(*) FROM jobs GROUP BY source ORDER BY count(*) DESC`},
		{&out.ByExperienceLevel,
			`SELECT experience_level, count(*) FROM jobs GROUP BY experience_level ORDER BY count(*) DESC`},
		{&out.ByJobType,
			`SELECT job_type, count(*) FROM jobs GROUP BY job_type ORDER BY count(*) DESC`},
		{&out.TopLocations,
			`SELECT location, count(*) FROM jobs GROUP BY location ORDER BY count(*) DESC LIMIT 20`},
		{&out.TopCompanies,
			`SELECT company, count(*) FROM jobs GROUP BY company ORDER BY count(*) DESC LIMIT 20`},
		{&out.TopSkills,
			`SELECT skill, count(*) FROM jobs, unnest(skills) AS skill GROUP BY skill ORDER BY count(*) DESC LIMIT 20`},
		{&out.PerDay,
			`SELECT to_char(date_trunc('day', created_at), 'YYYY-MM-DD'), count(*)
			 FROM jobs GROUP BY 1 ORDER BY 1 ASC`},
	}

	for _, g := range groups {
		rows, err := s.countGroup(ctx, g.query)
		if err != nil {
			return nil, err
		}
		*g.dest = rows
	}

	return out, nil
}

func (s *JobStore) countGroup(ctx context.Context, query string) ([]CountRow, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stats query: %w", err)
	}
	defer rows.Close()

	out := []CountRow{}
	for rows.Next() {
		var r CountRow
		if err := rows.Scan(&r.Value, &r.Count); err != nil {
			return nil, fmt.Errorf("scan stats row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
