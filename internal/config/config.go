// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration for the gradsearch backend.
type Config struct {
	Port              string
	DatabaseURL       string
	RedisURL          string
	VectorDatabaseURL string
	OpenAIAPIKey      string

	ScrapeCron       string   // cron expression for the recurring harvest
	ScrapeLocations  []string // default target locations
	ScrapePages      int      // search-result pages per (source, location)
	SourceDelay      time.Duration
	SchedulerEnabled bool
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	vectorURL := os.Getenv("VECTOR_DATABASE_URL")
	if vectorURL == "" {
		return nil, fmt.Errorf("VECTOR_DATABASE_URL is required")
	}

	// The embedding credential is fatal at startup: without it the semantic
	// index cannot operate at all.
	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	cronSpec := os.Getenv("SCRAPE_CRON")
	if cronSpec == "" {
		cronSpec = "0 3 * * *" // 3 AM every day
	}

	locations := []string{"United States", "Remote"}
	if s := os.Getenv("SCRAPE_LOCATIONS"); s != "" {
		locations = locations[:0]
		for _, loc := range strings.Split(s, ",") {
			if loc = strings.TrimSpace(loc); loc != "" {
				locations = append(locations, loc)
			}
		}
		if len(locations) == 0 {
			return nil, fmt.Errorf("SCRAPE_LOCATIONS must contain at least one location, got %q", s)
		}
	}

	pages := 3
	if s := os.Getenv("SCRAPE_PAGES"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("SCRAPE_PAGES must be a positive integer, got %q", s)
		}
		pages = v
	}

	delay := 5 * time.Second
	if s := os.Getenv("SOURCE_DELAY_SECONDS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("SOURCE_DELAY_SECONDS must be a non-negative integer, got %q", s)
		}
		delay = time.Duration(v) * time.Second
	}

	enabled := true
	if s := os.Getenv("SCHEDULER_ENABLED"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("SCHEDULER_ENABLED must be a boolean, got %q", s)
		}
		enabled = v
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Port:              port,
		DatabaseURL:       dbURL,
		RedisURL:          redisURL,
		VectorDatabaseURL: vectorURL,
		OpenAIAPIKey:      openAIKey,
		ScrapeCron:        cronSpec,
		ScrapeLocations:   locations,
		ScrapePages:       pages,
		SourceDelay:       delay,
		SchedulerEnabled:  enabled,
	}, nil
}
