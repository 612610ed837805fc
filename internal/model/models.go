// Package model defines shared data structures for the gradsearch backend.
package model

import "time"

// Source identifies the job board a posting was scraped from.
type Source string

const (
	SourceLinkedIn Source = "LinkedIn"
	SourceIndeed   Source = "Indeed"
	SourceOther    Source = "Other"
)

// JobType mirrors the employment-type values stored in the jobs table.
type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
	JobTypeRemote     JobType = "Remote"
	JobTypeOther      JobType = "Other"
)

// ExperienceLevel mirrors the experience-level values stored in the jobs table.
type ExperienceLevel string

const (
	ExperienceEntry        ExperienceLevel = "Entry Level"
	ExperienceMid          ExperienceLevel = "Mid Level"
	ExperienceSenior       ExperienceLevel = "Senior Level"
	ExperienceNotSpecified ExperienceLevel = "Not Specified"
)

// JobPosting is a normalised job offer persisted in the primary store.
// Postings are insert-only: detail enrichment happens once, before the
// first write, and rows are never updated by the harvesting path.
type JobPosting struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Company         string          `json:"company"`
	Location        string          `json:"location"`
	Description     string          `json:"description"`
	URL             string          `json:"url"`
	Salary          string          `json:"salary,omitempty"`
	JobType         JobType         `json:"jobType"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
	Skills          []string        `json:"skills"`
	PostedDate      time.Time       `json:"postedDate"`
	Source          Source          `json:"source"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// RawListing is a minimally-parsed record from a search-results page,
// before detail-page enrichment.
type RawListing struct {
	Title           string
	Company         string
	Location        string
	URL             string
	Salary          string
	Source          Source
	ExperienceLevel ExperienceLevel
	PostedDate      time.Time
}

// JobDetails holds the long-form fields extracted from a listing's own page.
// A zero JobDetails (with JobType defaulted to Other) is a valid outcome —
// detail extraction is best-effort.
type JobDetails struct {
	Description string
	JobType     JobType
	Salary      string
	Skills      []string
}
