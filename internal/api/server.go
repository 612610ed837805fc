// Package api exposes the REST query and harvest-trigger surface.
package api

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Sarthak-Malla/gradsearch-demo/internal/index"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/model"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/scheduler"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/store"
)

// JobReader is the slice of the job store the API reads from.
type JobReader interface {
	List(ctx context.Context, f store.Filter) ([]model.JobPosting, int, error)
	GetByID(ctx context.Context, id string) (*model.JobPosting, error)
	Stats(ctx context.Context) (*store.Stats, error)
}

// StatusReader loads the last recorded harvest summary.
type StatusReader interface {
	Load(ctx context.Context) (*store.RunStatus, error)
}

// Searcher answers semantic queries.
type Searcher interface {
	Search(ctx context.Context, query string, topN int) ([]index.Result, error)
}

// Runner triggers harvest runs on demand.
type Runner interface {
	RunNow(ctx context.Context, locations []string, pages int) scheduler.Summary
	NextRun() time.Time
}

// Server wires the HTTP handlers to their collaborators.
type Server struct {
	jobs     JobReader
	status   StatusReader
	searcher Searcher
	runner   Runner
	pages    int // pages per source for triggered runs
}

// NewServer constructs a Server.
func NewServer(jobs JobReader, status StatusReader, searcher Searcher, runner Runner, pages int) *Server {
	return &Server{jobs: jobs, status: status, searcher: searcher, runner: runner, pages: pages}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsCfg))

	r.GET("/health", s.health)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/jobs", s.listJobs)
		apiGroup.GET("/jobs/stats", s.jobStats)
		apiGroup.GET("/jobs/:id", s.getJob)
		apiGroup.GET("/search", s.searchJobs)
		apiGroup.POST("/scrapers/run", s.runScrapers)
		apiGroup.GET("/scrapers/status", s.scraperStatus)
	}

	return r
}
