package api

import (
	"context"
	"errors"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sarthak-Malla/gradsearch-demo/internal/store"
)

// runTimeout bounds a triggered harvest run; each navigation inside it has
// its own shorter budget.
const runTimeout = 30 * time.Minute

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "gradsearch-backend",
		"version": "0.1.0",
	})
}

func (s *Server) listJobs(c *gin.Context) {
	filter := store.Filter{
		Source:          c.Query("source"),
		ExperienceLevel: c.Query("experienceLevel"),
		JobType:         c.Query("jobType"),
		Location:        c.Query("location"),
		Search:          c.Query("search"),
		Page:            intQuery(c, "page", 1),
		Limit:           intQuery(c, "limit", 20),
		SortBy:          c.DefaultQuery("sortBy", "createdAt"),
		SortOrder:       c.DefaultQuery("sortOrder", "desc"),
	}

	jobs, total, err := s.jobs.List(c.Request.Context(), filter)
	if err != nil {
		log.Printf("[api] listing jobs failed: %v", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"count":       len(jobs),
		"total":       total,
		"pages":       int(math.Ceil(float64(total) / float64(filter.Limit))),
		"currentPage": filter.Page,
		"data":        jobs,
	})
}

func (s *Server) getJob(c *gin.Context) {
	job, err := s.jobs.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Job not found"})
		return
	}
	if err != nil {
		log.Printf("[api] fetching job %s failed: %v", c.Param("id"), err)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": job})
}

func (s *Server) jobStats(c *gin.Context) {
	stats, err := s.jobs.Stats(c.Request.Context())
	if err != nil {
		log.Printf("[api] computing job stats failed: %v", err)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

func (s *Server) searchJobs(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "query parameter q is required"})
		return
	}

	results, err := s.searcher.Search(c.Request.Context(), query, intQuery(c, "limit", 5))
	if err != nil {
		log.Printf("[api] semantic search failed: %v", err)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(results),
		"data":    results,
	})
}

type runRequest struct {
	Locations []string `json:"locations"`
}

// runScrapers starts a harvest in the background and acknowledges
// immediately; progress surfaces through logs and the status endpoint.
func (s *Server) runScrapers(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}
	if len(req.Locations) == 0 {
		req.Locations = []string{"United States"}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		sum := s.runner.RunNow(ctx, req.Locations, s.pages)
		log.Printf("[api] triggered run finished — saved=%d errors=%d", sum.Saved(), len(sum.Errors))
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"success":   true,
		"message":   "Job scraping started successfully",
		"locations": req.Locations,
	})
}

func (s *Server) scraperStatus(c *gin.Context) {
	status, err := s.status.Load(c.Request.Context())
	if err != nil {
		log.Printf("[api] loading scraper status failed: %v", err)
		internalError(c)
		return
	}

	data := gin.H{"nextScheduledRun": nil}
	if next := s.runner.NextRun(); !next.IsZero() {
		data["nextScheduledRun"] = next
	}
	if status == nil {
		data["status"] = "never run"
	} else {
		data["status"] = "completed"
		data["lastRun"] = status.FinishedAt
		data["jobsScraped"] = status.PerSource
		data["errors"] = status.Errors
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
