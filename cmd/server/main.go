package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Sarthak-Malla/gradsearch-demo/internal/api"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/browser"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/config"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/db"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/harvest"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/index"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/scheduler"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/scraper"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/store"
)

const indexCollection = "jobs-collection"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[server] no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[server] config: %v", err)
	}

	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[server] postgres: %v", err)
	}
	defer pool.Close()

	vecPool, err := db.NewVectorPool(ctx, cfg.VectorDatabaseURL)
	if err != nil {
		log.Fatalf("[server] vector db: %v", err)
	}
	defer vecPool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[server] redis: %v", err)
	}
	defer rdb.Close()

	jobs := store.NewJobStore(pool)
	if err := jobs.EnsureSchema(ctx); err != nil {
		log.Fatalf("[server] schema: %v", err)
	}
	statusStore := store.NewRunStatusStore(rdb)

	embedder, err := index.NewOpenAIEmbedder(cfg.OpenAIAPIKey)
	if err != nil {
		log.Fatalf("[server] embedder: %v", err)
	}
	pipeline := index.NewPipeline(index.NewPgvectorCollection(vecPool, indexCollection), embedder)

	launcher := browser.NewChromeLauncher()
	extractors := []scraper.Extractor{
		scraper.NewLinkedIn(launcher),
		scraper.NewIndeed(launcher),
	}
	harvester := harvest.NewHarvester(harvest.NewGate(jobs))

	sched := scheduler.New(harvester, extractors, pipeline, statusStore, scheduler.Options{
		CronSpec:    cfg.ScrapeCron,
		Locations:   cfg.ScrapeLocations,
		Pages:       cfg.ScrapePages,
		SourceDelay: cfg.SourceDelay,
	})
	if cfg.SchedulerEnabled {
		if err := sched.Start(ctx); err != nil {
			log.Fatalf("[server] scheduler: %v", err)
		}
		defer sched.Stop()
	} else {
		log.Println("[server] recurring harvest disabled by SCHEDULER_ENABLED")
	}

	server := api.NewServer(jobs, statusStore, pipeline, sched, cfg.ScrapePages)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Router(),
	}

	go func() {
		log.Printf("[server] listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[server] fatal: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[server] shutdown: %v", err)
	}
}
