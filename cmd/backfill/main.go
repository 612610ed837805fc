// Command backfill re-indexes every persisted job posting into the semantic
// index. Useful after wiping the vector store or changing the embedding
// model.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/Sarthak-Malla/gradsearch-demo/internal/config"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/db"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/index"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/store"
)

const indexCollection = "jobs-collection"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[backfill] no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[backfill] config: %v", err)
	}

	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[backfill] postgres: %v", err)
	}
	defer pool.Close()

	vecPool, err := db.NewVectorPool(ctx, cfg.VectorDatabaseURL)
	if err != nil {
		log.Fatalf("[backfill] vector db: %v", err)
	}
	defer vecPool.Close()

	embedder, err := index.NewOpenAIEmbedder(cfg.OpenAIAPIKey)
	if err != nil {
		log.Fatalf("[backfill] embedder: %v", err)
	}
	pipeline := index.NewPipeline(index.NewPgvectorCollection(vecPool, indexCollection), embedder)

	jobs, err := store.NewJobStore(pool).ListAll(ctx)
	if err != nil {
		log.Fatalf("[backfill] listing jobs: %v", err)
	}
	log.Printf("[backfill] found %d jobs in the primary store", len(jobs))

	if err := pipeline.Index(ctx, jobs); err != nil {
		log.Fatalf("[backfill] indexing: %v", err)
	}

	count, err := pipeline.Count(ctx)
	if err != nil {
		log.Fatalf("[backfill] counting index entries: %v", err)
	}
	log.Printf("[backfill] semantic index now contains %d entries", count)
}
