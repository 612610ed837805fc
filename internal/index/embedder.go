package index

import (
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

const embeddingModel = "text-embedding-ada-002"

// NewOpenAIEmbedder builds the embedder the pipeline uses to vectorise
// documents and queries.
func NewOpenAIEmbedder(apiKey string) (embeddings.Embedder, error) {
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithEmbeddingModel(embeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}
	return embedder, nil
}
