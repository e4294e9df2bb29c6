package domain

import "context"

// EmbeddingDimensions is the output size of the sentence-embedding model.
// Stored vectors produced by a different model/dimensionality are treated
// as "needs reparse", never compared.
const EmbeddingDimensions = 384

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// ZeroVector returns a zero-filled vector of the given dimensionality.
// It is the failure floor for degenerate or missing embeddings.
func ZeroVector(dim int) []float32 {
	return make([]float32, dim)
}
