package domain

import "context"

// EmbeddingRequest asks a provider to vectorize one text with a collection's model.
type EmbeddingRequest struct {
	Provider   string
	Model      string
	Dimensions int
	Text       string
}

// EmbeddingResult carries the vector and token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder is the $vectorize contract between the document use case and providers.
type Embedder interface {
	Embed(ctx context.Context, req EmbeddingRequest) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
