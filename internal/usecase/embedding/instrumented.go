package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dataapi/internal/domain"
)

// Registry routes $vectorize requests to the embedder configured for the provider.
type Registry struct {
	providers map[string]domain.Embedder
	logger    *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{providers: make(map[string]domain.Embedder), logger: logger}
}

// Register binds an embedder to a provider name, replacing any previous one.
func (r *Registry) Register(provider string, e domain.Embedder) {
	r.providers[provider] = e
}

// Has reports whether a provider is configured.
func (r *Registry) Has(provider string) bool {
	_, ok := r.providers[provider]
	return ok
}

// Embed delegates to the provider's embedder and logs the outcome.
// Unknown providers yield domain.ErrVectorizeUnavailable.
func (r *Registry) Embed(ctx context.Context, req domain.EmbeddingRequest) (domain.EmbeddingResult, error) {
	inner, ok := r.providers[req.Provider]
	if !ok {
		return domain.EmbeddingResult{}, fmt.Errorf("provider %q: %w", req.Provider, domain.ErrVectorizeUnavailable)
	}

	start := time.Now()

	result, err := inner.Embed(ctx, req)

	duration := time.Since(start)

	if err != nil {
		r.logger.Error("Embedding request failed",
			zap.String("provider", req.Provider),
			zap.String("model", req.Model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	if req.Dimensions > 0 && len(result.Embedding) != req.Dimensions {
		return domain.EmbeddingResult{}, fmt.Errorf("provider %q returned %d dimensions, want %d: %w",
			req.Provider, len(result.Embedding), req.Dimensions, domain.ErrEmbeddingProviderError)
	}

	r.logger.Debug("Embedding request completed",
		zap.String("provider", req.Provider),
		zap.String("model", req.Model),
		zap.Duration("duration", duration),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}
