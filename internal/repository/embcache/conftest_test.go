package embcache

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dataapi/internal/db"
	"github.com/kailas-cloud/dataapi/internal/domain"
)

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
	last   domain.EmbeddingRequest
}

func (m *mockEmbedder) Embed(_ context.Context, req domain.EmbeddingRequest) (domain.EmbeddingResult, error) {
	m.calls++
	m.last = req
	return m.result, m.err
}

// mockHashStore implements the consumer interface for tests.
type mockHashStore struct {
	hgetFn func(ctx context.Context, key, field string) (string, error)
	hsetFn func(ctx context.Context, key string, fields map[string]string) error
}

func (m *mockHashStore) HGet(ctx context.Context, key, field string) (string, error) {
	if m.hgetFn != nil {
		return m.hgetFn(ctx, key, field)
	}
	return "", db.ErrKeyNotFound
}

func (m *mockHashStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func newTestCachedEmbedder(t *testing.T, inner *mockEmbedder) (*CachedEmbedder, *mockHashStore) {
	t.Helper()
	ms := &mockHashStore{}
	ce := New(inner, ms, "dataapi:", nil, zap.NewNop())
	return ce, ms
}

func testRequest(text string) domain.EmbeddingRequest {
	return domain.EmbeddingRequest{Provider: "openai", Model: "text-embedding-3-small", Dimensions: 3, Text: text}
}
