package collection

import (
	"context"
	"testing"

	domcol "github.com/kailas-cloud/dataapi/internal/domain/collection"
	"github.com/kailas-cloud/dataapi/internal/domain/collection/indexing"
	"github.com/kailas-cloud/dataapi/internal/domain/collection/vector"
)

const testPrefix = "dataapi:"

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetNXFn  func(ctx context.Context, key, field, value string) (bool, error)
	hgetFn    func(ctx context.Context, key, field string) (string, error)
	hgetAllFn func(ctx context.Context, key string) (map[string]string, error)
	hdelFn    func(ctx context.Context, key string, fields ...string) error
}

func (m *mockStore) HSetNX(ctx context.Context, key, field, value string) (bool, error) {
	if m.hsetNXFn != nil {
		return m.hsetNXFn(ctx, key, field, value)
	}
	return true, nil
}

func (m *mockStore) HGet(ctx context.Context, key, field string) (string, error) {
	if m.hgetFn != nil {
		return m.hgetFn(ctx, key, field)
	}
	return "{}", nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HDel(ctx context.Context, key string, fields ...string) error {
	if m.hdelFn != nil {
		return m.hdelFn(ctx, key, fields...)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, testPrefix), ms
}

func testDescriptor(t *testing.T) domcol.Descriptor {
	t.Helper()
	v, err := vector.New(5, vector.DotProduct, nil)
	if err != nil {
		t.Fatalf("vector.New: %v", err)
	}
	idx, err := indexing.New([]string{"a", "b"}, nil)
	if err != nil {
		t.Fatalf("indexing.New: %v", err)
	}
	opts, err := domcol.New(v, idx, domcol.IDTypeUUIDv7)
	if err != nil {
		t.Fatalf("collection.New: %v", err)
	}
	return domcol.Descriptor{Name: "books", Options: opts}
}
