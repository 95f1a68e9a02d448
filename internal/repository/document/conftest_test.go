package document

import (
	"context"
	"testing"

	domdoc "github.com/kailas-cloud/dataapi/internal/domain/document"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetNXFn  func(ctx context.Context, key, field, value string) (bool, error)
	hgetFn    func(ctx context.Context, key, field string) (string, error)
	hgetAllFn func(ctx context.Context, key string) (map[string]string, error)
	hlenFn    func(ctx context.Context, key string) (int64, error)
	delFn     func(ctx context.Context, key string) error
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
	return "", nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HLen(ctx context.Context, key string) (int64, error) {
	if m.hlenFn != nil {
		return m.hlenFn(ctx, key)
	}
	return 0, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "dataapi:"), ms
}

func testDocument(t *testing.T, raw map[string]any) domdoc.Document {
	t.Helper()
	doc, err := domdoc.FromMap(raw)
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	return doc
}

// storedDocs encodes documents the way Insert would, keyed by id key.
func storedDocs(t *testing.T, docs ...map[string]any) map[string]string {
	t.Helper()
	out := make(map[string]string, len(docs))
	for _, raw := range docs {
		doc := testDocument(t, raw)
		data, err := encodeDocument(doc)
		if err != nil {
			t.Fatalf("encodeDocument: %v", err)
		}
		out[doc.Key()] = data
	}
	return out
}
