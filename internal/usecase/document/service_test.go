package document

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/kailas-cloud/dataapi/internal/domain"
	domcol "github.com/kailas-cloud/dataapi/internal/domain/collection"
	"github.com/kailas-cloud/dataapi/internal/domain/collection/indexing"
	"github.com/kailas-cloud/dataapi/internal/domain/collection/vector"
	domdoc "github.com/kailas-cloud/dataapi/internal/domain/document"
)

// --- Mocks ---

type mockDocRepo struct {
	inserted    domdoc.Document
	insertErr   error
	findResult  domdoc.Document
	findOK      bool
	findErr     error
	countResult int
	countLimit  int
	countErr    error
	deleteCount int
	deleteErr   error
}

func (m *mockDocRepo) Insert(_ context.Context, _, _ string, doc domdoc.Document) error {
	m.inserted = doc
	return m.insertErr
}

func (m *mockDocRepo) FindOne(_ context.Context, _, _ string, _ map[string]any) (domdoc.Document, bool, error) {
	return m.findResult, m.findOK, m.findErr
}

func (m *mockDocRepo) Count(_ context.Context, _, _ string, _ map[string]any, limit int) (int, error) {
	m.countLimit = limit
	return m.countResult, m.countErr
}

func (m *mockDocRepo) DeleteAll(_ context.Context, _, _ string) (int, error) {
	return m.deleteCount, m.deleteErr
}

type mockCollReader struct {
	desc domcol.Descriptor
	err  error
}

func (m *mockCollReader) Get(_ context.Context, _, _ string) (domcol.Descriptor, error) {
	return m.desc, m.err
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	last   domain.EmbeddingRequest
}

func (m *mockEmbedder) Embed(_ context.Context, req domain.EmbeddingRequest) (domain.EmbeddingResult, error) {
	m.last = req
	return m.result, m.err
}

func plainCollection(t *testing.T, idType domcol.IDType) *mockCollReader {
	t.Helper()
	opts, err := domcol.New(vector.Vector{}, indexing.Indexing{}, idType)
	if err != nil {
		t.Fatalf("collection.New: %v", err)
	}
	return &mockCollReader{desc: domcol.Descriptor{Name: "books", Options: opts}}
}

func vectorCollection(t *testing.T, dim int, svc *vector.Service) *mockCollReader {
	t.Helper()
	v, err := vector.New(dim, vector.Cosine, svc)
	if err != nil {
		t.Fatalf("vector.New: %v", err)
	}
	opts, err := domcol.New(v, indexing.Indexing{}, "")
	if err != nil {
		t.Fatalf("collection.New: %v", err)
	}
	return &mockCollReader{desc: domcol.Descriptor{Name: "books", Options: opts}}
}

// --- Insert ---

func TestInsert_GeneratesIDPerDefaultType(t *testing.T) {
	tests := []struct {
		idType domcol.IDType
		check  func(any) bool
	}{
		{domcol.IDTypeDefault, func(id any) bool { _, ok := id.(string); return ok }},
		{domcol.IDTypeUUID, func(id any) bool { u, ok := id.(uuid.UUID); return ok && u.Version() == 4 }},
		{domcol.IDTypeUUIDv6, func(id any) bool { u, ok := id.(uuid.UUID); return ok && u.Version() == 6 }},
		{domcol.IDTypeUUIDv7, func(id any) bool { u, ok := id.(uuid.UUID); return ok && u.Version() == 7 }},
		{domcol.IDTypeObjectID, func(id any) bool { _, ok := id.(domdoc.ObjectID); return ok }},
	}
	for _, tc := range tests {
		t.Run(string(tc.idType), func(t *testing.T) {
			repo := &mockDocRepo{}
			svc := New(repo, plainCollection(t, tc.idType), nil)

			id, err := svc.Insert(context.Background(), "ks1", "books", map[string]any{"a": 1.0})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.check(id) {
				t.Errorf("generated id %#v does not match %s", id, tc.idType)
			}
			if repo.inserted.ID() != id {
				t.Errorf("stored id = %v, returned %v", repo.inserted.ID(), id)
			}
		})
	}
}

func TestInsert_KeepsExplicitID(t *testing.T) {
	repo := &mockDocRepo{}
	svc := New(repo, plainCollection(t, domcol.IDTypeObjectID), nil)

	id, err := svc.Insert(context.Background(), "ks1", "books", map[string]any{"_id": "mine"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "mine" {
		t.Errorf("id = %v, want mine", id)
	}
}

func TestInsert_CollectionNotFound(t *testing.T) {
	svc := New(&mockDocRepo{}, &mockCollReader{err: domain.ErrCollectionNotFound}, nil)
	_, err := svc.Insert(context.Background(), "ks1", "missing", map[string]any{})
	if !errors.Is(err, domain.ErrCollectionNotFound) {
		t.Fatalf("expected ErrCollectionNotFound, got %v", err)
	}
}

func TestInsert_InvalidDocument(t *testing.T) {
	svc := New(&mockDocRepo{}, plainCollection(t, ""), nil)
	_, err := svc.Insert(context.Background(), "ks1", "books", map[string]any{"$bad": 1})
	if !errors.Is(err, domain.ErrInvalidCommand) {
		t.Fatalf("expected ErrInvalidCommand, got %v", err)
	}
}

func TestInsert_Duplicate(t *testing.T) {
	svc := New(&mockDocRepo{insertErr: domain.ErrDocumentExists}, plainCollection(t, ""), nil)
	_, err := svc.Insert(context.Background(), "ks1", "books", map[string]any{"_id": "a"})
	if !errors.Is(err, domain.ErrDocumentExists) {
		t.Fatalf("expected ErrDocumentExists, got %v", err)
	}
}

func TestInsert_VectorRules(t *testing.T) {
	tests := []struct {
		name  string
		colls *mockCollReader
		doc   map[string]any
	}{
		{"both vector and vectorize", vectorCollection(t, 2, nil),
			map[string]any{"$vector": []any{1.0, 2.0}, "$vectorize": "x"}},
		{"vector on plain collection", plainCollection(t, ""),
			map[string]any{"$vector": []any{1.0}}},
		{"wrong dimension", vectorCollection(t, 3, nil),
			map[string]any{"$vector": []any{1.0, 2.0}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := New(&mockDocRepo{}, tc.colls, nil)
			_, err := svc.Insert(context.Background(), "ks1", "books", tc.doc)
			if !errors.Is(err, domain.ErrInvalidCommand) {
				t.Fatalf("expected ErrInvalidCommand, got %v", err)
			}
		})
	}
}

func TestInsert_VectorAccepted(t *testing.T) {
	repo := &mockDocRepo{}
	svc := New(repo, vectorCollection(t, 2, nil), nil)

	if _, err := svc.Insert(context.Background(), "ks1", "books", map[string]any{"$vector": []any{0.5, 0.25}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.inserted.Vector(); len(got) != 2 || got[1] != 0.25 {
		t.Errorf("stored vector = %v", got)
	}
}

func TestInsert_Vectorize(t *testing.T) {
	repo := &mockDocRepo{}
	emb := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}}
	colls := vectorCollection(t, 3, &vector.Service{Provider: "openai", ModelName: "text-embedding-3-small"})
	svc := New(repo, colls, emb)

	if _, err := svc.Insert(context.Background(), "ks1", "books", map[string]any{"$vectorize": "hello"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emb.last.Provider != "openai" || emb.last.Model != "text-embedding-3-small" ||
		emb.last.Dimensions != 3 || emb.last.Text != "hello" {
		t.Errorf("embedding request = %+v", emb.last)
	}
	if len(repo.inserted.Vector()) != 3 {
		t.Errorf("stored vector = %v", repo.inserted.Vector())
	}
	if repo.inserted.Vectorize() != "hello" {
		t.Errorf("stored $vectorize = %q", repo.inserted.Vectorize())
	}
}

func TestInsert_VectorizeUnavailable(t *testing.T) {
	withService := vectorCollection(t, 3, &vector.Service{Provider: "openai", ModelName: "text-embedding-3-small"})
	tests := []struct {
		name  string
		colls *mockCollReader
		emb   Embedder
	}{
		{"no service on collection", vectorCollection(t, 3, nil), &mockEmbedder{}},
		{"no embedder configured", withService, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := New(&mockDocRepo{}, tc.colls, tc.emb)
			_, err := svc.Insert(context.Background(), "ks1", "books", map[string]any{"$vectorize": "x"})
			if !errors.Is(err, domain.ErrVectorizeUnavailable) {
				t.Fatalf("expected ErrVectorizeUnavailable, got %v", err)
			}
		})
	}
}

func TestInsert_VectorizeProviderError(t *testing.T) {
	emb := &mockEmbedder{err: domain.ErrEmbeddingProviderError}
	colls := vectorCollection(t, 3, &vector.Service{Provider: "openai", ModelName: "text-embedding-3-small"})
	svc := New(&mockDocRepo{}, colls, emb)

	_, err := svc.Insert(context.Background(), "ks1", "books", map[string]any{"$vectorize": "x"})
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

// --- FindOne ---

func TestFindOne(t *testing.T) {
	doc, _ := domdoc.FromMap(map[string]any{"_id": "a"})
	svc := New(&mockDocRepo{findResult: doc, findOK: true}, plainCollection(t, ""), nil)

	got, ok, err := svc.FindOne(context.Background(), "ks1", "books", map[string]any{"_id": "a"})
	if err != nil || !ok {
		t.Fatalf("FindOne() = %v, %v", ok, err)
	}
	if got.ID() != "a" {
		t.Errorf("ID = %v", got.ID())
	}
}

func TestFindOne_BadFilter(t *testing.T) {
	svc := New(&mockDocRepo{findErr: errors.New("filter operator not supported")}, plainCollection(t, ""), nil)
	_, _, err := svc.FindOne(context.Background(), "ks1", "books", map[string]any{"$or": nil})
	if !errors.Is(err, domain.ErrInvalidCommand) {
		t.Fatalf("expected ErrInvalidCommand, got %v", err)
	}
}

// --- Count ---

func TestCount(t *testing.T) {
	tests := []struct {
		name     string
		repo     int
		want     int
		moreData bool
	}{
		{"under limit", 7, 7, false},
		{"at limit", 10, 10, false},
		{"over limit", 11, 10, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockDocRepo{countResult: tc.repo}
			svc := New(repo, plainCollection(t, ""), nil).WithMaxCount(10)

			n, more, err := svc.Count(context.Background(), "ks1", "books", nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n != tc.want || more != tc.moreData {
				t.Errorf("Count() = %d, %v, want %d, %v", n, more, tc.want, tc.moreData)
			}
			if repo.countLimit != 10 {
				t.Errorf("repo limit = %d, want 10", repo.countLimit)
			}
		})
	}
}

// --- DeleteMany ---

func TestDeleteMany(t *testing.T) {
	svc := New(&mockDocRepo{deleteCount: 4}, plainCollection(t, ""), nil)

	n, err := svc.DeleteMany(context.Background(), "ks1", "books", map[string]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Errorf("DeleteMany() = %d, want 4", n)
	}

	if _, err := svc.DeleteMany(context.Background(), "ks1", "books", map[string]any{"a": 1}); !errors.Is(err, domain.ErrInvalidCommand) {
		t.Errorf("filtered delete err = %v, want ErrInvalidCommand", err)
	}
}
