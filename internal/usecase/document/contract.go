package document

import (
	"context"

	"github.com/kailas-cloud/dataapi/internal/domain"
	domcol "github.com/kailas-cloud/dataapi/internal/domain/collection"
	domdoc "github.com/kailas-cloud/dataapi/internal/domain/document"
)

// Repository defines the storage contract for documents.
type Repository interface {
	Insert(ctx context.Context, ns, coll string, doc domdoc.Document) error
	FindOne(ctx context.Context, ns, coll string, filter map[string]any) (domdoc.Document, bool, error)
	Count(ctx context.Context, ns, coll string, filter map[string]any, limit int) (int, error)
	DeleteAll(ctx context.Context, ns, coll string) (int, error)
}

// CollectionReader reads collections for existence and option checks.
type CollectionReader interface {
	Get(ctx context.Context, ns, name string) (domcol.Descriptor, error)
}

// Embedder vectorizes $vectorize text.
type Embedder interface {
	Embed(ctx context.Context, req domain.EmbeddingRequest) (domain.EmbeddingResult, error)
}
