package collection

import (
	"context"

	domcol "github.com/kailas-cloud/dataapi/internal/domain/collection"
)

// Repository defines the storage contract for collections.
type Repository interface {
	Create(ctx context.Context, ns string, desc domcol.Descriptor) error
	Get(ctx context.Context, ns, name string) (domcol.Descriptor, error)
	List(ctx context.Context, ns string) ([]domcol.Descriptor, error)
	Delete(ctx context.Context, ns, name string) error
}

// DocumentPurger removes a collection's documents when it is deleted.
type DocumentPurger interface {
	DeleteAll(ctx context.Context, ns, coll string) (int, error)
}
