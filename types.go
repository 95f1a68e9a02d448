package dataapi

import (
	"fmt"

	"github.com/kailas-cloud/dataapi/internal/domain"
	domcol "github.com/kailas-cloud/dataapi/internal/domain/collection"
	"github.com/kailas-cloud/dataapi/internal/domain/collection/vector"
	domdoc "github.com/kailas-cloud/dataapi/internal/domain/document"
)

// CollectionOptions is the validated, comparable form of collection creation options.
type CollectionOptions = domcol.Options

// CollectionDescriptor is the server's view of a collection: name plus options.
type CollectionDescriptor = domcol.Descriptor

// VectorService names a server-side embedding provider for $vectorize.
type VectorService = vector.Service

// Metric is a vector similarity function.
type Metric = vector.Metric

// Metric constants.
const (
	MetricCosine     = vector.Cosine
	MetricDotProduct = vector.DotProduct
	MetricEuclidean  = vector.Euclidean
)

// IDType is the kind of _id generated for documents inserted without one.
type IDType = domcol.IDType

// IDType constants.
const (
	IDTypeDefault  = domcol.IDTypeDefault
	IDTypeUUID     = domcol.IDTypeUUID
	IDTypeUUIDv6   = domcol.IDTypeUUIDv6
	IDTypeUUIDv7   = domcol.IDTypeUUIDv7
	IDTypeObjectID = domcol.IDTypeObjectID
)

// ObjectID is a 12-byte document id, encoded on the wire as {"$objectId": "<hex>"}.
type ObjectID = domdoc.ObjectID

// DatabaseInfo describes the database behind an endpoint.
// ID, Region and Environment are set only for hosted endpoints.
type DatabaseInfo struct {
	Endpoint    string
	ID          string
	Region      string
	Environment string
	Namespace   string
}

// CollectionInfo locates a collection.
type CollectionInfo struct {
	Database  DatabaseInfo
	Namespace string
	Name      string
	FullName  string
}

// DropResult mirrors the {"ok": 1} reply of deleteCollection.
type DropResult struct {
	OK int
}

// InsertOneResult holds the _id of an inserted document.
// Typed ids decode to uuid.UUID or ObjectID.
type InsertOneResult struct {
	InsertedID any
}

// ParseCollectionOptions parses the wire form of collection options.
func ParseCollectionOptions(raw map[string]any) (CollectionOptions, error) {
	opts, err := domcol.FromMap(raw)
	if err != nil {
		return CollectionOptions{}, fmt.Errorf("%w: %w", domain.ErrInvalidOptions, err)
	}
	return opts, nil
}

// ContainsDescriptor reports whether list holds a descriptor equal to d.
func ContainsDescriptor(list []CollectionDescriptor, d CollectionDescriptor) bool {
	return domcol.ContainsDescriptor(list, d)
}
