package dataapi

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/kailas-cloud/dataapi/internal/domain"
	"github.com/kailas-cloud/dataapi/internal/domain/command"
	domdoc "github.com/kailas-cloud/dataapi/internal/domain/document"
	"github.com/kailas-cloud/dataapi/internal/transport/httpapi"
)

// Collection is a handle on a named collection in a namespace.
// Creating a handle does not contact the server.
type Collection struct {
	db   *Database
	name string
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Namespace returns the namespace the handle is bound to.
func (c *Collection) Namespace() string { return c.db.namespace }

// Database returns the parent database handle.
func (c *Collection) Database() *Database { return c.db }

// WithNamespace returns a handle on the same name in ns. The receiver is unchanged.
func (c *Collection) WithNamespace(ns string) *Collection {
	return &Collection{db: c.db.WithNamespace(ns), name: c.name}
}

// Info locates the collection.
func (c *Collection) Info() CollectionInfo {
	return CollectionInfo{
		Database:  c.db.Info(),
		Namespace: c.db.namespace,
		Name:      c.name,
		FullName:  c.db.namespace + "." + c.name,
	}
}

// Equal reports whether both handles address the same collection.
func (c *Collection) Equal(o *Collection) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.db.client.endpoint == o.db.client.endpoint &&
		c.db.namespace == o.db.namespace &&
		c.name == o.name
}

// Options fetches the collection descriptor from the server.
func (c *Collection) Options(ctx context.Context) (CollectionDescriptor, error) {
	list, err := c.db.ListCollections(ctx)
	if err != nil {
		return CollectionDescriptor{}, fmt.Errorf("collection options %s: %w", c.name, err)
	}
	for _, d := range list {
		if d.Name == c.name {
			return d, nil
		}
	}
	return CollectionDescriptor{}, fmt.Errorf("collection options %s: %w", c.name, domain.ErrCollectionNotFound)
}

// Drop deletes the collection. Dropping a missing collection also reports OK.
func (c *Collection) Drop(ctx context.Context) (_ DropResult, err error) {
	start := time.Now()
	defer func() { c.db.client.obs.observe("collection.drop", c.db.namespace, start, err) }()

	if c.db.namespace == "" {
		return DropResult{}, fmt.Errorf("drop collection %s: %w", c.name, domain.ErrNamespaceRequired)
	}
	return c.db.drop(ctx, c.db.namespace, c.name)
}

// InsertOne inserts a document. Without an _id the server assigns one per the
// collection's default id type.
func (c *Collection) InsertOne(
	ctx context.Context, doc map[string]any,
) (_ InsertOneResult, err error) {
	start := time.Now()
	defer func() { c.db.client.obs.observe("collection.insert_one", c.db.namespace, start, err) }()

	resp, err := c.send(ctx, command.OpInsertOne, map[string]any{"document": encodeDocument(doc)})
	if err != nil {
		return InsertOneResult{}, fmt.Errorf("insert one into %s: %w", c.name, err)
	}

	ids, _ := resp.Status["insertedIds"].([]any)
	if len(ids) != 1 {
		return InsertOneResult{}, fmt.Errorf("insert one into %s: %w: want 1 inserted id, got %d",
			c.name, domain.ErrTransport, len(ids))
	}
	id, err := domdoc.DecodeID(ids[0])
	if err != nil {
		return InsertOneResult{}, fmt.Errorf("insert one into %s: %w: %w", c.name, domain.ErrTransport, err)
	}
	return InsertOneResult{InsertedID: id}, nil
}

// FindOne returns the first document matching an equality filter, or nil.
// The _id of the result is decoded to uuid.UUID or ObjectID when typed.
func (c *Collection) FindOne(
	ctx context.Context, filter map[string]any,
) (_ map[string]any, err error) {
	start := time.Now()
	defer func() { c.db.client.obs.observe("collection.find_one", c.db.namespace, start, err) }()

	resp, err := c.send(ctx, command.OpFindOne, map[string]any{"filter": encodeDocument(filter)})
	if err != nil {
		return nil, fmt.Errorf("find one in %s: %w", c.name, err)
	}

	doc, _ := resp.Data["document"].(map[string]any)
	if doc == nil {
		return nil, nil
	}
	if raw, ok := doc[domdoc.KeyID]; ok {
		id, err := domdoc.DecodeID(raw)
		if err != nil {
			return nil, fmt.Errorf("find one in %s: %w: %w", c.name, domain.ErrTransport, err)
		}
		doc[domdoc.KeyID] = id
	}
	return doc, nil
}

// CountDocuments counts matching documents. It fails with ErrTooManyDocuments
// when the count exceeds upperBound or the server stops counting early.
func (c *Collection) CountDocuments(
	ctx context.Context, filter map[string]any, upperBound int,
) (_ int, err error) {
	start := time.Now()
	defer func() { c.db.client.obs.observe("collection.count_documents", c.db.namespace, start, err) }()

	resp, err := c.send(ctx, command.OpCountDocuments, map[string]any{"filter": encodeDocument(filter)})
	if err != nil {
		return 0, fmt.Errorf("count documents in %s: %w", c.name, err)
	}

	count, ok := domain.AsInt(resp.Status["count"])
	if !ok {
		return 0, fmt.Errorf("count documents in %s: %w: missing status.count", c.name, domain.ErrTransport)
	}
	if more, _ := resp.Status["moreData"].(bool); more {
		return 0, fmt.Errorf("count documents in %s: %w: server stopped at %d", c.name, domain.ErrTooManyDocuments, count)
	}
	if count > upperBound {
		return 0, fmt.Errorf("count documents in %s: %w: %d > %d", c.name, domain.ErrTooManyDocuments, count, upperBound)
	}
	return count, nil
}

// DeleteAll removes every document from the collection.
func (c *Collection) DeleteAll(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.db.client.obs.observe("collection.delete_all", c.db.namespace, start, err) }()

	if _, err = c.send(ctx, command.OpDeleteMany, map[string]any{}); err != nil {
		return fmt.Errorf("delete all in %s: %w", c.name, err)
	}
	return nil
}

func (c *Collection) send(ctx context.Context, op string, body map[string]any) (httpapi.Response, error) {
	if c.db.namespace == "" {
		return httpapi.Response{}, domain.ErrNamespaceRequired
	}
	r, err := c.db.do(ctx, c.db.namespace, c.name, op, body)
	if err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.HasCode(domain.CodeCollectionNotExist) {
			return httpapi.Response{}, fmt.Errorf("%w: %w", domain.ErrCollectionNotFound, err)
		}
		return httpapi.Response{}, err
	}
	return r, nil
}

// encodeDocument renders typed _id values as extended JSON.
func encodeDocument(doc map[string]any) map[string]any {
	if doc == nil {
		return map[string]any{}
	}
	out := maps.Clone(doc)
	if id, ok := out[domdoc.KeyID]; ok {
		out[domdoc.KeyID] = domdoc.EncodeID(id)
	}
	return out
}
