package document

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/dataapi/internal/db"
	"github.com/kailas-cloud/dataapi/internal/domain"
	domdoc "github.com/kailas-cloud/dataapi/internal/domain/document"
)

// store is the consumer interface for documents (ISP).
type store interface {
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HLen(ctx context.Context, key string) (int64, error)
	Del(ctx context.Context, key string) error
}

// Repo implements usecase/document.Repository.
// A collection is one hash: field = id key, value = document JSON.
type Repo struct {
	store  store
	prefix string
}

// New creates a document repository. prefix is prepended to every key.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Insert stores a document that must carry an _id.
// Returns domain.ErrDocumentExists when the _id is taken.
func (r *Repo) Insert(ctx context.Context, ns, coll string, doc domdoc.Document) error {
	if !doc.HasID() {
		return fmt.Errorf("insert %s.%s: document has no _id", ns, coll)
	}
	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	set, err := r.store.HSetNX(ctx, r.docsKey(ns, coll), doc.Key(), data)
	if err != nil {
		return fmt.Errorf("hsetnx %s.%s: %w", ns, coll, err)
	}
	if !set {
		return domain.ErrDocumentExists
	}
	return nil
}

// FindOne returns the first document matching filter in id-key order.
// An _id-only filter is served by a single HGET.
func (r *Repo) FindOne(ctx context.Context, ns, coll string, filter map[string]any) (domdoc.Document, bool, error) {
	key := r.docsKey(ns, coll)

	if raw, ok := filter[domdoc.KeyID]; ok && len(filter) == 1 {
		id, err := domdoc.DecodeID(raw)
		if err != nil {
			return domdoc.Document{}, false, err
		}
		data, err := r.store.HGet(ctx, key, domdoc.IDKey(id))
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				return domdoc.Document{}, false, nil
			}
			return domdoc.Document{}, false, fmt.Errorf("hget %s.%s: %w", ns, coll, err)
		}
		doc, err := decodeDocument(data)
		if err != nil {
			return domdoc.Document{}, false, err
		}
		return doc, true, nil
	}

	var found domdoc.Document
	hit := false
	err := r.each(ctx, ns, coll, func(doc domdoc.Document) (bool, error) {
		ok, err := doc.Matches(filter)
		if err != nil || !ok {
			return true, err
		}
		found, hit = doc, true
		return false, nil
	})
	if err != nil {
		return domdoc.Document{}, false, err
	}
	return found, hit, nil
}

// Count counts matching documents, stopping once limit+1 is reached when limit > 0.
func (r *Repo) Count(ctx context.Context, ns, coll string, filter map[string]any, limit int) (int, error) {
	if len(filter) == 0 {
		n, err := r.store.HLen(ctx, r.docsKey(ns, coll))
		if err != nil {
			return 0, fmt.Errorf("hlen %s.%s: %w", ns, coll, err)
		}
		return int(n), nil
	}

	count := 0
	err := r.each(ctx, ns, coll, func(doc domdoc.Document) (bool, error) {
		ok, err := doc.Matches(filter)
		if err != nil {
			return false, err
		}
		if ok {
			count++
		}
		return limit <= 0 || count <= limit, nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteAll drops every document of a collection and returns how many were removed.
func (r *Repo) DeleteAll(ctx context.Context, ns, coll string) (int, error) {
	key := r.docsKey(ns, coll)
	n, err := r.store.HLen(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("hlen %s.%s: %w", ns, coll, err)
	}
	if err := r.store.Del(ctx, key); err != nil {
		return 0, fmt.Errorf("del %s.%s: %w", ns, coll, err)
	}
	return int(n), nil
}

// each visits documents in id-key order until fn returns false.
func (r *Repo) each(ctx context.Context, ns, coll string, fn func(domdoc.Document) (bool, error)) error {
	m, err := r.store.HGetAll(ctx, r.docsKey(ns, coll))
	if err != nil {
		return fmt.Errorf("hgetall %s.%s: %w", ns, coll, err)
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		doc, err := decodeDocument(m[k])
		if err != nil {
			return fmt.Errorf("document %s: %w", k, err)
		}
		more, err := fn(doc)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return nil
}

// Key pattern: {prefix}{namespace}:{collection}:docs

func (r *Repo) docsKey(ns, coll string) string {
	return fmt.Sprintf("%s%s:%s:docs", r.prefix, ns, coll)
}
