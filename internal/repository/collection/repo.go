package collection

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/dataapi/internal/db"
	"github.com/kailas-cloud/dataapi/internal/domain"
	domcol "github.com/kailas-cloud/dataapi/internal/domain/collection"
)

// store is the consumer interface for the collection registry (ISP).
type store interface {
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
}

// Repo implements usecase/collection.Repository.
// Each namespace keeps one hash: field = collection name, value = options JSON.
type Repo struct {
	store  store
	prefix string
}

// New creates a collection repository. prefix is prepended to every key.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Create registers a collection. Returns domain.ErrAlreadyExists if the name is taken.
func (r *Repo) Create(ctx context.Context, ns string, desc domcol.Descriptor) error {
	value, err := optionsToJSON(desc.Options)
	if err != nil {
		return err
	}
	set, err := r.store.HSetNX(ctx, r.registryKey(ns), desc.Name, value)
	if err != nil {
		return fmt.Errorf("hsetnx collection %s.%s: %w", ns, desc.Name, err)
	}
	if !set {
		return domain.ErrAlreadyExists
	}
	return nil
}

// Get retrieves a collection by name.
func (r *Repo) Get(ctx context.Context, ns, name string) (domcol.Descriptor, error) {
	raw, err := r.store.HGet(ctx, r.registryKey(ns), name)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domcol.Descriptor{}, domain.ErrCollectionNotFound
		}
		return domcol.Descriptor{}, fmt.Errorf("hget collection %s.%s: %w", ns, name, err)
	}
	opts, err := optionsFromJSON(raw)
	if err != nil {
		return domcol.Descriptor{}, fmt.Errorf("parse collection %s.%s: %w", ns, name, err)
	}
	return domcol.Descriptor{Name: name, Options: opts}, nil
}

// List returns all collections of a namespace sorted by name.
func (r *Repo) List(ctx context.Context, ns string) ([]domcol.Descriptor, error) {
	m, err := r.store.HGetAll(ctx, r.registryKey(ns))
	if err != nil {
		return nil, fmt.Errorf("hgetall collections %s: %w", ns, err)
	}

	out := make([]domcol.Descriptor, 0, len(m))
	for name, raw := range m {
		opts, err := optionsFromJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("parse collection %s.%s: %w", ns, name, err)
		}
		out = append(out, domcol.Descriptor{Name: name, Options: opts})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete unregisters a collection. Deleting a missing name is not an error.
func (r *Repo) Delete(ctx context.Context, ns, name string) error {
	if err := r.store.HDel(ctx, r.registryKey(ns), name); err != nil {
		return fmt.Errorf("hdel collection %s.%s: %w", ns, name, err)
	}
	return nil
}

// Key pattern: {prefix}{namespace}:collections

func (r *Repo) registryKey(ns string) string {
	return fmt.Sprintf("%s%s:collections", r.prefix, ns)
}
