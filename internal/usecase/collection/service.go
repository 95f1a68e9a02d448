package collection

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/dataapi/internal/domain"
	domcol "github.com/kailas-cloud/dataapi/internal/domain/collection"
	"github.com/kailas-cloud/dataapi/internal/domain/collection/vector"
)

// Service handles collection lifecycle commands within namespaces.
type Service struct {
	repo       Repository
	docs       DocumentPurger
	namespaces map[string]bool
}

// New creates a collection service. An empty namespaces list accepts any namespace.
func New(repo Repository, docs DocumentPurger, namespaces []string) *Service {
	s := &Service{repo: repo, docs: docs}
	if len(namespaces) > 0 {
		s.namespaces = make(map[string]bool, len(namespaces))
		for _, ns := range namespaces {
			s.namespaces[ns] = true
		}
	}
	return s
}

// CheckNamespace returns domain.ErrKeyspaceNotFound for namespaces outside the configured set.
func (s *Service) CheckNamespace(ns string) error {
	if ns == "" {
		return domain.ErrNamespaceRequired
	}
	if s.namespaces != nil && !s.namespaces[ns] {
		return fmt.Errorf("namespace %q: %w", ns, domain.ErrKeyspaceNotFound)
	}
	return nil
}

// Create registers a collection. Re-creating with equal options returns the existing
// descriptor; different options fail with domain.ErrAlreadyExists.
func (s *Service) Create(ctx context.Context, ns, name string, opts domcol.Options) (domcol.Descriptor, error) {
	if err := s.CheckNamespace(ns); err != nil {
		return domcol.Descriptor{}, err
	}
	if err := domcol.ValidateName(name); err != nil {
		return domcol.Descriptor{}, fmt.Errorf("create collection: %w: %w", domain.ErrInvalidCommand, err)
	}

	desc := domcol.Descriptor{Name: name, Options: withImpliedDimension(opts)}
	err := s.repo.Create(ctx, ns, desc)
	if err == nil {
		return desc, nil
	}
	if !errors.Is(err, domain.ErrAlreadyExists) {
		return domcol.Descriptor{}, fmt.Errorf("create collection: %w", err)
	}

	existing, getErr := s.repo.Get(ctx, ns, name)
	if getErr != nil {
		return domcol.Descriptor{}, fmt.Errorf("create collection: %w", getErr)
	}
	if !existing.Options.Equal(opts) {
		return domcol.Descriptor{}, fmt.Errorf("create collection %s.%s: %w", ns, name, domain.ErrAlreadyExists)
	}
	return existing, nil
}

// Get retrieves a collection by name.
func (s *Service) Get(ctx context.Context, ns, name string) (domcol.Descriptor, error) {
	if err := s.CheckNamespace(ns); err != nil {
		return domcol.Descriptor{}, err
	}
	desc, err := s.repo.Get(ctx, ns, name)
	if err != nil {
		return domcol.Descriptor{}, fmt.Errorf("get collection %s.%s: %w", ns, name, err)
	}
	return desc, nil
}

// List returns all collections of a namespace.
func (s *Service) List(ctx context.Context, ns string) ([]domcol.Descriptor, error) {
	if err := s.CheckNamespace(ns); err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx, ns)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return list, nil
}

// Delete removes a collection and its documents. Deleting a missing collection succeeds.
//
// Documents are purged again once the registry entry is gone: an insert that
// resolved the collection before the first purge may still land in between.
func (s *Service) Delete(ctx context.Context, ns, name string) error {
	if err := s.CheckNamespace(ns); err != nil {
		return err
	}
	if _, err := s.docs.DeleteAll(ctx, ns, name); err != nil {
		return fmt.Errorf("delete collection %s.%s: purge documents: %w", ns, name, err)
	}
	if err := s.repo.Delete(ctx, ns, name); err != nil {
		return fmt.Errorf("delete collection %s.%s: %w", ns, name, err)
	}
	if _, err := s.docs.DeleteAll(ctx, ns, name); err != nil {
		return fmt.Errorf("delete collection %s.%s: purge late documents: %w", ns, name, err)
	}
	return nil
}

// withImpliedDimension fills the dimension a fixed-width service model dictates,
// the way the service reports it back.
func withImpliedDimension(opts domcol.Options) domcol.Options {
	v := opts.Vector()
	if v.Dimension() > 0 || v.EffectiveDimension() == 0 {
		return opts
	}
	filled := vector.Reconstruct(v.EffectiveDimension(), v.Metric(), v.Service(), v.Extra())
	return domcol.Reconstruct(filled, opts.Indexing(), opts.DefaultIDType(), opts.Extra())
}
