package document

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/dataapi/internal/domain"
	domcol "github.com/kailas-cloud/dataapi/internal/domain/collection"
	domdoc "github.com/kailas-cloud/dataapi/internal/domain/document"
)

// DefaultMaxCount is the most documents countDocuments reports before setting moreData.
const DefaultMaxCount = 1000

// Service handles the document commands of the emulator.
type Service struct {
	repo     Repository
	colls    CollectionReader
	embedder Embedder
	maxCount int
}

// New creates a document service. embedder may be nil; $vectorize then fails.
func New(repo Repository, colls CollectionReader, embedder Embedder) *Service {
	return &Service{repo: repo, colls: colls, embedder: embedder, maxCount: DefaultMaxCount}
}

// WithMaxCount configures the countDocuments limit.
func (s *Service) WithMaxCount(n int) *Service {
	if n > 0 {
		s.maxCount = n
	}
	return s
}

// Insert stores one document and returns its _id, generating one from the
// collection's default id type when absent.
func (s *Service) Insert(ctx context.Context, ns, coll string, raw map[string]any) (any, error) {
	desc, err := s.colls.Get(ctx, ns, coll)
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}

	doc, err := domdoc.FromMap(raw)
	if err != nil {
		return nil, fmt.Errorf("insert: %w: %w", domain.ErrInvalidCommand, err)
	}

	if doc, err = s.resolveVector(ctx, desc.Options, doc); err != nil {
		return nil, err
	}

	if !doc.HasID() {
		id, err := domdoc.GenerateID(desc.Options.DefaultIDType())
		if err != nil {
			return nil, fmt.Errorf("generate id: %w", err)
		}
		doc = doc.WithID(id)
	}

	if err := s.repo.Insert(ctx, ns, coll, doc); err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}
	return doc.ID(), nil
}

// resolveVector enforces $vector/$vectorize rules and fills $vector from $vectorize.
func (s *Service) resolveVector(ctx context.Context, opts domcol.Options, doc domdoc.Document) (domdoc.Document, error) {
	hasVector := doc.Vector() != nil
	text := doc.Vectorize()
	if !hasVector && text == "" {
		return doc, nil
	}
	if hasVector && text != "" {
		return domdoc.Document{}, fmt.Errorf("insert: %w: %s and %s are mutually exclusive",
			domain.ErrInvalidCommand, domdoc.KeyVector, domdoc.KeyVectorize)
	}
	if !opts.IsVector() {
		return domdoc.Document{}, fmt.Errorf("insert: %w: collection is not vector-enabled", domain.ErrInvalidCommand)
	}

	v := opts.Vector()
	want := v.EffectiveDimension()

	if text != "" {
		svc := v.Service()
		if svc == nil || s.embedder == nil {
			return domdoc.Document{}, fmt.Errorf("insert: %w", domain.ErrVectorizeUnavailable)
		}
		res, err := s.embedder.Embed(ctx, domain.EmbeddingRequest{
			Provider:   svc.Provider,
			Model:      svc.ModelName,
			Dimensions: v.Dimension(),
			Text:       text,
		})
		if err != nil {
			return domdoc.Document{}, fmt.Errorf("vectorize: %w", err)
		}
		doc = doc.WithVector(res.Embedding)
	}

	if want > 0 && len(doc.Vector()) != want {
		return domdoc.Document{}, fmt.Errorf("insert: %w: %s has %d dimensions, collection expects %d",
			domain.ErrInvalidCommand, domdoc.KeyVector, len(doc.Vector()), want)
	}
	return doc, nil
}

// FindOne returns the first document matching an equality filter.
func (s *Service) FindOne(ctx context.Context, ns, coll string, filter map[string]any) (domdoc.Document, bool, error) {
	if _, err := s.colls.Get(ctx, ns, coll); err != nil {
		return domdoc.Document{}, false, fmt.Errorf("get collection: %w", err)
	}
	doc, ok, err := s.repo.FindOne(ctx, ns, coll, filter)
	if err != nil {
		return domdoc.Document{}, false, fmt.Errorf("find one: %w: %w", domain.ErrInvalidCommand, err)
	}
	return doc, ok, nil
}

// Count counts matching documents up to the configured limit.
// moreData is true when more documents match than the limit.
func (s *Service) Count(ctx context.Context, ns, coll string, filter map[string]any) (count int, moreData bool, err error) {
	if _, err := s.colls.Get(ctx, ns, coll); err != nil {
		return 0, false, fmt.Errorf("get collection: %w", err)
	}
	n, err := s.repo.Count(ctx, ns, coll, filter, s.maxCount)
	if err != nil {
		return 0, false, fmt.Errorf("count documents: %w: %w", domain.ErrInvalidCommand, err)
	}
	if n > s.maxCount {
		return s.maxCount, true, nil
	}
	return n, false, nil
}

// DeleteMany removes documents. Only the empty filter (delete all) is supported.
func (s *Service) DeleteMany(ctx context.Context, ns, coll string, filter map[string]any) (int, error) {
	if _, err := s.colls.Get(ctx, ns, coll); err != nil {
		return 0, fmt.Errorf("get collection: %w", err)
	}
	if len(filter) > 0 {
		return 0, fmt.Errorf("delete many: %w: only an empty filter is supported", domain.ErrInvalidCommand)
	}
	n, err := s.repo.DeleteAll(ctx, ns, coll)
	if err != nil {
		return 0, fmt.Errorf("delete many: %w", err)
	}
	return n, nil
}
