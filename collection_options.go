package dataapi

import (
	"maps"

	"github.com/kailas-cloud/dataapi/internal/domain/collection/vector"
)

// CollectionOption configures collection creation.
type CollectionOption interface {
	applyCollection(*collectionConfig)
}

// collectionOptionFunc adapts a function to the CollectionOption interface.
type collectionOptionFunc func(*collectionConfig)

func (f collectionOptionFunc) applyCollection(c *collectionConfig) { f(c) }

type collectionConfig struct {
	namespace string

	dimension    int
	dimensionSet bool
	metric       string
	service      *vector.Service

	allow []string
	deny  []string

	defaultID string
	extra     map[string]any
}

// WithDimension sets the vector dimension.
func WithDimension(dim int) CollectionOption {
	return collectionOptionFunc(func(c *collectionConfig) {
		c.dimension = dim
		c.dimensionSet = true
	})
}

// WithMetric sets the similarity metric. Input is case-insensitive.
func WithMetric(m Metric) CollectionOption {
	return collectionOptionFunc(func(c *collectionConfig) {
		c.metric = string(m)
	})
}

// WithService enables server-side vectorization with the given provider model.
func WithService(provider, modelName string) CollectionOption {
	return WithVectorService(VectorService{Provider: provider, ModelName: modelName})
}

// WithVectorService is WithService with authentication and parameters.
func WithVectorService(s VectorService) CollectionOption {
	return collectionOptionFunc(func(c *collectionConfig) {
		svc := s
		svc.Authentication = maps.Clone(s.Authentication)
		svc.Parameters = maps.Clone(s.Parameters)
		c.service = &svc
	})
}

// WithIndexingAllow indexes only the given fields. Mutually exclusive with WithIndexingDeny.
func WithIndexingAllow(fields ...string) CollectionOption {
	return collectionOptionFunc(func(c *collectionConfig) {
		c.allow = append([]string{}, fields...)
	})
}

// WithIndexingDeny indexes every field except the given ones.
func WithIndexingDeny(fields ...string) CollectionOption {
	return collectionOptionFunc(func(c *collectionConfig) {
		c.deny = append([]string{}, fields...)
	})
}

// WithDefaultIDType sets the _id type generated for documents inserted without one.
// Input is case-insensitive.
func WithDefaultIDType(t IDType) CollectionOption {
	return collectionOptionFunc(func(c *collectionConfig) {
		c.defaultID = string(t)
	})
}

// WithExtraOption sends an option key this client does not model.
func WithExtraOption(key string, value any) CollectionOption {
	return collectionOptionFunc(func(c *collectionConfig) {
		if c.extra == nil {
			c.extra = make(map[string]any)
		}
		c.extra[key] = value
	})
}

// CallOption adjusts a single database-level call.
type CallOption interface {
	applyCall(*callConfig)
}

type callConfig struct {
	namespace  string
	collection string
}

// NamespaceOption overrides the bound namespace for one call.
// It is accepted both as a CallOption and as a CollectionOption.
type NamespaceOption string

func (o NamespaceOption) applyCall(c *callConfig) { c.namespace = string(o) }

func (o NamespaceOption) applyCollection(c *collectionConfig) { c.namespace = string(o) }

// InNamespace targets ns for this call only; the handle is not changed.
func InNamespace(ns string) NamespaceOption { return NamespaceOption(ns) }

// collectionCallOption targets a collection for Database.Command.
type collectionCallOption string

func (o collectionCallOption) applyCall(c *callConfig) { c.collection = string(o) }

// OnCollection addresses a raw command to a collection instead of the namespace.
func OnCollection(name string) CallOption { return collectionCallOption(name) }

func newCallConfig(opts []CallOption) callConfig {
	var cfg callConfig
	for _, o := range opts {
		o.applyCall(&cfg)
	}
	return cfg
}
