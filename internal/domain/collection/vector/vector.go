package vector

import (
	"fmt"
	"strings"
)

// Metric is the similarity function of a vector-enabled collection.
type Metric string

// Metric constants, in their canonical wire form.
const (
	Cosine     Metric = "cosine"
	DotProduct Metric = "dot_product"
	Euclidean  Metric = "euclidean"
)

// IsValid checks if the metric is supported.
func (m Metric) IsValid() bool {
	return m == Cosine || m == DotProduct || m == Euclidean
}

// ParseMetric normalizes a metric name. Input is case-insensitive.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("invalid metric %q (want cosine, dot_product or euclidean)", s)
	}
	return m, nil
}

// Vector holds the vector settings of a collection. The zero value means "not set".
type Vector struct {
	dimension int
	metric    Metric
	service   *Service
	extra     map[string]any
}

// New validates and creates vector settings.
// dimension 0 means unset. metric "" means unset (server default).
func New(dimension int, metric Metric, service *Service) (Vector, error) {
	if dimension < 0 {
		return Vector{}, fmt.Errorf("vector dimension must be positive, got %d", dimension)
	}
	if metric != "" && !metric.IsValid() {
		return Vector{}, fmt.Errorf("invalid metric %q", metric)
	}
	if service != nil {
		if err := service.validate(); err != nil {
			return Vector{}, err
		}
		if err := checkWidth(*service, dimension); err != nil {
			return Vector{}, err
		}
	}
	return Vector{dimension: dimension, metric: metric, service: service}, nil
}

// Reconstruct creates Vector settings without validation (wire hydration).
func Reconstruct(dimension int, metric Metric, service *Service, extra map[string]any) Vector {
	return Vector{dimension: dimension, metric: metric, service: service, extra: extra}
}

// Dimension returns the vector dimension (0 if unset).
func (v Vector) Dimension() int { return v.dimension }

// Metric returns the similarity metric ("" if unset).
func (v Vector) Metric() Metric { return v.metric }

// Service returns the vectorize service, or nil.
func (v Vector) Service() *Service { return v.service }

// Extra returns vector keys the model does not recognize.
func (v Vector) Extra() map[string]any { return v.extra }

// IsZero reports whether no vector setting is present.
func (v Vector) IsZero() bool {
	return v.dimension == 0 && v.metric == "" && v.service == nil && len(v.extra) == 0
}

// EffectiveDimension returns the explicit dimension, or the service width when
// the service dictates one.
func (v Vector) EffectiveDimension() int {
	if v.dimension > 0 {
		return v.dimension
	}
	if v.service != nil {
		if w, ok := LookupWidth(v.service.Provider, v.service.ModelName); ok && w.Fixed {
			return w.Dimension
		}
	}
	return 0
}
