package collection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"regexp"

	"github.com/kailas-cloud/dataapi/internal/domain/collection/indexing"
	"github.com/kailas-cloud/dataapi/internal/domain/collection/vector"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// MaxNameLength is the longest collection name the service accepts.
const MaxNameLength = 48

// ValidateName checks a collection name: ^[a-zA-Z0-9_]+$, 1-48 chars.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("collection name is required")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("collection name too long (max %d)", MaxNameLength)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("collection name must be alphanumeric with underscores")
	}
	return nil
}

// Options is the immutable creation-time configuration of a collection.
type Options struct {
	vector    vector.Vector
	indexing  indexing.Indexing
	defaultID IDType
	extra     map[string]any
}

// New validates and creates collection options.
// idType "" means IDTypeDefault.
func New(v vector.Vector, idx indexing.Indexing, idType IDType) (Options, error) {
	if idType == "" {
		idType = IDTypeDefault
	}
	if !idType.IsValid() {
		return Options{}, fmt.Errorf("invalid default id type %q", idType)
	}
	return Options{vector: v, indexing: idx, defaultID: idType}, nil
}

// Reconstruct creates Options without validation.
func Reconstruct(v vector.Vector, idx indexing.Indexing, idType IDType, extra map[string]any) Options {
	if idType == "" {
		idType = IDTypeDefault
	}
	return Options{vector: v, indexing: idx, defaultID: idType, extra: extra}
}

// Vector returns the vector settings (zero if the collection is not vector-enabled).
func (o Options) Vector() vector.Vector { return o.vector }

// Indexing returns the indexing policy.
func (o Options) Indexing() indexing.Indexing { return o.indexing }

// DefaultIDType returns the id type, IDTypeDefault when none was given.
func (o Options) DefaultIDType() IDType {
	if o.defaultID == "" {
		return IDTypeDefault
	}
	return o.defaultID
}

// Extra returns a copy of the option keys the model does not recognize.
func (o Options) Extra() map[string]any { return maps.Clone(o.extra) }

// IsVector reports whether the collection stores vectors.
func (o Options) IsVector() bool { return !o.vector.IsZero() }

// Equal compares normalized options structurally.
// A vector without a metric compares equal to the same vector with metric cosine,
// and a vector without a dimension takes the fixed width of its service model.
func (o Options) Equal(p Options) bool {
	if o.DefaultIDType() != p.DefaultIDType() {
		return false
	}
	if !o.indexing.Equal(p.indexing) {
		return false
	}
	if !vectorEqual(o.vector, p.vector) {
		return false
	}
	return jsonEqual(o.extra, p.extra)
}

func vectorEqual(a, b vector.Vector) bool {
	if a.IsZero() || b.IsZero() {
		return a.IsZero() && b.IsZero()
	}
	if a.EffectiveDimension() != b.EffectiveDimension() {
		return false
	}
	if effectiveMetric(a) != effectiveMetric(b) {
		return false
	}
	if !serviceEqual(a.Service(), b.Service()) {
		return false
	}
	return jsonEqual(a.Extra(), b.Extra())
}

func effectiveMetric(v vector.Vector) vector.Metric {
	if v.Metric() == "" {
		return vector.Cosine
	}
	return v.Metric()
}

func serviceEqual(a, b *vector.Service) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Provider == b.Provider &&
		a.ModelName == b.ModelName &&
		jsonEqual(a.Authentication, b.Authentication) &&
		jsonEqual(a.Parameters, b.Parameters) &&
		jsonEqual(a.Extra, b.Extra)
}

// jsonEqual compares two maps by their JSON encoding. encoding/json sorts map
// keys, and 2, int64(2) and float64(2) all encode as "2".
func jsonEqual(a, b map[string]any) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == 0 && len(b) == 0
	}
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}
