package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// Reserved top-level document keys.
const (
	KeyID        = "_id"
	KeyVector    = "$vector"
	KeyVectorize = "$vectorize"
)

// Document is a stored document (immutable value object).
// The _id, $vector and $vectorize keys are lifted out of fields.
type Document struct {
	id        any
	fields    map[string]any
	vector    []float32
	vectorize string
}

// FromMap validates a wire document. A missing _id is allowed; the server assigns one.
func FromMap(raw map[string]any) (Document, error) {
	var d Document
	d.fields = make(map[string]any, len(raw))

	for k, v := range raw {
		switch k {
		case KeyID:
			id, err := DecodeID(v)
			if err != nil {
				return Document{}, err
			}
			d.id = id
		case KeyVector:
			vec, err := asVector(v)
			if err != nil {
				return Document{}, err
			}
			d.vector = vec
		case KeyVectorize:
			s, ok := v.(string)
			if !ok {
				return Document{}, fmt.Errorf("%s must be a string, got %T", KeyVectorize, v)
			}
			d.vectorize = s
		default:
			if strings.HasPrefix(k, "$") {
				return Document{}, fmt.Errorf("field name %q must not start with '$'", k)
			}
			d.fields[k] = v
		}
	}

	return d, nil
}

// ID returns the decoded _id, or nil when unset.
func (d Document) ID() any { return d.id }

// HasID reports whether the document carries an _id.
func (d Document) HasID() bool { return d.id != nil }

// Key returns the storage key of the _id.
func (d Document) Key() string { return IDKey(d.id) }

// Fields returns a copy of the regular fields.
func (d Document) Fields() map[string]any { return maps.Clone(d.fields) }

// Vector returns the $vector value, or nil.
func (d Document) Vector() []float32 { return d.vector }

// Vectorize returns the $vectorize text, or "".
func (d Document) Vectorize() string { return d.vectorize }

// WithID returns a copy with the given _id.
func (d Document) WithID(id any) Document {
	d.id = id
	return d
}

// WithVector returns a copy with $vector set.
func (d Document) WithVector(v []float32) Document {
	d.vector = v
	return d
}

// ToMap renders the wire form. Typed ids are encoded as extended JSON.
func (d Document) ToMap() map[string]any {
	out := make(map[string]any, len(d.fields)+3)
	maps.Copy(out, d.fields)
	if d.id != nil {
		out[KeyID] = EncodeID(d.id)
	}
	if d.vector != nil {
		out[KeyVector] = d.vector
	}
	if d.vectorize != "" {
		out[KeyVectorize] = d.vectorize
	}
	return out
}

// Matches evaluates an equality filter over _id and top-level fields.
// An empty filter matches everything.
func (d Document) Matches(filter map[string]any) (bool, error) {
	for k, want := range filter {
		if k == KeyID {
			id, err := DecodeID(want)
			if err != nil {
				return false, err
			}
			if d.id == nil || IDKey(id) != IDKey(d.id) {
				return false, nil
			}
			continue
		}
		if strings.HasPrefix(k, "$") {
			return false, fmt.Errorf("filter operator %q is not supported", k)
		}
		got, ok := d.fields[k]
		if !ok || !valueEqual(got, want) {
			return false, nil
		}
	}
	return true, nil
}

// valueEqual compares by JSON encoding so that numeric representations agree.
func valueEqual(a, b any) bool {
	ab, errA := json.Marshal(a)
	bb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

func asVector(v any) ([]float32, error) {
	switch vec := v.(type) {
	case []float32:
		return vec, nil
	case []float64:
		out := make([]float32, len(vec))
		for i, f := range vec {
			out[i] = float32(f)
		}
		return out, nil
	case []any:
		out := make([]float32, len(vec))
		for i, item := range vec {
			switch n := item.(type) {
			case float64:
				out[i] = float32(n)
			case json.Number:
				f, err := n.Float64()
				if err != nil {
					return nil, fmt.Errorf("%s[%d]: %w", KeyVector, i, err)
				}
				out[i] = float32(f)
			case int:
				out[i] = float32(n)
			default:
				return nil, fmt.Errorf("%s[%d] must be a number, got %T", KeyVector, i, item)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be an array of numbers, got %T", KeyVector, v)
	}
}
