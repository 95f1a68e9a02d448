package collection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"

	"github.com/kailas-cloud/dataapi/internal/domain"
	"github.com/kailas-cloud/dataapi/internal/domain/collection/indexing"
	"github.com/kailas-cloud/dataapi/internal/domain/collection/vector"
)

// Wire keys of the options object.
const (
	keyVector    = "vector"
	keyIndexing  = "indexing"
	keyDefaultID = "defaultId"

	keyDimension = "dimension"
	keyMetric    = "metric"
	keyService   = "service"

	keyProvider       = "provider"
	keyModelName      = "modelName"
	keyAuthentication = "authentication"
	keyParameters     = "parameters"

	keyAllow = "allow"
	keyDeny  = "deny"
	keyType  = "type"
)

// FromMap parses the wire representation of collection options.
// Unrecognized keys at the top level, inside "vector" and inside
// "vector.service" are kept as extras.
func FromMap(raw map[string]any) (Options, error) {
	var (
		v      vector.Vector
		idx    indexing.Indexing
		idType = IDTypeDefault
		extra  map[string]any
		err    error
	)

	for k, val := range raw {
		switch k {
		case keyVector:
			if v, err = vectorFromWire(val); err != nil {
				return Options{}, err
			}
		case keyIndexing:
			if idx, err = indexingFromWire(val); err != nil {
				return Options{}, err
			}
		case keyDefaultID:
			if idType, err = idTypeFromWire(val); err != nil {
				return Options{}, err
			}
		default:
			if extra == nil {
				extra = make(map[string]any)
			}
			extra[k] = val
		}
	}

	opts, err := New(v, idx, idType)
	if err != nil {
		return Options{}, err
	}
	opts.extra = extra
	return opts, nil
}

// ToMap renders the wire representation. IDTypeDefault is omitted.
func (o Options) ToMap() map[string]any {
	out := make(map[string]any, len(o.extra)+3)
	maps.Copy(out, o.extra)

	if !o.vector.IsZero() {
		out[keyVector] = vectorToWire(o.vector)
	}
	if !o.indexing.IsZero() {
		out[keyIndexing] = map[string]any{string(o.indexing.Mode()): o.indexing.Fields()}
	}
	if t := o.DefaultIDType(); t != IDTypeDefault {
		out[keyDefaultID] = map[string]any{keyType: string(t)}
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (o Options) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.ToMap())
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Options) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode options: %w", err)
	}
	parsed, err := FromMap(raw)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

func vectorFromWire(val any) (vector.Vector, error) {
	if val == nil {
		return vector.Vector{}, nil
	}
	m, ok := val.(map[string]any)
	if !ok {
		return vector.Vector{}, fmt.Errorf("vector must be an object, got %T", val)
	}

	var (
		dim     int
		metric  vector.Metric
		service *vector.Service
		extra   map[string]any
	)
	for k, fv := range m {
		switch k {
		case keyDimension:
			if fv == nil {
				continue
			}
			d, ok := domain.AsInt(fv)
			if !ok || d <= 0 {
				return vector.Vector{}, fmt.Errorf("vector dimension must be a positive integer, got %v", fv)
			}
			dim = d
		case keyMetric:
			if fv == nil {
				continue
			}
			s, ok := fv.(string)
			if !ok {
				return vector.Vector{}, fmt.Errorf("vector metric must be a string, got %T", fv)
			}
			parsed, err := vector.ParseMetric(s)
			if err != nil {
				return vector.Vector{}, err
			}
			metric = parsed
		case keyService:
			if fv == nil {
				continue
			}
			svc, err := serviceFromWire(fv)
			if err != nil {
				return vector.Vector{}, err
			}
			service = &svc
		default:
			if extra == nil {
				extra = make(map[string]any)
			}
			extra[k] = fv
		}
	}

	validated, err := vector.New(dim, metric, service)
	if err != nil {
		return vector.Vector{}, err
	}
	return vector.Reconstruct(validated.Dimension(), validated.Metric(), validated.Service(), extra), nil
}

func serviceFromWire(val any) (vector.Service, error) {
	m, ok := val.(map[string]any)
	if !ok {
		return vector.Service{}, fmt.Errorf("vector service must be an object, got %T", val)
	}
	svc := vector.Service{}
	for k, fv := range m {
		typed := false
		switch k {
		case keyProvider:
			svc.Provider, typed = fv.(string)
		case keyModelName:
			svc.ModelName, typed = fv.(string)
		case keyAuthentication:
			svc.Authentication, typed = fv.(map[string]any)
		case keyParameters:
			svc.Parameters, typed = fv.(map[string]any)
		}
		if typed {
			continue
		}
		if svc.Extra == nil {
			svc.Extra = make(map[string]any)
		}
		svc.Extra[k] = fv
	}
	return svc, nil
}

func vectorToWire(v vector.Vector) map[string]any {
	out := make(map[string]any, len(v.Extra())+3)
	maps.Copy(out, v.Extra())
	if v.Dimension() > 0 {
		out[keyDimension] = v.Dimension()
	}
	if v.Metric() != "" {
		out[keyMetric] = string(v.Metric())
	}
	if s := v.Service(); s != nil {
		svc := make(map[string]any, len(s.Extra)+4)
		maps.Copy(svc, s.Extra)
		if s.Provider != "" {
			svc[keyProvider] = s.Provider
		}
		if s.ModelName != "" {
			svc[keyModelName] = s.ModelName
		}
		if len(s.Authentication) > 0 {
			svc[keyAuthentication] = s.Authentication
		}
		if len(s.Parameters) > 0 {
			svc[keyParameters] = s.Parameters
		}
		out[keyService] = svc
	}
	return out
}

func indexingFromWire(val any) (indexing.Indexing, error) {
	if val == nil {
		return indexing.Indexing{}, nil
	}
	m, ok := val.(map[string]any)
	if !ok {
		return indexing.Indexing{}, fmt.Errorf("indexing must be an object, got %T", val)
	}
	var allow, deny []string
	for k, fv := range m {
		list, err := asStrings(fv)
		if err != nil {
			return indexing.Indexing{}, fmt.Errorf("indexing %s: %w", k, err)
		}
		switch k {
		case keyAllow:
			allow = list
		case keyDeny:
			deny = list
		default:
			return indexing.Indexing{}, fmt.Errorf("unsupported indexing key %q", k)
		}
	}
	return indexing.New(allow, deny)
}

func idTypeFromWire(val any) (IDType, error) {
	if val == nil {
		return IDTypeDefault, nil
	}
	m, ok := val.(map[string]any)
	if !ok {
		return "", fmt.Errorf("defaultId must be an object, got %T", val)
	}
	s, _ := m[keyType].(string)
	return ParseIDType(s)
}

func asStrings(v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		if list == nil {
			return []string{}, nil
		}
		return list, nil
	case []any:
		out := make([]string, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d must be a string, got %T", i, item)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a list of strings, got %T", v)
	}
}
