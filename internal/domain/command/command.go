// Package command models one Data API command: a single JSON object keyed by
// the operation name, addressed to a namespace or to a collection inside it.
package command

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/kailas-cloud/dataapi/internal/domain"
)

// Well-known operation names. Others are passed through as-is.
const (
	OpCreateCollection = "createCollection"
	OpFindCollections  = "findCollections"
	OpDeleteCollection = "deleteCollection"
	OpInsertOne        = "insertOne"
	OpFindOne          = "findOne"
	OpCountDocuments   = "countDocuments"
	OpDeleteMany       = "deleteMany"
)

// Target addresses a command. An empty Collection targets the namespace.
type Target struct {
	Namespace  string
	Collection string
}

// IsCollection reports whether the target is collection-level.
func (t Target) IsCollection() bool { return t.Collection != "" }

// Path renders "namespace" or "namespace/collection".
func (t Target) Path() string {
	if t.Collection == "" {
		return t.Namespace
	}
	return t.Namespace + "/" + t.Collection
}

// Envelope is an immutable command ready for transport.
type Envelope struct {
	op     string
	body   map[string]any
	target Target
}

// Build merges parts into one body, in order; later keys overwrite earlier ones.
// Nil parts are skipped. Build never fails: op-specific validation is the server's job.
func Build(op string, target Target, parts ...map[string]any) Envelope {
	body := make(map[string]any)
	for _, p := range parts {
		maps.Copy(body, p)
	}
	return Envelope{op: op, body: body, target: target}
}

// Parse splits a raw command document such as {"countDocuments": {}} into an envelope.
// The document must hold exactly one key whose value is an object (or null).
func Parse(doc map[string]any, target Target) (Envelope, error) {
	if len(doc) != 1 {
		return Envelope{}, fmt.Errorf("%w: want exactly one operation key, got %d", domain.ErrInvalidCommand, len(doc))
	}
	var (
		op  string
		raw any
	)
	for k, v := range doc {
		op, raw = k, v
	}
	if op == "" {
		return Envelope{}, fmt.Errorf("%w: empty operation name", domain.ErrInvalidCommand)
	}
	switch body := raw.(type) {
	case nil:
		return Build(op, target), nil
	case map[string]any:
		return Build(op, target, body), nil
	default:
		return Envelope{}, fmt.Errorf("%w: %s body must be an object, got %T", domain.ErrInvalidCommand, op, raw)
	}
}

// Op returns the operation name.
func (e Envelope) Op() string { return e.op }

// Body returns a shallow copy of the command body.
func (e Envelope) Body() map[string]any { return maps.Clone(e.body) }

// Target returns the command address.
func (e Envelope) Target() Target { return e.target }

// Path is a shorthand for Target().Path().
func (e Envelope) Path() string { return e.target.Path() }

// Document returns {op: body}.
func (e Envelope) Document() map[string]any {
	return map[string]any{e.op: e.Body()}
}

// MarshalJSON encodes the envelope as {op: body}.
func (e Envelope) MarshalJSON() ([]byte, error) {
	body := e.body
	if body == nil {
		body = map[string]any{}
	}
	return json.Marshal(map[string]any{e.op: body})
}

// ResolveNamespace applies override precedence: per-call, then bound.
func ResolveNamespace(perCall, bound string) (string, error) {
	if perCall != "" {
		return perCall, nil
	}
	if bound != "" {
		return bound, nil
	}
	return "", domain.ErrNamespaceRequired
}
