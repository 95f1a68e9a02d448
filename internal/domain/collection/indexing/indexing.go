package indexing

import (
	"fmt"
	"slices"
)

// Mode selects how the field list is interpreted.
type Mode string

// Mode constants.
const (
	// None indexes every field (server default).
	None  Mode = ""
	Allow Mode = "allow"
	Deny  Mode = "deny"
)

// Indexing is an immutable allow-or-deny field list.
type Indexing struct {
	mode   Mode
	fields []string
}

// New validates and creates an indexing policy from allow and deny lists.
// A nil list is "not given"; an empty non-nil list is a valid, empty policy.
func New(allow, deny []string) (Indexing, error) {
	if allow != nil && deny != nil {
		return Indexing{}, fmt.Errorf("indexing allow and deny are mutually exclusive")
	}
	switch {
	case allow != nil:
		return Indexing{mode: Allow, fields: dedupe(allow)}, nil
	case deny != nil:
		return Indexing{mode: Deny, fields: dedupe(deny)}, nil
	default:
		return Indexing{}, nil
	}
}

// Mode returns the policy mode.
func (i Indexing) Mode() Mode { return i.mode }

// Fields returns a copy of the field list in insertion order.
func (i Indexing) Fields() []string { return slices.Clone(i.fields) }

// IsZero reports whether no policy was given.
func (i Indexing) IsZero() bool { return i.mode == None }

// Equal compares two policies, treating field lists as sets.
func (i Indexing) Equal(o Indexing) bool {
	if i.mode != o.mode || len(i.fields) != len(o.fields) {
		return false
	}
	a := slices.Clone(i.fields)
	b := slices.Clone(o.fields)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

// Indexed reports whether a top-level field is indexed under this policy.
func (i Indexing) Indexed(field string) bool {
	switch i.mode {
	case Allow:
		return slices.Contains(i.fields, field) || slices.Contains(i.fields, "*")
	case Deny:
		return !slices.Contains(i.fields, field) && !slices.Contains(i.fields, "*")
	default:
		return true
	}
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, f := range in {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
