package command

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/kailas-cloud/dataapi/internal/domain"
)

func TestBuild_MergesLastWriteWins(t *testing.T) {
	env := Build(OpCreateCollection, Target{Namespace: "ks"},
		map[string]any{"name": "a", "options": map[string]any{}},
		nil,
		map[string]any{"name": "b"},
	)
	body := env.Body()
	if body["name"] != "b" {
		t.Errorf("name = %v, want b", body["name"])
	}
	if _, ok := body["options"]; !ok {
		t.Error("options key lost during merge")
	}
}

func TestBuild_DoesNotAliasParts(t *testing.T) {
	part := map[string]any{"name": "a"}
	env := Build(OpDeleteCollection, Target{Namespace: "ks"}, part)
	part["name"] = "mutated"
	if env.Body()["name"] != "a" {
		t.Error("envelope body must not alias caller maps")
	}

	body := env.Body()
	body["name"] = "changed"
	if env.Body()["name"] != "a" {
		t.Error("Body() must return a copy")
	}
}

func TestEnvelope_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope
		want string
	}{
		{"empty body", Build(OpFindCollections, Target{Namespace: "ks"}), `{"findCollections":{}}`},
		{"with body", Build(OpDeleteCollection, Target{Namespace: "ks"}, map[string]any{"name": "c1"}), `{"deleteCollection":{"name":"c1"}}`},
		{"zero envelope body", Envelope{op: "x"}, `{"x":{}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.env)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tc.want {
				t.Errorf("MarshalJSON = %s, want %s", data, tc.want)
			}
		})
	}
}

func TestTarget_Path(t *testing.T) {
	if got := (Target{Namespace: "ks"}).Path(); got != "ks" {
		t.Errorf("Path() = %q, want ks", got)
	}
	tg := Target{Namespace: "ks", Collection: "c1"}
	if got := tg.Path(); got != "ks/c1" {
		t.Errorf("Path() = %q, want ks/c1", got)
	}
	if !tg.IsCollection() {
		t.Error("IsCollection() = false, want true")
	}
}

func TestParse(t *testing.T) {
	env, err := Parse(map[string]any{"countDocuments": map[string]any{}}, Target{Namespace: "ks", Collection: "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Op() != OpCountDocuments {
		t.Errorf("Op() = %q, want countDocuments", env.Op())
	}
	if env.Path() != "ks/c" {
		t.Errorf("Path() = %q, want ks/c", env.Path())
	}

	nullBody, err := Parse(map[string]any{"findCollections": nil}, Target{Namespace: "ks"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nullBody.Body()) != 0 {
		t.Errorf("Body() = %v, want empty", nullBody.Body())
	}

	// Unknown operations pass through.
	if _, err := Parse(map[string]any{"frobnicate": map[string]any{"x": 1}}, Target{Namespace: "ks"}); err != nil {
		t.Errorf("unknown op should pass through, got %v", err)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
	}{
		{"empty", map[string]any{}},
		{"two keys", map[string]any{"a": map[string]any{}, "b": map[string]any{}}},
		{"scalar body", map[string]any{"countDocuments": 1}},
		{"list body", map[string]any{"countDocuments": []any{}}},
		{"empty op", map[string]any{"": map[string]any{}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.doc, Target{Namespace: "ks"})
			if !errors.Is(err, domain.ErrInvalidCommand) {
				t.Errorf("error = %v, want ErrInvalidCommand", err)
			}
		})
	}
}

func TestResolveNamespace(t *testing.T) {
	tests := []struct {
		perCall, bound, want string
	}{
		{"call", "bound", "call"},
		{"", "bound", "bound"},
		{"call", "", "call"},
	}
	for _, tc := range tests {
		got, err := ResolveNamespace(tc.perCall, tc.bound)
		if err != nil {
			t.Errorf("ResolveNamespace(%q, %q) unexpected error: %v", tc.perCall, tc.bound, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ResolveNamespace(%q, %q) = %q, want %q", tc.perCall, tc.bound, got, tc.want)
		}
	}

	if _, err := ResolveNamespace("", ""); !errors.Is(err, domain.ErrNamespaceRequired) {
		t.Errorf("error = %v, want ErrNamespaceRequired", err)
	}
}
