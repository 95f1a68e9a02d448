package document

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/dataapi/internal/domain/collection"
)

func TestFromMap_LiftsReservedKeys(t *testing.T) {
	doc, err := FromMap(map[string]any{
		"_id":     "doc-1",
		"$vector": []any{0.5, json.Number("1"), 2},
		"name":    "alpha",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID() != "doc-1" {
		t.Errorf("ID() = %v, want doc-1", doc.ID())
	}
	if got := doc.Vector(); len(got) != 3 || got[1] != 1 {
		t.Errorf("Vector() = %v", got)
	}
	fields := doc.Fields()
	if _, ok := fields["_id"]; ok {
		t.Error("_id must not be kept in fields")
	}
	if fields["name"] != "alpha" {
		t.Errorf("Fields() = %v", fields)
	}
}

func TestFromMap_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"null id", map[string]any{"_id": nil}},
		{"list id", map[string]any{"_id": []any{1}}},
		{"bad uuid", map[string]any{"_id": map[string]any{"$uuid": "nope"}}},
		{"bad objectId", map[string]any{"_id": map[string]any{"$objectId": "abc"}}},
		{"unknown id object", map[string]any{"_id": map[string]any{"$date": 1}}},
		{"vector of strings", map[string]any{"$vector": []any{"a"}}},
		{"vectorize number", map[string]any{"$vectorize": 3}},
		{"dollar field", map[string]any{"$set": map[string]any{}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromMap(tc.raw); err == nil {
				t.Errorf("expected error for %v", tc.raw)
			}
		})
	}
}

func TestFromMap_TypedIDs(t *testing.T) {
	u := uuid.New()
	doc, err := FromMap(map[string]any{"_id": map[string]any{"$uuid": u.String()}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := doc.ID().(uuid.UUID)
	if !ok || got != u {
		t.Errorf("ID() = %#v, want uuid %s", doc.ID(), u)
	}

	oid := NewObjectID()
	doc, err = FromMap(map[string]any{"_id": map[string]any{"$objectId": oid.Hex()}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID() != oid {
		t.Errorf("ID() = %#v, want %s", doc.ID(), oid)
	}
}

func TestToMap_EncodesTypedIDs(t *testing.T) {
	u := uuid.MustParse("0191b8a4-6f1a-7c3e-9b45-2d1c3a9e8f10")
	doc := Document{}.WithID(u)
	data, err := json.Marshal(doc.ToMap())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"_id":{"$uuid":"0191b8a4-6f1a-7c3e-9b45-2d1c3a9e8f10"}}`
	if string(data) != want {
		t.Errorf("ToMap JSON = %s, want %s", data, want)
	}
}

func TestMatches(t *testing.T) {
	doc, err := FromMap(map[string]any{"_id": float64(7), "name": "a", "n": float64(60), "tags": []any{"x"}})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}

	tests := []struct {
		name   string
		filter map[string]any
		want   bool
	}{
		{"empty filter", map[string]any{}, true},
		{"nil filter", nil, true},
		{"by field", map[string]any{"name": "a"}, true},
		{"by numeric id", map[string]any{"_id": json.Number("7")}, true},
		{"by int field", map[string]any{"n": 60}, true},
		{"by array", map[string]any{"tags": []any{"x"}}, true},
		{"field mismatch", map[string]any{"name": "b"}, false},
		{"missing field", map[string]any{"other": "a"}, false},
		{"id mismatch", map[string]any{"_id": "7"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := doc.Matches(tc.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Matches(%v) = %v, want %v", tc.filter, got, tc.want)
			}
		})
	}

	if _, err := doc.Matches(map[string]any{"$or": []any{}}); err == nil {
		t.Error("expected error for unsupported operator")
	}
}

func TestGenerateID(t *testing.T) {
	tests := []struct {
		idType collection.IDType
		check  func(t *testing.T, id any)
	}{
		{collection.IDTypeDefault, func(t *testing.T, id any) {
			s, ok := id.(string)
			if !ok {
				t.Fatalf("default id = %T, want string", id)
			}
			if _, err := uuid.Parse(s); err != nil {
				t.Errorf("default id %q is not a uuid: %v", s, err)
			}
		}},
		{collection.IDTypeUUID, func(t *testing.T, id any) {
			u, ok := id.(uuid.UUID)
			if !ok || u.Version() != 4 {
				t.Errorf("uuid id = %#v, want v4", id)
			}
		}},
		{collection.IDTypeUUIDv6, func(t *testing.T, id any) {
			u, ok := id.(uuid.UUID)
			if !ok || u.Version() != 6 {
				t.Errorf("uuidv6 id = %#v, want v6", id)
			}
		}},
		{collection.IDTypeUUIDv7, func(t *testing.T, id any) {
			u, ok := id.(uuid.UUID)
			if !ok || u.Version() != 7 {
				t.Errorf("uuidv7 id = %#v, want v7", id)
			}
		}},
		{collection.IDTypeObjectID, func(t *testing.T, id any) {
			if _, ok := id.(ObjectID); !ok {
				t.Errorf("objectId id = %T, want ObjectID", id)
			}
		}},
	}
	for _, tc := range tests {
		t.Run(string(tc.idType), func(t *testing.T) {
			id, err := GenerateID(tc.idType)
			if err != nil {
				t.Fatalf("GenerateID: %v", err)
			}
			tc.check(t, id)
		})
	}

	if _, err := GenerateID("serial"); err == nil {
		t.Error("expected error for unknown id type")
	}
}

func TestObjectID(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := newObjectIDAt(at)
	b := newObjectIDAt(at)
	if a == b {
		t.Error("consecutive ObjectIDs must differ")
	}
	if !a.Timestamp().Equal(at) {
		t.Errorf("Timestamp() = %v, want %v", a.Timestamp(), at)
	}

	parsed, err := ParseObjectID(a.Hex())
	if err != nil {
		t.Fatalf("ParseObjectID: %v", err)
	}
	if parsed != a {
		t.Errorf("ParseObjectID(%s) = %s", a.Hex(), parsed)
	}

	if _, err := ParseObjectID("zz0000000000000000000000"); err == nil {
		t.Error("expected error for non-hex input")
	}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"$objectId":"` + a.Hex() + `"}`
	if string(data) != want {
		t.Errorf("MarshalJSON = %s, want %s", data, want)
	}
}

func TestIDKey_NumericForms(t *testing.T) {
	if IDKey(1) != IDKey(float64(1)) || IDKey(json.Number("1")) != IDKey(int64(1)) {
		t.Error("numeric ids with the same value must share a key")
	}
	if IDKey("1") == IDKey(1) {
		t.Error("string and numeric ids must not collide")
	}
}
