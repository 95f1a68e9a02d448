package vector

import (
	"strings"
	"testing"
)

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in   string
		want Metric
	}{
		{"cosine", Cosine},
		{"COSINE", Cosine},
		{"Dot_Product", DotProduct},
		{" euclidean ", Euclidean},
	}
	for _, tc := range tests {
		got, err := ParseMetric(tc.in)
		if err != nil {
			t.Errorf("ParseMetric(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseMetric(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "dotproduct", "l2"} {
		if _, err := ParseMetric(bad); err == nil {
			t.Errorf("ParseMetric(%q) expected error", bad)
		}
	}
}

func TestNew_Valid(t *testing.T) {
	v, err := New(123, Euclidean, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Dimension() != 123 {
		t.Errorf("Dimension() = %d, want 123", v.Dimension())
	}
	if v.Metric() != Euclidean {
		t.Errorf("Metric() = %q, want euclidean", v.Metric())
	}
	if v.IsZero() {
		t.Error("IsZero() = true, want false")
	}
}

func TestNew_NegativeDimension(t *testing.T) {
	_, err := New(-1, Cosine, nil)
	if err == nil {
		t.Fatal("expected error for negative dimension")
	}
	if !strings.Contains(err.Error(), "positive") {
		t.Errorf("error = %q, want 'positive'", err)
	}
}

func TestNew_InvalidMetric(t *testing.T) {
	if _, err := New(2, Metric("Cosine"), nil); err == nil {
		t.Fatal("expected error for non-canonical metric")
	}
}

func TestNew_ServiceWidth(t *testing.T) {
	nvidia := &Service{Provider: ProviderNvidia, ModelName: "NV-Embed-QA"}
	small := &Service{Provider: ProviderOpenAI, ModelName: "text-embedding-3-small"}
	custom := &Service{Provider: "acme", ModelName: "m1"}

	tests := []struct {
		name    string
		dim     int
		svc     *Service
		wantErr bool
	}{
		{"fixed width implied", 0, nvidia, false},
		{"fixed width matches", 1024, nvidia, false},
		{"fixed width mismatch", 768, nvidia, true},
		{"variable width below max", 512, small, false},
		{"variable width at max", 1536, small, false},
		{"variable width above max", 2048, small, true},
		{"unknown model unchecked", 7, custom, false},
		{"missing provider", 0, &Service{ModelName: "m"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.dim, DotProduct, tc.svc)
			if (err != nil) != tc.wantErr {
				t.Errorf("New(%d, %+v) error = %v, wantErr %v", tc.dim, tc.svc, err, tc.wantErr)
			}
		})
	}
}

func TestEffectiveDimension(t *testing.T) {
	v, err := New(0, DotProduct, &Service{Provider: ProviderNvidia, ModelName: "NV-Embed-QA"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if v.EffectiveDimension() != 1024 {
		t.Errorf("EffectiveDimension() = %d, want 1024", v.EffectiveDimension())
	}

	flexible, err := New(0, Cosine, &Service{Provider: ProviderOpenAI, ModelName: "text-embedding-3-large"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if flexible.EffectiveDimension() != 0 {
		t.Errorf("EffectiveDimension() = %d, want 0 for variable-width model", flexible.EffectiveDimension())
	}
}

func TestLookupWidth(t *testing.T) {
	w, ok := LookupWidth(ProviderOpenAI, "text-embedding-ada-002")
	if !ok || w.Dimension != 1536 || !w.Fixed {
		t.Errorf("LookupWidth(ada-002) = %+v, %v", w, ok)
	}
	if _, ok := LookupWidth("nobody", "x"); ok {
		t.Error("LookupWidth(unknown) should miss")
	}
}
