package domain

import (
	"math"
	"testing"
)

func TestCosineSimilarity_Identical(t *testing.T) {
	v := []float32{0.5, 0.5, 0.5}
	got := CosineSimilarity(v, v)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("expected 1.0 for identical vectors, got %f", got)
	}
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("expected 0 for orthogonal vectors, got %f", got)
	}
}

func TestCosineSimilarity_Opposite(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-1, -2, -3}
	got := CosineSimilarity(a, b)
	if math.Abs(got-(-1.0)) > 1e-9 {
		t.Errorf("expected -1.0 for opposite vectors, got %f", got)
	}
}

func TestCosineSimilarity_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
	}{
		{"zero left", ZeroVector(3), []float32{1, 2, 3}},
		{"zero right", []float32{1, 2, 3}, ZeroVector(3)},
		{"both zero", ZeroVector(3), ZeroVector(3)},
		{"empty", nil, nil},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CosineSimilarity(tc.a, tc.b); got != 0 {
				t.Errorf("expected 0 for degenerate input, got %f", got)
			}
		})
	}
}

func TestVectorCodec_RoundTrip(t *testing.T) {
	v := []float32{0.1, -0.25, 3}
	decoded, err := DecodeVector(EncodeVector(v))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded) != 3 || decoded[1] != -0.25 {
		t.Errorf("round trip mismatch: %v", decoded)
	}
}

func TestDecodeVector_Empty(t *testing.T) {
	v, err := DecodeVector("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != nil {
		t.Errorf("expected nil for empty input, got %v", v)
	}
}

func TestDecodeVector_Corrupt(t *testing.T) {
	if _, err := DecodeVector("{not json"); err == nil {
		t.Fatal("expected error for corrupt input")
	}
}

func TestEncodeVector_Nil(t *testing.T) {
	if got := EncodeVector(nil); got != "[]" {
		t.Errorf("expected empty JSON array for nil vector, got %q", got)
	}
}

func TestZeroVector(t *testing.T) {
	v := ZeroVector(EmbeddingDimensions)
	if len(v) != 384 {
		t.Fatalf("expected 384 dimensions, got %d", len(v))
	}
	for i, f := range v {
		if f != 0 {
			t.Fatalf("expected zero at index %d, got %f", i, f)
		}
	}
}
