package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// CosineSimilarity returns the cosine similarity of two vectors.
// Degenerate input (length mismatch, empty, or zero magnitude) yields 0
// rather than an error: a zero-vector fallback must score neutrally,
// never divide by zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// EncodeVector serializes a vector as a JSON float array for storage.
func EncodeVector(v []float32) string {
	if v == nil {
		v = []float32{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		// []float32 cannot fail to marshal; keep the contract total anyway.
		return "[]"
	}
	return string(data)
}

// DecodeVector parses a JSON float array produced by EncodeVector.
func DecodeVector(s string) ([]float32, error) {
	if s == "" {
		return nil, nil
	}
	var v []float32
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("decode embedding vector: %w", err)
	}
	return v, nil
}
