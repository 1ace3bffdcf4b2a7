// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed computes semantic vectors for text units and caches them
// for the duration of one pipeline run.
package embed

import (
	"context"
	"math"
)

// Embedder converts free text into a fixed-length numeric vector. Vectors
// must be stable within one run: the same input yields the same vector.
// Cross-run stability is not required.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Cosine returns the cosine similarity of two vectors. Mismatched lengths
// and zero vectors score 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
