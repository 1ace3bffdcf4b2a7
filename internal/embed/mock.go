// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"crypto/sha256"
)

// MockEmbedder is an offline Embedder for local runs without an API key.
// Vectors are derived from a hash of the text: identical texts embed
// identically, unrelated texts land roughly orthogonal.
type MockEmbedder struct{}

func (MockEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	sum := sha256.Sum256([]byte(text))
	v := make([]float64, len(sum))
	for i, b := range sum {
		v[i] = float64(int(b) - 128)
	}
	return v, nil
}
