// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Cache memoizes embeddings for the duration of one pipeline run. It is
// owned by the run and never shared: two runs never see each other's
// vectors. Keys are content hashes, so a unit rewritten by the paraphrase
// pass gets a fresh vector.
type Cache struct {
	runID string

	mu      sync.RWMutex
	vectors map[string][]float64
}

// NewCache creates an empty cache scoped to runID.
func NewCache(runID string) *Cache {
	return &Cache{
		runID:   runID,
		vectors: make(map[string][]float64),
	}
}

// RunID returns the owning run's identifier.
func (c *Cache) RunID() string { return c.runID }

func key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached vector for text, if present.
func (c *Cache) Get(text string) ([]float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.vectors[key(text)]
	return v, ok
}

// Put stores a vector for text.
func (c *Cache) Put(text string, vector []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectors[key(text)] = vector
}

// Len returns the number of cached vectors.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}

// Clear drops every cached vector. Called when the run ends.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectors = make(map[string][]float64)
}

// CachedEmbedder wraps an Embedder with a run-scoped Cache.
type CachedEmbedder struct {
	Backend Embedder
	Cache   *Cache
}

// Embed returns the cached vector for text or computes and stores one.
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if v, ok := e.Cache.Get(text); ok {
		return v, nil
	}
	v, err := e.Backend.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	e.Cache.Put(text, v)
	return v, nil
}
