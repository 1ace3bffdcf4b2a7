// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedupe finds semantically near-duplicate passages across an
// article and drives the rewrite-and-reverify loop that removes them.
package dedupe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/article-engine/internal/embed"
	"github.com/pdiddy/article-engine/pkg/types"
)

const defaultMaxConcurrent = 4

// Cluster is a set of near-duplicate units over the article's flat unit
// arena. The earliest unit is kept verbatim; the rest are rewrite
// candidates. Clusters are transient: computed once per detection pass and
// discarded after resolution.
type Cluster struct {
	// Kept is the flat index of the earliest-occurring unit.
	Kept int

	// Flagged lists the flat indices of the units to rewrite, in document
	// order.
	Flagged []int
}

// Detector embeds every text unit and clusters pairs whose cosine
// similarity meets the threshold.
type Detector struct {
	// Embedder computes unit vectors; wrap it in a run-scoped cache so a
	// detection pass never recomputes unchanged units.
	Embedder embed.Embedder

	// MaxConcurrent bounds parallel embedding calls (default 4).
	MaxConcurrent int

	// Logger records degraded units. Nil disables logging.
	Logger *slog.Logger
}

func (d *Detector) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Detect embeds all units concurrently and returns duplicate clusters in
// document order of their kept unit. A unit whose embedding call fails is
// left unscored: it is treated as non-duplicate and the article gets an
// unscored-unit warning, but the pass never aborts.
func (d *Detector) Detect(ctx context.Context, article *types.Article, threshold float64) ([]Cluster, error) {
	refs := article.FlatUnits()
	if len(refs) < 2 {
		return nil, nil
	}

	vectors := make([][]float64, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	limit := d.MaxConcurrent
	if limit <= 0 {
		limit = defaultMaxConcurrent
	}
	g.SetLimit(limit)

	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			v, err := d.Embedder.Embed(gctx, article.Unit(ref).Text)
			if err != nil {
				if errors.Is(err, types.ErrServiceUnavailable) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					// Degrade to unscored; the unit simply cannot be flagged.
					return nil
				}
				return fmt.Errorf("embedding unit %d: %w", i, err)
			}
			vectors[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, v := range vectors {
		if v == nil {
			ref := refs[i]
			d.logger().Warn("unit_unscored",
				slog.Int("section", ref.Section),
				slog.Int("unit", ref.Unit))
			article.Warnings = append(article.Warnings, types.Warning{
				Kind:    types.WarnUnscoredUnit,
				Section: ref.Section,
				Unit:    ref.Unit,
				Detail:  "embedding unavailable; unit treated as non-duplicate",
			})
		}
	}

	uf := newUnionFind(len(refs))
	for i := 0; i < len(refs); i++ {
		if vectors[i] == nil {
			continue
		}
		for j := i + 1; j < len(refs); j++ {
			if vectors[j] == nil {
				continue
			}
			// Units inside one section are often structurally required to
			// echo each other (a lead and its summary line); only
			// cross-section repetition counts.
			if refs[i].Section == refs[j].Section {
				continue
			}
			if embed.Cosine(vectors[i], vectors[j]) >= threshold {
				uf.union(i, j)
			}
		}
	}

	return buildClusters(uf, len(refs)), nil
}

// buildClusters groups flat indices by union-find root. Within a cluster
// the smallest index is kept; output is ordered by kept index.
func buildClusters(uf *unionFind, n int) []Cluster {
	members := make(map[int][]int)
	for i := 0; i < n; i++ {
		root := uf.find(i)
		members[root] = append(members[root], i)
	}

	var clusters []Cluster
	for _, m := range members {
		if len(m) < 2 {
			continue
		}
		sort.Ints(m)
		clusters = append(clusters, Cluster{Kept: m[0], Flagged: m[1:]})
	}
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].Kept < clusters[j].Kept
	})
	return clusters
}
