// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/article-engine/internal/embed"
	"github.com/pdiddy/article-engine/internal/generate"
	"github.com/pdiddy/article-engine/pkg/types"
)

const defaultMaxRewrites = 2

// Controller drives the rewrite-and-reverify loop for flagged units.
// Duplication reduction is a best-effort quality pass: a unit that cannot
// be pushed below the threshold keeps its best rewrite and a residual-
// similarity warning instead of failing the run.
type Controller struct {
	// Generator produces the rewrites.
	Generator generate.Service

	// Embedder re-embeds rewritten candidates for the threshold check.
	Embedder embed.Embedder

	// MaxRewrites is the retry bound K after the first attempt (default 2).
	MaxRewrites int

	// MaxConcurrent bounds clusters resolved in parallel (default 4).
	MaxConcurrent int

	// Logger records rewrite outcomes. Nil disables logging.
	Logger *slog.Logger
}

func (c *Controller) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ResolveAll resolves every cluster, fanning out across clusters while
// keeping each cluster strictly sequential: a cluster's rewrites are
// embedded and threshold-checked to completion before it is considered
// resolved. Distinct clusters flag distinct units, but a flagged unit's
// context window reads its neighbors, which may belong to another cluster
// mid-rewrite; windows therefore come from a pre-pass snapshot of every
// unit's text. Warnings are the only mutable shared state.
func (c *Controller) ResolveAll(ctx context.Context, article *types.Article, clusters []Cluster, threshold float64) error {
	g, gctx := errgroup.WithContext(ctx)
	limit := c.MaxConcurrent
	if limit <= 0 {
		limit = defaultMaxConcurrent
	}
	g.SetLimit(limit)

	var mu sync.Mutex
	refs := article.FlatUnits()
	snapshot := make([]string, len(refs))
	for i, ref := range refs {
		snapshot[i] = article.Unit(ref).Text
	}

	for _, cluster := range clusters {
		cluster := cluster
		g.Go(func() error {
			warnings, err := c.resolve(gctx, article, refs, snapshot, cluster, threshold)
			if err != nil {
				return err
			}
			if len(warnings) > 0 {
				mu.Lock()
				article.Warnings = append(article.Warnings, warnings...)
				mu.Unlock()
			}
			return nil
		})
	}
	return g.Wait()
}

// resolve rewrites each flagged unit of one cluster until its similarity to
// the kept unit drops below the threshold or the retry budget runs out.
func (c *Controller) resolve(ctx context.Context, article *types.Article, refs []types.UnitRef, snapshot []string, cluster Cluster, threshold float64) ([]types.Warning, error) {
	keptUnit := article.Unit(refs[cluster.Kept])
	keptVec, err := c.Embedder.Embed(ctx, keptUnit.Text)
	if err != nil {
		// Without a kept vector there is nothing to verify against; leave
		// the cluster's text as-is rather than rewriting blind, but record
		// that its near-duplicate pairs remain unresolved.
		c.logger().Warn("cluster_skipped", slog.Int("kept", cluster.Kept), slog.String("error", err.Error()))
		warnings := make([]types.Warning, 0, len(cluster.Flagged))
		for _, flat := range cluster.Flagged {
			ref := refs[flat]
			warnings = append(warnings, types.Warning{
				Kind:    types.WarnResidualSimilarity,
				Section: ref.Section,
				Unit:    ref.Unit,
				Detail:  fmt.Sprintf("kept unit could not be embedded, cluster left unresolved: %v", err),
			})
		}
		return warnings, nil
	}

	maxRewrites := c.MaxRewrites
	if maxRewrites <= 0 {
		maxRewrites = defaultMaxRewrites
	}

	var warnings []types.Warning
	for _, flat := range cluster.Flagged {
		ref := refs[flat]
		unit := article.Unit(ref)

		best, bestSim, attempts := c.rewriteUnit(ctx, article, refs, snapshot, flat, keptVec, threshold, maxRewrites)
		if best != "" {
			unit.Text = best
		}

		if bestSim >= threshold {
			c.logger().Warn("residual_similarity",
				slog.Int("section", ref.Section),
				slog.Int("unit", ref.Unit),
				slog.Float64("similarity", bestSim),
				slog.Int("attempts", attempts))
			warnings = append(warnings, types.Warning{
				Kind:    types.WarnResidualSimilarity,
				Section: ref.Section,
				Unit:    ref.Unit,
				Detail:  fmt.Sprintf("similarity %.3f still at or above %.2f after %d attempts", bestSim, threshold, attempts),
			})
		}
	}
	return warnings, nil
}

// rewriteUnit runs the attempt loop for one flagged unit. It returns the
// best candidate text (empty when every attempt failed outright), its
// similarity to the kept unit, and the number of attempts made. A
// ServiceUnavailable failure consumes the attempt and falls back to the
// pre-rewrite text.
func (c *Controller) rewriteUnit(ctx context.Context, article *types.Article, refs []types.UnitRef, snapshot []string, flat int, keptVec []float64, threshold float64, maxRewrites int) (string, float64, int) {
	unit := article.Unit(refs[flat])
	best := ""
	bestSim := 1.0
	if vec, err := c.Embedder.Embed(ctx, unit.Text); err == nil {
		bestSim = embed.Cosine(keptVec, vec)
	}
	attempts := 0

	for attempt := 0; attempt <= maxRewrites; attempt++ {
		attempts++

		rewritten, err := c.Generator.Paraphrase(ctx, generate.ParaphraseRequest{
			Text:           unit.Text,
			Context:        contextWindow(snapshot, flat),
			DivergenceHint: generate.DivergenceHint(attempt),
			Evidence:       unit.Evidence,
		})
		if err != nil {
			// A transient provider failure consumes the attempt.
			c.logger().Warn("rewrite_attempt_failed", slog.Int("attempt", attempt), slog.String("error", err.Error()))
			continue
		}
		rewritten = strings.TrimSpace(rewritten)
		if rewritten == "" {
			continue
		}

		vec, err := c.Embedder.Embed(ctx, rewritten)
		if err != nil {
			c.logger().Warn("reverify_embed_failed", slog.Int("attempt", attempt), slog.String("error", err.Error()))
			continue
		}

		sim := embed.Cosine(keptVec, vec)
		if sim < bestSim {
			best, bestSim = rewritten, sim
		}
		if sim < threshold {
			return best, bestSim, attempts
		}
	}
	return best, bestSim, attempts
}

// contextWindow joins the snapshot texts of the units adjacent to flat,
// giving the rewrite enough surrounding material to stay coherent. The
// pre-pass snapshot keeps the window stable while neighboring clusters
// rewrite their own units.
func contextWindow(snapshot []string, flat int) string {
	var parts []string
	if flat > 0 {
		parts = append(parts, snapshot[flat-1])
	}
	if flat+1 < len(snapshot) {
		parts = append(parts, snapshot[flat+1])
	}
	return strings.Join(parts, "\n\n")
}
