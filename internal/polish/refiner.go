// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package polish applies the editorial finishing pass: typography tiers,
// Key Takeaways synthesis, opener variety, sentence-rhythm adjustment,
// and block-shape variation.
package polish

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pdiddy/article-engine/internal/generate"
	"github.com/pdiddy/article-engine/pkg/types"
)

// Refiner runs the polish responsibilities over a deduplicated article.
// Each responsibility is independently toggle-able through Config; a full
// polish run enables all of them.
type Refiner struct {
	// Generator backs the opener and cadence rewrites.
	Generator generate.Service

	// Config selects which responsibilities run.
	Config types.PolishConfig

	// Logger records skipped rewrites. Nil disables logging.
	Logger *slog.Logger
}

func (r *Refiner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Refine applies the configured polish passes and advances the article to
// the polished state. The article must be deduplicated; re-polishing an
// already-polished article is also accepted and leaves tiers and takeaway
// blocks unchanged.
func (r *Refiner) Refine(ctx context.Context, article *types.Article) error {
	if article.State != types.StateDeduplicated && article.State != types.StatePolished {
		return &types.MalformedInputError{
			Field:  "article.state",
			Reason: fmt.Sprintf("polish requires a deduplicated article, got %q", article.State),
		}
	}

	if r.Config.Tiers {
		applyTiers(article)
	}
	if r.Config.Takeaways {
		synthesizeTakeaways(article, r.Config.TakeawayMinWords)
	}
	if r.Config.OpenerVariety {
		r.enforceOpenerVariety(ctx, article)
	}
	if r.Config.Cadence {
		r.adjustCadence(ctx, article)
	}
	if r.Config.StructuralVariation {
		varyStructure(article)
	}

	article.State = types.StatePolished
	return nil
}
