// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate drafts article sections and rewrites flagged passages
// through a language-generation backend.
package generate

import (
	"context"

	"github.com/pdiddy/article-engine/pkg/types"
)

// Constraints bound a single generation request.
type Constraints struct {
	// TargetWords is the requested length of the generated text.
	TargetWords int

	// Temperature overrides the configured sampling temperature when > 0.
	Temperature float64
}

// ParaphraseRequest asks for a rewrite of one text unit. Evidence spans
// must survive the rewrite verbatim in meaning: a rewrite may rephrase
// around a fact but never drop it.
type ParaphraseRequest struct {
	// Text is the unit to rewrite.
	Text string

	// Context is a short surrounding-text window for coherence.
	Context string

	// DivergenceHint escalates across retries, asking the model to move
	// further from the original phrasing and sentence structure.
	DivergenceHint string

	// Evidence lists the tagged facts the rewrite must preserve.
	Evidence []types.EvidenceItem
}

// Service is the language-generation boundary. Failures surface wrapped in
// types.ErrServiceUnavailable; callers degrade rather than abort.
type Service interface {
	Generate(ctx context.Context, prompt string, c Constraints) (string, error)
	Paraphrase(ctx context.Context, req ParaphraseRequest) (string, error)
}
