// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/pdiddy/article-engine/internal/generate"
	"github.com/pdiddy/article-engine/pkg/types"
)

// scriptedService returns the next rewrite from its script for each
// Paraphrase call, recording the divergence hints it saw. A "FAIL" entry
// simulates a transient backend outage.
type scriptedService struct {
	script []string
	calls  int
	hints  []string
}

func (s *scriptedService) Generate(context.Context, string, generate.Constraints) (string, error) {
	return "", fmt.Errorf("%w: not used", types.ErrServiceUnavailable)
}

func (s *scriptedService) Paraphrase(_ context.Context, req generate.ParaphraseRequest) (string, error) {
	s.hints = append(s.hints, req.DivergenceHint)
	if s.calls >= len(s.script) {
		return "", fmt.Errorf("%w: script exhausted", types.ErrServiceUnavailable)
	}
	out := s.script[s.calls]
	s.calls++
	if out == "FAIL" {
		return "", fmt.Errorf("%w: backend down", types.ErrServiceUnavailable)
	}
	return out, nil
}

func resolveOne(t *testing.T, article *types.Article, emb *vectorEmbedder, svc *scriptedService) {
	t.Helper()
	d := &Detector{Embedder: emb}
	clusters, err := d.Detect(context.Background(), article, 0.86)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	c := &Controller{Generator: svc, Embedder: emb}
	if err := c.ResolveAll(context.Background(), article, clusters, 0.86); err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
}

func TestResolveFirstRewriteSucceeds(t *testing.T) {
	article := testArticle([]string{"alpha"}, []string{"alpha copy"})
	emb := &vectorEmbedder{vectors: map[string][]float64{
		"alpha":      {1, 0},
		"alpha copy": {1, 0},
		"distinct":   {0, 1},
	}}
	svc := &scriptedService{script: []string{"distinct"}}

	resolveOne(t, article, emb, svc)

	if got := article.Sections[1].Units[0].Text; got != "distinct" {
		t.Errorf("rewritten text = %q, want %q", got, "distinct")
	}
	if got := article.Sections[0].Units[0].Text; got != "alpha" {
		t.Errorf("kept unit changed to %q", got)
	}
	if len(article.Warnings) != 0 {
		t.Errorf("unexpected warnings: %+v", article.Warnings)
	}
	if svc.calls != 1 {
		t.Errorf("paraphrase calls = %d, want 1", svc.calls)
	}
}

func TestResolveThirdAttemptSucceedsNoWarning(t *testing.T) {
	article := testArticle([]string{"alpha"}, []string{"alpha copy"})
	emb := &vectorEmbedder{vectors: map[string][]float64{
		"alpha":      {1, 0},
		"alpha copy": {1, 0},
		"distinct":   {0, 1},
	}}
	svc := &scriptedService{script: []string{"FAIL", "FAIL", "distinct"}}

	resolveOne(t, article, emb, svc)

	if got := article.Sections[1].Units[0].Text; got != "distinct" {
		t.Errorf("rewritten text = %q, want %q", got, "distinct")
	}
	if len(article.Warnings) != 0 {
		t.Errorf("unexpected warnings after late success: %+v", article.Warnings)
	}
	if svc.calls != 3 {
		t.Errorf("paraphrase calls = %d, want 3", svc.calls)
	}
}

func TestResolveKeepsBestCandidateWithWarning(t *testing.T) {
	article := testArticle([]string{"alpha"}, []string{"alpha copy"})
	emb := &vectorEmbedder{vectors: map[string][]float64{
		"alpha":      {1, 0, 0},
		"alpha copy": {1, 0, 0},
		// All rewrites stay above the threshold; "closer" is the best.
		"near":   {0.99, 0.14, 0}, // ~0.990
		"closer": {0.95, 0.31, 0}, // ~0.951
		"worse":  {0.999, 0.04, 0},
	}}
	svc := &scriptedService{script: []string{"near", "closer", "worse"}}

	resolveOne(t, article, emb, svc)

	if got := article.Sections[1].Units[0].Text; got != "closer" {
		t.Errorf("kept rewrite = %q, want best candidate %q", got, "closer")
	}
	if len(article.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(article.Warnings))
	}
	w := article.Warnings[0]
	if w.Kind != types.WarnResidualSimilarity {
		t.Errorf("warning kind = %q, want %q", w.Kind, types.WarnResidualSimilarity)
	}
	if w.Section != 1 || w.Unit != 0 {
		t.Errorf("warning location = (%d,%d), want (1,0)", w.Section, w.Unit)
	}
	if !strings.Contains(w.Detail, "3 attempts") {
		t.Errorf("warning detail %q should mention the attempt count", w.Detail)
	}
}

func TestResolveAllAttemptsFailKeepsOriginal(t *testing.T) {
	article := testArticle([]string{"alpha"}, []string{"alpha copy"})
	emb := &vectorEmbedder{vectors: map[string][]float64{
		"alpha":      {1, 0},
		"alpha copy": {1, 0},
	}}
	svc := &scriptedService{script: []string{"FAIL", "FAIL", "FAIL"}}

	resolveOne(t, article, emb, svc)

	if got := article.Sections[1].Units[0].Text; got != "alpha copy" {
		t.Errorf("text = %q, want original preserved", got)
	}
	if len(article.Warnings) != 1 || article.Warnings[0].Kind != types.WarnResidualSimilarity {
		t.Fatalf("warnings = %+v, want one residual-similarity warning", article.Warnings)
	}
}

func TestResolveEscalatesDivergenceHints(t *testing.T) {
	article := testArticle([]string{"alpha"}, []string{"alpha copy"})
	emb := &vectorEmbedder{vectors: map[string][]float64{
		"alpha":      {1, 0},
		"alpha copy": {1, 0},
	}}
	svc := &scriptedService{script: []string{"FAIL", "FAIL", "FAIL"}}

	resolveOne(t, article, emb, svc)

	if len(svc.hints) != 3 {
		t.Fatalf("got %d hints, want 3", len(svc.hints))
	}
	for i := 1; i < len(svc.hints); i++ {
		if svc.hints[i] == svc.hints[i-1] {
			t.Errorf("hint %d repeats hint %d: %q", i, i-1, svc.hints[i])
		}
	}
}

func TestResolveAllMultipleClusters(t *testing.T) {
	article := testArticle(
		[]string{"alpha", "beta"},
		[]string{"alpha copy", "beta copy"},
	)
	emb := &vectorEmbedder{vectors: map[string][]float64{
		"alpha":      {1, 0, 0},
		"alpha copy": {1, 0, 0},
		"beta":       {0, 1, 0},
		"beta copy":  {0, 1, 0},
		"fresh-a":    {0, 0, 1},
		"fresh-b":    {0.5, 0, 0.5},
	}}

	d := &Detector{Embedder: emb}
	clusters, err := d.Detect(context.Background(), article, 0.86)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}

	svc := &orderedService{rewrites: map[string]string{
		"alpha copy": "fresh-a",
		"beta copy":  "fresh-b",
	}}
	c := &Controller{Generator: svc, Embedder: emb, MaxConcurrent: 2}
	if err := c.ResolveAll(context.Background(), article, clusters, 0.86); err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}

	if got := article.Sections[1].Units[0].Text; got != "fresh-a" {
		t.Errorf("first rewrite = %q, want fresh-a", got)
	}
	if got := article.Sections[1].Units[1].Text; got != "fresh-b" {
		t.Errorf("second rewrite = %q, want fresh-b", got)
	}
	if len(article.Warnings) != 0 {
		t.Errorf("unexpected warnings: %+v", article.Warnings)
	}
}

func TestResolveAllContextWindowsUsePrePassText(t *testing.T) {
	// Clusters {alpha, alpha copy} and {beta, beta copy} resolve
	// concurrently, and the flagged units sit next to each other in the
	// flat arena. Each rewrite's context window must carry the neighbor's
	// pre-pass text, never a rewrite landing at the same time.
	article := testArticle(
		[]string{"alpha", "beta"},
		[]string{"alpha copy", "beta copy"},
	)
	emb := &vectorEmbedder{vectors: map[string][]float64{
		"alpha":      {1, 0, 0},
		"alpha copy": {1, 0, 0},
		"beta":       {0, 1, 0},
		"beta copy":  {0, 1, 0},
		"fresh-a":    {0, 0, 1},
		"fresh-b":    {0.5, 0, 0.5},
	}}

	d := &Detector{Embedder: emb}
	clusters, err := d.Detect(context.Background(), article, 0.86)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}

	svc := &recordingService{rewrites: map[string]string{
		"alpha copy": "fresh-a",
		"beta copy":  "fresh-b",
	}}
	c := &Controller{Generator: svc, Embedder: emb, MaxConcurrent: 2}
	if err := c.ResolveAll(context.Background(), article, clusters, 0.86); err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}

	if len(svc.requests) != 2 {
		t.Fatalf("got %d paraphrase requests, want 2", len(svc.requests))
	}
	for _, req := range svc.requests {
		switch req.Text {
		case "alpha copy":
			if req.Context != "beta\n\nbeta copy" {
				t.Errorf("context for %q = %q, want pre-pass neighbors", req.Text, req.Context)
			}
		case "beta copy":
			if req.Context != "alpha copy" {
				t.Errorf("context for %q = %q, want pre-pass neighbor %q", req.Text, req.Context, "alpha copy")
			}
		default:
			t.Errorf("unexpected rewrite of %q", req.Text)
		}
	}
}

func TestResolveKeptEmbedFailureWarnsFlaggedUnits(t *testing.T) {
	article := testArticle([]string{"alpha"}, []string{"alpha copy"})
	emb := &vectorEmbedder{
		vectors: map[string][]float64{"alpha copy": {1, 0}},
		fail:    map[string]bool{"alpha": true},
	}
	svc := &scriptedService{script: []string{"unused"}}

	c := &Controller{Generator: svc, Embedder: emb}
	clusters := []Cluster{{Kept: 0, Flagged: []int{1}}}
	if err := c.ResolveAll(context.Background(), article, clusters, 0.86); err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}

	if svc.calls != 0 {
		t.Errorf("paraphrase called %d times for a skipped cluster", svc.calls)
	}
	if got := article.Sections[1].Units[0].Text; got != "alpha copy" {
		t.Errorf("flagged text = %q, want original preserved", got)
	}
	if len(article.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(article.Warnings))
	}
	w := article.Warnings[0]
	if w.Kind != types.WarnResidualSimilarity {
		t.Errorf("warning kind = %q, want %q", w.Kind, types.WarnResidualSimilarity)
	}
	if w.Section != 1 || w.Unit != 0 {
		t.Errorf("warning location = (%d,%d), want (1,0)", w.Section, w.Unit)
	}
	if !strings.Contains(w.Detail, "unresolved") {
		t.Errorf("warning detail %q should say the cluster stays unresolved", w.Detail)
	}
}

// orderedService rewrites by input text, safe for concurrent clusters.
type orderedService struct {
	rewrites map[string]string
}

func (s *orderedService) Generate(context.Context, string, generate.Constraints) (string, error) {
	return "", fmt.Errorf("%w: not used", types.ErrServiceUnavailable)
}

func (s *orderedService) Paraphrase(_ context.Context, req generate.ParaphraseRequest) (string, error) {
	return s.rewrites[req.Text], nil
}

// recordingService rewrites by input text and keeps every request it
// served, safe for concurrent clusters.
type recordingService struct {
	mu       sync.Mutex
	rewrites map[string]string
	requests []generate.ParaphraseRequest
}

func (s *recordingService) Generate(context.Context, string, generate.Constraints) (string, error) {
	return "", fmt.Errorf("%w: not used", types.ErrServiceUnavailable)
}

func (s *recordingService) Paraphrase(_ context.Context, req generate.ParaphraseRequest) (string, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	return s.rewrites[req.Text], nil
}
