// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline owns the article lifecycle: research, planning,
// drafting, evidence tagging, deduplication, optional polish, and export.
// Stages run strictly in order; each advances the article state exactly
// once and never backward.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/article-engine/internal/dedupe"
	"github.com/pdiddy/article-engine/internal/embed"
	"github.com/pdiddy/article-engine/internal/evidence"
	"github.com/pdiddy/article-engine/internal/export"
	"github.com/pdiddy/article-engine/internal/generate"
	"github.com/pdiddy/article-engine/internal/plan"
	"github.com/pdiddy/article-engine/internal/polish"
	"github.com/pdiddy/article-engine/pkg/types"
)

// Researcher is the research boundary the pipeline consumes.
type Researcher interface {
	Research(ctx context.Context, topic string, deep bool) (*types.ResearchData, error)
}

// Options selects what one run produces.
type Options struct {
	// Topic is the research and article subject.
	Topic string

	// Title overrides the article heading; empty derives it from Topic.
	Title string

	// Audience is the reader hint passed to generation.
	Audience string

	// TargetWords is the whole-article word budget.
	TargetWords int

	// Deep widens research and tightens the duplication threshold.
	Deep bool

	// Polish enables the editorial polish pass.
	Polish bool

	// OutlinePath loads a YAML outline instead of deriving one.
	OutlinePath string

	// Seed fixes template selection for reproducible runs; 0 uses the clock.
	Seed int64
}

// Result is one finished run.
type Result struct {
	// RunID identifies the run in logs and the embedding cache.
	RunID string

	// Article is the finalized article.
	Article *types.Article

	// Paths lists the exported files.
	Paths []string
}

// Pipeline wires the stage implementations together. Construct one per
// process; each Run owns its article and embedding cache exclusively.
type Pipeline struct {
	Config    types.PipelineConfig
	Research  Researcher
	Generator generate.Service
	Embedder  embed.Embedder
	Logger    *slog.Logger

	// Progress receives human-readable stage updates. Nil discards them.
	Progress io.Writer
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (p *Pipeline) progress() io.Writer {
	if p.Progress != nil {
		return p.Progress
	}
	return io.Discard
}

// Run executes the full lifecycle for one article and exports it.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Topic == "" {
		return nil, &types.MalformedInputError{Field: "topic", Reason: "must not be empty"}
	}

	runID := uuid.NewString()
	log := p.logger().With(slog.String("run_id", runID))
	w := p.progress()

	log.Info("run_started", slog.String("topic", opts.Topic), slog.Bool("deep", opts.Deep), slog.Bool("polish", opts.Polish))

	fmt.Fprintf(w, "researching %q\n", opts.Topic)
	research, err := p.Research.Research(ctx, opts.Topic, opts.Deep)
	if err != nil {
		return nil, fmt.Errorf("researching topic: %w", err)
	}
	log.Info("research_done", slog.Int("sources", len(research.Sources)))

	article, err := p.planArticle(opts)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "planned %d sections\n", len(article.Sections))

	if err := generate.DraftArticle(ctx, p.Generator, article, *research, w); err != nil {
		return nil, fmt.Errorf("drafting article: %w", err)
	}

	evidence.TagArticle(article)
	if err := advance(article, types.StateTagged); err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "tagged evidence across %d sections\n", len(article.Sections))

	if err := p.deduplicate(ctx, article, opts.Deep, runID, log); err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "deduplication done, %d warnings so far\n", len(article.Warnings))

	if opts.Polish {
		refiner := &polish.Refiner{Generator: p.Generator, Config: p.polishConfig(), Logger: log}
		if err := refiner.Refine(ctx, article); err != nil {
			return nil, fmt.Errorf("polishing article: %w", err)
		}
		fmt.Fprintln(w, "polish pass done")
	}

	if err := advance(article, types.StateFinalized); err != nil {
		return nil, err
	}

	doc, err := export.BuildStyledDocument(article, p.Config.Export)
	if err != nil {
		return nil, fmt.Errorf("resolving styled document: %w", err)
	}
	paths, err := export.WriteAll(doc, p.Config.Export, time.Now())
	if err != nil {
		return nil, fmt.Errorf("exporting article: %w", err)
	}
	for _, path := range paths {
		fmt.Fprintf(w, "wrote %s\n", path)
	}

	log.Info("run_finished",
		slog.Int("sections", len(article.Sections)),
		slog.Int("warnings", len(article.Warnings)),
		slog.Int("files", len(paths)))
	return &Result{RunID: runID, Article: article, Paths: paths}, nil
}

func (p *Pipeline) planArticle(opts Options) (*types.Article, error) {
	var outline types.Outline
	if opts.OutlinePath != "" {
		loaded, err := plan.LoadOutline(opts.OutlinePath)
		if err != nil {
			return nil, fmt.Errorf("loading outline: %w", err)
		}
		outline = loaded
	} else {
		outline = plan.BuildOutline(opts.Topic, opts.TargetWords)
	}

	title := opts.Title
	if title == "" {
		title = opts.Topic
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	article, err := plan.BuildArticle(title, opts.Topic, export.Slugify(title), opts.Audience, opts.TargetWords, opts.Polish, outline, rng)
	if err != nil {
		return nil, fmt.Errorf("planning article: %w", err)
	}
	return article, nil
}

// deduplicate runs detection and rewrite resolution under a run-scoped
// embedding cache, so the re-verify pass never recomputes unchanged units.
func (p *Pipeline) deduplicate(ctx context.Context, article *types.Article, deep bool, runID string, log *slog.Logger) error {
	cache := embed.NewCache(runID)
	defer cache.Clear()
	cached := &embed.CachedEmbedder{Backend: p.Embedder, Cache: cache}

	threshold := p.Config.Dedupe.EffectiveThreshold(deep)
	detector := &dedupe.Detector{
		Embedder:      cached,
		MaxConcurrent: p.Config.Dedupe.MaxConcurrent,
		Logger:        log,
	}
	clusters, err := detector.Detect(ctx, article, threshold)
	if err != nil {
		return fmt.Errorf("detecting duplicates: %w", err)
	}
	log.Info("duplicates_detected", slog.Int("clusters", len(clusters)), slog.Float64("threshold", threshold))

	if len(clusters) > 0 {
		controller := &dedupe.Controller{
			Generator:     p.Generator,
			Embedder:      cached,
			MaxRewrites:   p.Config.Dedupe.MaxRewrites,
			MaxConcurrent: p.Config.Dedupe.MaxConcurrent,
			Logger:        log,
		}
		if err := controller.ResolveAll(ctx, article, clusters, threshold); err != nil {
			return fmt.Errorf("resolving duplicate clusters: %w", err)
		}
	}
	return advance(article, types.StateDeduplicated)
}

func (p *Pipeline) polishConfig() types.PolishConfig {
	cfg := p.Config.Polish
	if !cfg.Tiers && !cfg.Takeaways && !cfg.OpenerVariety && !cfg.Cadence && !cfg.StructuralVariation {
		minWords := cfg.TakeawayMinWords
		cfg = types.AllPolish()
		cfg.TakeawayMinWords = minWords
	}
	return cfg
}

// advance moves the article forward to next, rejecting any backward or
// repeated transition.
func advance(article *types.Article, next types.ArticleState) error {
	if !article.State.Before(next) {
		return &types.MalformedInputError{
			Field:  "article.state",
			Reason: fmt.Sprintf("cannot move from %q to %q", article.State, next),
		}
	}
	article.State = next
	return nil
}
