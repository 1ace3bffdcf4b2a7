// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-engine/internal/embed"
	"github.com/pdiddy/article-engine/internal/generate"
	"github.com/pdiddy/article-engine/internal/pipeline"
	"github.com/pdiddy/article-engine/internal/research"
	"github.com/pdiddy/article-engine/internal/secrets"
	"github.com/pdiddy/article-engine/pkg/types"
)

const defaultUserAgent = "article-engine/0.1"

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Research a topic and generate a finished article",
	Long: `Generate runs the full article pipeline: web research, outline planning
with rotating structure templates, section drafting, evidence tagging,
embedding-based duplicate detection with targeted rewrites, an optional
polish pass, and export to the requested formats.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("topic", "", "article topic (required)")
	generateCmd.Flags().String("heading", "", "article title (default: the topic)")
	generateCmd.Flags().String("audience", "", "target reader hint passed to drafting")
	generateCmd.Flags().Int("word-count", 1500, "target word count for the whole article")
	generateCmd.Flags().Bool("deep", false, "deep research: more sources, raw content, tighter duplicate threshold")
	generateCmd.Flags().Bool("polish", false, "enable editorial polish and the Times New Roman style system")
	generateCmd.Flags().String("outline", "", "path to a YAML outline instead of a derived one")
	generateCmd.Flags().String("format", "all", "output format: txt, html, docx, pdf, or all")
	generateCmd.Flags().String("output-dir", "output", "directory for exported files")
	generateCmd.Flags().String("font-family", "Open Sans", "body font family when polish is off")
	generateCmd.Flags().Float64("base-font-size", 11, "body font size when polish is off")
	generateCmd.Flags().Float64("h1-size", 18, "H1 font size when polish is off")
	generateCmd.Flags().Float64("h2-size", 14, "H2 font size when polish is off")
	generateCmd.Flags().Float64("h3-size", 12, "H3 font size when polish is off")
	generateCmd.Flags().String("cache-dir", ".cache", "research cache directory (empty disables caching)")
	generateCmd.Flags().String("model", "", "chat model for drafting and rewrites")
	generateCmd.Flags().Float64("threshold", 0, "duplicate similarity threshold override")
	generateCmd.Flags().Int64("seed", 0, "template selection seed for reproducible runs")
	generateCmd.Flags().Bool("mock", false, "draft offline with the mock generation service")
	generateCmd.Flags().String("openai-key", "", "OpenAI API key (default: .secrets/ or OPENAI_API_KEY)")
	generateCmd.Flags().String("tavily-key", "", "Tavily API key (default: .secrets/ or TAVILY_API_KEY)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	if topic == "" {
		return fmt.Errorf("--topic is required")
	}

	heading, _ := cmd.Flags().GetString("heading")
	audience, _ := cmd.Flags().GetString("audience")
	wordCount, _ := cmd.Flags().GetInt("word-count")
	deep, _ := cmd.Flags().GetBool("deep")
	polishMode, _ := cmd.Flags().GetBool("polish")
	outlinePath, _ := cmd.Flags().GetString("outline")
	format, _ := cmd.Flags().GetString("format")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	fontFamily, _ := cmd.Flags().GetString("font-family")
	baseFontSize, _ := cmd.Flags().GetFloat64("base-font-size")
	h1Size, _ := cmd.Flags().GetFloat64("h1-size")
	h2Size, _ := cmd.Flags().GetFloat64("h2-size")
	h3Size, _ := cmd.Flags().GetFloat64("h3-size")
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	model, _ := cmd.Flags().GetString("model")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	seed, _ := cmd.Flags().GetInt64("seed")
	mock, _ := cmd.Flags().GetBool("mock")
	openaiFlag, _ := cmd.Flags().GetString("openai-key")
	tavilyFlag, _ := cmd.Flags().GetString("tavily-key")

	openaiKey := secretDefault(secrets.KeyOpenAI, openaiFlag)
	if openaiKey == "" {
		openaiKey = secrets.Resolve(loadedSecrets, secrets.KeyOpenAI, "OPENAI_API_KEY")
	}
	tavilyKey := secretDefault(secrets.KeyTavily, tavilyFlag)
	if tavilyKey == "" {
		tavilyKey = secrets.Resolve(loadedSecrets, secrets.KeyTavily, "TAVILY_API_KEY")
	}
	if tavilyKey == "" {
		return fmt.Errorf("Tavily API key is missing: set --tavily-key, TAVILY_API_KEY, or .secrets/%s", secrets.KeyTavily)
	}
	if !mock && openaiKey == "" {
		return fmt.Errorf("OpenAI API key is missing: set --openai-key, OPENAI_API_KEY, or .secrets/%s", secrets.KeyOpenAI)
	}

	cfg := types.PipelineConfig{
		Research: types.ResearchConfig{
			HTTPConfig: types.HTTPConfig{Timeout: 30 * time.Second, UserAgent: defaultUserAgent},
			APIKey:     tavilyKey,
			Deep:       deep,
			CacheDir:   cacheDir,
		},
		Generation: types.GenerationConfig{
			AIConfig: types.AIConfig{Model: model, APIKey: openaiKey},
		},
		Embedding: types.EmbeddingConfig{
			HTTPConfig: types.HTTPConfig{Timeout: 30 * time.Second, UserAgent: defaultUserAgent},
			APIKey:     openaiKey,
		},
		Dedupe: types.DedupeConfig{Threshold: threshold},
		Export: types.ExportConfig{
			OutputDir:    outputDir,
			Format:       types.ExportFormat(format),
			FontFamily:   fontFamily,
			BaseFontSize: baseFontSize,
			H1Size:       h1Size,
			H2Size:       h2Size,
			H3Size:       h3Size,
		},
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	p, cleanup, err := buildPipeline(cfg, mock, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := p.Run(cmd.Context(), pipeline.Options{
		Topic:       topic,
		Title:       heading,
		Audience:    audience,
		TargetWords: wordCount,
		Deep:        deep,
		Polish:      polishMode,
		OutlinePath: outlinePath,
		Seed:        seed,
	})
	if err != nil {
		return err
	}

	for _, w := range result.Article.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s (section %d, unit %d): %s\n", w.Kind, w.Section, w.Unit, w.Detail)
	}
	fmt.Printf("run %s finished: %d section(s), %d file(s)\n", result.RunID, len(result.Article.Sections), len(result.Paths))
	return nil
}

// buildPipeline assembles the stage services. The returned cleanup closes
// the research cache.
func buildPipeline(cfg types.PipelineConfig, mock bool, logger *slog.Logger) (*pipeline.Pipeline, func(), error) {
	cleanup := func() {}

	backend := &research.Client{
		APIKey:    cfg.Research.APIKey,
		UserAgent: cfg.Research.UserAgent,
	}
	researchSvc := &research.Service{Backend: backend, Logger: logger}
	if cfg.Research.CacheDir != "" {
		store, err := research.OpenStore(cfg.Research.CacheDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening research cache: %w", err)
		}
		researchSvc.Store = store
		cleanup = func() { store.Close() }
	}

	var generator generate.Service
	var embedder embed.Embedder
	if mock {
		generator = &generate.MockService{}
		embedder = &embed.MockEmbedder{}
	} else {
		svc, err := generate.NewOpenAIService(cfg.Generation)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		generator = svc
		client, err := embed.NewOpenAIClient(cfg.Embedding)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		embedder = client
	}

	return &pipeline.Pipeline{
		Config:    cfg,
		Research:  researchSvc,
		Generator: generator,
		Embedder:  embedder,
		Logger:    logger,
		Progress:  os.Stdout,
	}, cleanup, nil
}
