// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "article-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint, mainly for tests and proxies.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ResearchConfig holds settings for the web research stage.
type ResearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the search provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Deep enables advanced search depth with raw page content.
	Deep bool `json:"deep" yaml:"deep"`

	// MaxResults caps basic-mode results (default 5; deep mode uses 15).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// CacheDir is the directory for the on-disk research cache. Empty
	// disables caching.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`
}

// GenerationConfig holds settings for section drafting and paraphrasing.
type GenerationConfig struct {
	AIConfig `yaml:",inline"`

	// Temperature is the sampling temperature for drafting (default 0.7).
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// EmbeddingConfig holds settings for the embedding service.
type EmbeddingConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the embedding model identifier (default "text-embedding-3-small").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the embedding API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint (default "https://api.openai.com/v1").
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxConcurrent bounds concurrent embedding requests (default 4).
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`
}

// DedupeConfig holds the duplication-detection and paraphrase settings.
// The threshold and retry bound are tunables without a derived optimum;
// the defaults are starting points, not guarantees.
type DedupeConfig struct {
	// Threshold is the cosine-similarity cutoff above which two units are
	// near-duplicates (default 0.86).
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// DeepThreshold replaces Threshold for deep/long articles, which have
	// more opportunity for accidental repetition (default 0.82).
	DeepThreshold float64 `json:"deep_threshold" yaml:"deep_threshold"`

	// MaxRewrites bounds paraphrase retries per flagged unit (default 2).
	MaxRewrites int `json:"max_rewrites" yaml:"max_rewrites"`

	// MaxConcurrent bounds concurrent cluster resolutions (default 4).
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`
}

// EffectiveThreshold returns the similarity cutoff for the given mode,
// falling back to defaults when unset.
func (c DedupeConfig) EffectiveThreshold(deep bool) float64 {
	if deep {
		if c.DeepThreshold > 0 {
			return c.DeepThreshold
		}
		return 0.82
	}
	if c.Threshold > 0 {
		return c.Threshold
	}
	return 0.86
}

// PolishConfig toggles the individual polish responsibilities. All default
// to on when polish mode is requested.
type PolishConfig struct {
	// Tiers enables typography tier enforcement.
	Tiers bool `json:"tiers" yaml:"tiers"`

	// Takeaways enables Key Takeaways synthesis.
	Takeaways bool `json:"takeaways" yaml:"takeaways"`

	// OpenerVariety enables first-sentence opener tracking and rewrites.
	OpenerVariety bool `json:"opener_variety" yaml:"opener_variety"`

	// Cadence enables sentence-rhythm adjustment.
	Cadence bool `json:"cadence" yaml:"cadence"`

	// StructuralVariation enables block-shape variation enforcement.
	StructuralVariation bool `json:"structural_variation" yaml:"structural_variation"`

	// TakeawayMinWords is the section length threshold for takeaway
	// synthesis (default 150).
	TakeawayMinWords int `json:"takeaway_min_words" yaml:"takeaway_min_words"`
}

// AllPolish returns a PolishConfig with every responsibility enabled.
func AllPolish() PolishConfig {
	return PolishConfig{
		Tiers:               true,
		Takeaways:           true,
		OpenerVariety:       true,
		Cadence:             true,
		StructuralVariation: true,
	}
}

// ExportFormat selects an output format.
type ExportFormat string

const (
	FormatTXT  ExportFormat = "txt"
	FormatHTML ExportFormat = "html"
	FormatDOCX ExportFormat = "docx"
	FormatPDF  ExportFormat = "pdf"
	FormatAll  ExportFormat = "all"
)

// ExportConfig holds settings for the export stage.
type ExportConfig struct {
	// OutputDir is the directory for exported files (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Format selects txt, html, docx, pdf, or all.
	Format ExportFormat `json:"format" yaml:"format"`

	// FontFamily is the base font when polish mode is off.
	FontFamily string `json:"font_family" yaml:"font_family"`

	// BaseFontSize is the body size in points when polish mode is off.
	BaseFontSize float64 `json:"base_font_size" yaml:"base_font_size"`

	// H1Size, H2Size, and H3Size are heading sizes when polish mode is off.
	H1Size float64 `json:"h1_size" yaml:"h1_size"`
	H2Size float64 `json:"h2_size" yaml:"h2_size"`
	H3Size float64 `json:"h3_size" yaml:"h3_size"`
}

// PipelineConfig groups all stage configurations for one article run.
type PipelineConfig struct {
	Research   ResearchConfig   `json:"research" yaml:"research"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Embedding  EmbeddingConfig  `json:"embedding" yaml:"embedding"`
	Dedupe     DedupeConfig     `json:"dedupe" yaml:"dedupe"`
	Polish     PolishConfig     `json:"polish" yaml:"polish"`
	Export     ExportConfig     `json:"export" yaml:"export"`
}
