// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Source is one web research result, normalized from the search provider.
type Source struct {
	// Title is the result page title.
	Title string `json:"title" yaml:"title"`

	// URL is the result location.
	URL string `json:"url" yaml:"url"`

	// Snippet is the provider's short summary of the page.
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`

	// RawContent is the full page text, populated only in deep mode.
	RawContent string `json:"raw_content,omitempty" yaml:"raw_content,omitempty"`
}

// ResearchData is the structured output of a web research pass, handed to
// the drafting prompts as grounding context.
type ResearchData struct {
	// Sources lists the normalized search results.
	Sources []Source `json:"sources" yaml:"sources"`

	// Insights are key themes distilled from the sources.
	Insights []string `json:"insights,omitempty" yaml:"insights,omitempty"`

	// Keywords are topical terms drawn from the source text.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}
