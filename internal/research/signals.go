// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"strings"

	"github.com/pdiddy/article-engine/pkg/types"
)

const (
	signalSources = 8
	maxInsights   = 20
	maxKeywords   = 30

	minKeywordLen = 5
	maxKeywordLen = 30
)

// deriveSignals extracts insights and keywords from the leading sources.
// Source titles stand in for key themes; keywords are mid-length alphabetic
// tokens from titles and snippets. Both lists are order-preserving
// deduplicated and capped.
func deriveSignals(sources []types.Source) (insights, keywords []string) {
	n := len(sources)
	if n > signalSources {
		n = signalSources
	}
	for _, src := range sources[:n] {
		for _, token := range strings.Fields(src.Title + " " + src.Snippet) {
			t := strings.ToLower(strings.Trim(token, ",.()[]{}:;!?\"'"))
			if len(t) >= minKeywordLen && len(t) <= maxKeywordLen && alphabetic(t) {
				keywords = append(keywords, t)
			}
		}
		if src.Title != "" {
			insights = append(insights, src.Title)
		}
	}
	return truncate(dedupe(insights), maxInsights), truncate(dedupe(keywords), maxKeywords)
}

func alphabetic(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func dedupe(seq []string) []string {
	seen := make(map[string]bool, len(seq))
	out := seq[:0]
	for _, s := range seq {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func truncate(seq []string, limit int) []string {
	if len(seq) > limit {
		return seq[:limit]
	}
	return seq
}
