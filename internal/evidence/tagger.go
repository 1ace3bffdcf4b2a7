// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evidence classifies factual lines of drafted or research text
// into evidence kinds. Tags are advisory: they bias micro-style choice
// downstream but never gate it.
package evidence

import (
	"regexp"
	"strings"

	"github.com/pdiddy/article-engine/pkg/types"
)

// statPattern matches a numeral with a percent sign or a measurement unit.
var statPattern = regexp.MustCompile(`(?i)\d[\d,.]*\s*(%|percent|million|billion|thousand|kg|km|ms|seconds?|minutes?|hours?|days?|weeks?|months?|years?|users?|customers?|dollars?|points?|x\b)`)

// quotePattern matches text inside double or curly quotation marks.
var quotePattern = regexp.MustCompile(`["\x{201C}][^"\x{201C}\x{201D}]+["\x{201D}]`)

// attributionMarkers signal an attributable speaker around a quotation.
var attributionMarkers = []string{
	"said", "says", "according to", "notes", "noted", "explained",
	"explains", "wrote", "argues", "put it",
}

// caseMarkers open a narrative anecdote.
var caseMarkers = []string{
	"a company", "a team", "in practice", "one organization", "a startup",
	"a client", "a mid-size", "a small business", "an enterprise",
	"for example, a", "case study",
}

// outcomeMarkers signal that a narrative line reports a result.
var outcomeMarkers = []string{
	"resulted", "achieved", "grew", "reduced", "improved", "increased",
	"decreased", "saw", "led to", "cut", "doubled", "boosted", "saved",
}

// toolTokens is the recognizable named-software vocabulary. Matching is
// case-sensitive on the canonical capitalization to avoid common-word
// collisions ("excel" the verb vs. "Excel" the product).
var toolTokens = []string{
	"Excel", "Slack", "GitHub", "GitLab", "Jira", "Trello", "Notion",
	"Salesforce", "HubSpot", "WordPress", "Shopify", "Google Analytics",
	"Kubernetes", "Docker", "Terraform", "Python", "JavaScript",
	"PostgreSQL", "Redis", "Tableau", "Zapier", "Figma", "Asana",
}

// Tag classifies a single line. The first matching rule wins, in the fixed
// priority order stat > quote > case > tool. The second return value is
// false when no rule matches; untagged lines are valid and ignored
// downstream.
func Tag(line string) (types.EvidenceItem, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return types.EvidenceItem{}, false
	}

	if span := statPattern.FindString(trimmed); span != "" {
		return types.EvidenceItem{Kind: types.EvidenceStat, Span: strings.TrimSpace(span)}, true
	}

	if span := quotePattern.FindString(trimmed); span != "" && hasAny(strings.ToLower(trimmed), attributionMarkers) {
		return types.EvidenceItem{Kind: types.EvidenceQuote, Span: span}, true
	}

	lower := strings.ToLower(trimmed)
	if hasAny(lower, caseMarkers) && hasAny(lower, outcomeMarkers) {
		return types.EvidenceItem{Kind: types.EvidenceCase, Span: trimmed}, true
	}

	for _, tok := range toolTokens {
		if strings.Contains(trimmed, tok) {
			return types.EvidenceItem{Kind: types.EvidenceTool, Span: tok}, true
		}
	}

	return types.EvidenceItem{}, false
}

func hasAny(lower string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// TagUnit scans a unit line by line, attaching at most one evidence item per
// line. It returns the number of lines that received a tag and the number of
// non-empty lines scanned.
func TagUnit(unit *types.TextUnit) (tagged, scanned int) {
	for _, line := range strings.Split(unit.Text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		scanned++
		if item, ok := Tag(line); ok {
			unit.Evidence = append(unit.Evidence, item)
			tagged++
		}
	}
	return tagged, scanned
}

// TagSection tags every unit in the section and updates its evidence
// density: the ratio of tagged lines to scanned lines.
func TagSection(sec *types.Section) {
	var tagged, scanned int
	for i := range sec.Units {
		tg, sc := TagUnit(&sec.Units[i])
		tagged += tg
		scanned += sc
	}
	if scanned > 0 {
		sec.EvidenceDensity = float64(tagged) / float64(scanned)
	}
}

// TagArticle runs the tagging pass over every section.
func TagArticle(article *types.Article) {
	for _, sec := range article.Sections {
		TagSection(sec)
	}
}
