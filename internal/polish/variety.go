// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package polish

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdiddy/article-engine/internal/generate"
	"github.com/pdiddy/article-engine/pkg/types"
)

// openerWords is the n-gram width used to fingerprint a section's first
// sentence.
const openerWords = 3

// proseRunLimit is the longest run of pure-prose sections allowed before
// one of them is reshaped into a list block.
const proseRunLimit = 3

// openerKey returns the normalized leading n-gram of the text's first
// sentence, or "" when the text is too short to fingerprint.
func openerKey(text string) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return ""
	}
	words := wordPattern.FindAllString(sentences[0], openerWords)
	if len(words) < openerWords {
		return ""
	}
	for i, w := range words[:openerWords] {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words[:openerWords], " ")
}

// openerAlternatives suggests opening patterns other than the one the
// section's template already uses, for the rewrite hint.
var openerAlternatives = []types.OpeningPattern{
	types.OpenQuestion,
	types.OpenStatistic,
	types.OpenNarrative,
	types.OpenDefinition,
}

func openerHint(collision int) string {
	alt := openerAlternatives[collision%len(openerAlternatives)]
	return fmt.Sprintf("Rewrite the opening so it does not begin the same way as an earlier section. Use a %s opening instead, keep every fact intact, and keep the rest of the paragraph's meaning unchanged.", alt)
}

// enforceOpenerVariety tracks the leading n-gram of each section's first
// sentence across the article and rewrites first paragraphs whose opener
// repeats an earlier section's. A failed rewrite keeps the original text;
// variety is a quality pass, not a gate.
func (r *Refiner) enforceOpenerVariety(ctx context.Context, article *types.Article) {
	seen := make(map[string]bool)
	collisions := 0
	for _, sec := range article.Sections {
		if len(sec.Units) == 0 {
			continue
		}
		first := &sec.Units[0]
		key := openerKey(first.Text)
		if key == "" {
			continue
		}
		if !seen[key] {
			seen[key] = true
			continue
		}

		collisions++
		rewritten, err := r.Generator.Paraphrase(ctx, generate.ParaphraseRequest{
			Text:           first.Text,
			DivergenceHint: openerHint(collisions - 1),
			Evidence:       first.Evidence,
		})
		if err != nil || strings.TrimSpace(rewritten) == "" {
			r.logger().Warn("opener_rewrite_failed", slog.String("heading", sec.Heading), slog.String("error", fmt.Sprint(err)))
			continue
		}
		first.Text = strings.TrimSpace(rewritten)
		if newKey := openerKey(first.Text); newKey != "" {
			seen[newKey] = true
		}
	}
}

// adjustCadence rewrites sections whose sentence rhythm is flat: enough
// sentences to judge and a length standard deviation below the monotone
// threshold. The rewrite asks for varied sentence lengths over the whole
// section body and replaces the section's paragraph units with the result.
func (r *Refiner) adjustCadence(ctx context.Context, article *types.Article) {
	for _, sec := range article.Sections {
		body := sec.Text()
		if !monotone(body) {
			continue
		}
		rewritten, err := r.Generator.Paraphrase(ctx, generate.ParaphraseRequest{
			Text:           body,
			DivergenceHint: "Vary the sentence rhythm: mix short punchy sentences with longer ones. Keep every fact, every list item, and the paragraph order unchanged.",
			Evidence:       sectionEvidence(sec),
		})
		if err != nil || strings.TrimSpace(rewritten) == "" {
			r.logger().Warn("cadence_rewrite_failed", slog.String("heading", sec.Heading), slog.String("error", fmt.Sprint(err)))
			continue
		}
		replaceParagraphs(sec, rewritten)
	}
}

func sectionEvidence(sec *types.Section) []types.EvidenceItem {
	var items []types.EvidenceItem
	for _, u := range sec.Units {
		items = append(items, u.Evidence...)
	}
	return items
}

// replaceParagraphs swaps the section's body for the rewritten text, one
// paragraph unit per blank-line block. Non-paragraph units (lists, tables,
// quotes) keep their original text so structure survives the rhythm pass.
func replaceParagraphs(sec *types.Section, rewritten string) {
	blocks := strings.Split(strings.TrimSpace(rewritten), "\n\n")
	bi := 0
	for i := range sec.Units {
		if sec.Units[i].Kind != types.UnitParagraph {
			continue
		}
		if bi >= len(blocks) {
			break
		}
		sec.Units[i].Text = strings.TrimSpace(blocks[bi])
		bi++
	}
}

// varyStructure breaks up long runs of pure-prose sections by reshaping
// one paragraph of the run's last section into a bullet list. The reshape
// is local: sentences become bullets, no generation call involved.
func varyStructure(article *types.Article) {
	run := 0
	for _, sec := range article.Sections {
		if !allProse(sec) {
			run = 0
			continue
		}
		run++
		if run < proseRunLimit {
			continue
		}
		if reshapeLongestParagraph(sec) {
			run = 0
		}
	}
}

func allProse(sec *types.Section) bool {
	if len(sec.Units) == 0 {
		return false
	}
	for _, u := range sec.Units {
		if u.Kind != types.UnitParagraph {
			return false
		}
	}
	return true
}

// reshapeLongestParagraph converts the section's longest paragraph with at
// least three sentences into a sentence-per-bullet list. Returns false when
// no paragraph is long enough to carry a list shape.
func reshapeLongestParagraph(sec *types.Section) bool {
	best := -1
	bestLen := 0
	for i, u := range sec.Units {
		if u.Kind != types.UnitParagraph {
			continue
		}
		if n := len(splitSentences(u.Text)); n >= 3 && len(u.Text) > bestLen {
			best, bestLen = i, len(u.Text)
		}
	}
	if best < 0 {
		return false
	}
	sentences := splitSentences(sec.Units[best].Text)
	bullets := make([]string, 0, len(sentences))
	for _, s := range sentences {
		bullets = append(bullets, "- "+strings.TrimSpace(s))
	}
	sec.Units[best] = types.TextUnit{
		Kind:     types.UnitList,
		Text:     strings.Join(bullets, "\n"),
		Evidence: sec.Units[best].Evidence,
	}
	return true
}
