// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/article-engine/pkg/types"
)

// systemPrompt frames every drafting request.
const systemPrompt = "You are a professional long-form writer. Write engaging, factual, " +
	"structured content. Follow proper heading hierarchy, keep claims grounded in the " +
	"provided research, and avoid filler."

// sectionPromptTmpl is the prompt for drafting one section. The opening and
// shape instructions come from the section's structure template so adjacent
// sections read differently.
var sectionPromptTmpl = template.Must(template.New("section").Parse(`Write a {{.TargetWords}}-word section for the article "{{.ArticleTitle}}".
Section: H{{.Level}} - {{.Heading}}.
{{.OpeningInstruction}}
{{.ShapeInstruction}}
Audience: approachable, professional writing{{if .Audience}} for {{.Audience}}{{end}}.
{{if .Insights}}
Insights to consider:
{{range .Insights}}- {{.}}
{{end}}{{end}}{{if .Keywords}}
Relevant terms: {{.KeywordList}}
{{end}}{{if .Sources}}
Reference material:
{{range .Sources}}- {{.Title}} ({{.URL}})
{{end}}{{end}}
Do not include the heading itself or explicit citation markers. Separate paragraphs with blank lines.`))

// paraphrasePromptTmpl asks for a rewrite that diverges in phrasing while
// holding tagged facts fixed.
var paraphrasePromptTmpl = template.Must(template.New("paraphrase").Parse(`Rewrite the following passage so it no longer reads like the rest of the article.
{{.DivergenceHint}}
Keep every fact intact. These tagged facts must survive the rewrite:
{{range .Evidence}}- [{{.Kind}}] {{.Span}}
{{end}}{{if .Context}}
Surrounding context (for coherence only, do not repeat it):
{{.Context}}
{{end}}
Passage:
{{.Text}}

Return only the rewritten passage.`))

// openingInstruction maps each opening pattern to its drafting instruction.
// The catalog is closed; an unknown pattern is a programming error.
func openingInstruction(p types.OpeningPattern) string {
	switch p {
	case types.OpenQuestion:
		return "Open with a pointed question the reader would actually ask, then answer it."
	case types.OpenStatistic:
		return "Open with a concrete statistic or measurable claim, then unpack it."
	case types.OpenNarrative:
		return "Open with a short real-world scenario before generalizing."
	case types.OpenDefinition:
		return "Open by precisely defining the key term of this section."
	default:
		panic(fmt.Sprintf("unknown opening pattern %q", p))
	}
}

// shapeInstruction maps each body shape to its drafting instruction.
func shapeInstruction(s types.BodyShape) string {
	switch s {
	case types.ShapeSteps:
		return "Structure the body as a numbered sequence of steps."
	case types.ShapeTable:
		return "Include a small comparison table (Markdown) contrasting the main options."
	case types.ShapeProse:
		return "Write flowing prose paragraphs without lists."
	case types.ShapeProsCons:
		return "Structure the body around a pros and cons bullet list."
	default:
		panic(fmt.Sprintf("unknown body shape %q", s))
	}
}

type sectionPromptData struct {
	ArticleTitle       string
	Heading            string
	Level              int
	TargetWords        int
	Audience           string
	OpeningInstruction string
	ShapeInstruction   string
	Insights           []string
	Keywords           []string
	Sources            []types.Source
}

func (d sectionPromptData) KeywordList() string {
	return strings.Join(d.Keywords, ", ")
}

const (
	maxPromptInsights = 10
	maxPromptKeywords = 12
	maxPromptSources  = 6
)

// SectionPrompt renders the drafting prompt for one section.
func SectionPrompt(article *types.Article, sec *types.Section, tmpl types.TemplateDescriptor, research types.ResearchData) (string, error) {
	data := sectionPromptData{
		ArticleTitle:       article.Title,
		Heading:            sec.Heading,
		Level:              sec.Level,
		TargetWords:        sec.TargetWords,
		Audience:           article.Audience,
		OpeningInstruction: openingInstruction(tmpl.Opening),
		ShapeInstruction:   shapeInstruction(tmpl.Shape),
		Insights:           limit(research.Insights, maxPromptInsights),
		Keywords:           limit(research.Keywords, maxPromptKeywords),
		Sources:            limitSources(research.Sources, maxPromptSources),
	}

	var b bytes.Buffer
	if err := sectionPromptTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering section prompt: %w", err)
	}
	return b.String(), nil
}

// ParaphrasePrompt renders the rewrite prompt for a flagged unit.
func ParaphrasePrompt(req ParaphraseRequest) (string, error) {
	var b bytes.Buffer
	if err := paraphrasePromptTmpl.Execute(&b, req); err != nil {
		return "", fmt.Errorf("rendering paraphrase prompt: %w", err)
	}
	return b.String(), nil
}

// DivergenceHint returns an escalating instruction for retry attempt n
// (0-based). Later attempts push harder on phrasing and structure.
func DivergenceHint(attempt int) string {
	switch {
	case attempt <= 0:
		return "Use different vocabulary and a different paragraph rhythm."
	case attempt == 1:
		return "Diverge strongly: change the sentence order, sentence lengths, and every opening phrase."
	default:
		return "Rebuild the passage from scratch with a completely different structure; only the facts may survive."
	}
}

func limit(in []string, n int) []string {
	if len(in) > n {
		return in[:n]
	}
	return in
}

func limitSources(in []types.Source, n int) []types.Source {
	if len(in) > n {
		return in[:n]
	}
	return in
}
