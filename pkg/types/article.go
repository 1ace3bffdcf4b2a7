// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ArticleState tracks an article's progress through the pipeline. Transitions
// are strictly forward; StateFinalized is terminal and is the only state
// handed to exporters.
type ArticleState string

const (
	StatePlanned      ArticleState = "planned"
	StateDrafted      ArticleState = "drafted"
	StateTagged       ArticleState = "tagged"
	StateDeduplicated ArticleState = "deduplicated"
	StatePolished     ArticleState = "polished"
	StateFinalized    ArticleState = "finalized"
)

// stateOrder ranks the lifecycle states for forward-only transition checks.
var stateOrder = map[ArticleState]int{
	StatePlanned:      0,
	StateDrafted:      1,
	StateTagged:       2,
	StateDeduplicated: 3,
	StatePolished:     4,
	StateFinalized:    5,
}

// Before reports whether s occurs earlier in the lifecycle than other.
func (s ArticleState) Before(other ArticleState) bool {
	return stateOrder[s] < stateOrder[other]
}

// UnitKind identifies the block shape of a TextUnit.
type UnitKind string

const (
	UnitParagraph UnitKind = "paragraph"
	UnitList      UnitKind = "list"
	UnitQuote     UnitKind = "quote"
	UnitTable     UnitKind = "table"
)

// EvidenceKind classifies a factual line. The declaration order is the fixed
// tagging priority: stat beats quote beats case beats tool.
type EvidenceKind string

const (
	EvidenceStat  EvidenceKind = "stat"
	EvidenceQuote EvidenceKind = "quote"
	EvidenceCase  EvidenceKind = "case"
	EvidenceTool  EvidenceKind = "tool"
)

// evidencePriority ranks evidence kinds; lower is higher priority.
var evidencePriority = map[EvidenceKind]int{
	EvidenceStat:  0,
	EvidenceQuote: 1,
	EvidenceCase:  2,
	EvidenceTool:  3,
}

// Priority returns the rank of the evidence kind; lower ranks first.
func (k EvidenceKind) Priority() int {
	return evidencePriority[k]
}

// EvidenceItem is a classified factual span from drafted or research text.
// Items are created during tagging and never mutated afterward; they bias
// micro-style choice but never gate it.
type EvidenceItem struct {
	// Kind is the evidence classification: stat, quote, case, or tool.
	Kind EvidenceKind `json:"kind" yaml:"kind"`

	// Span is the source text the classifier matched.
	Span string `json:"span" yaml:"span"`

	// SourceURL is the research provenance URL, when known.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// SourceTitle is the research provenance title, when known.
	SourceTitle string `json:"source_title,omitempty" yaml:"source_title,omitempty"`
}

// TextUnit is one block of article text: a paragraph, bullet list, block
// quote, or table.
type TextUnit struct {
	// Kind is the block shape.
	Kind UnitKind `json:"kind" yaml:"kind"`

	// Text is the raw block content.
	Text string `json:"text" yaml:"text"`

	// Evidence lists the classified factual spans found in this unit.
	Evidence []EvidenceItem `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// Section is one heading-delimited part of an article.
type Section struct {
	// Heading is the section title text.
	Heading string `json:"heading" yaml:"heading"`

	// Level is the heading level, 1 through 3.
	Level int `json:"level" yaml:"level"`

	// TemplateID names the structure template assigned by the planner.
	TemplateID string `json:"template_id,omitempty" yaml:"template_id,omitempty"`

	// TargetWords is the word budget allocated to this section.
	TargetWords int `json:"target_words" yaml:"target_words"`

	// Units holds the section's content blocks in order.
	Units []TextUnit `json:"units,omitempty" yaml:"units,omitempty"`

	// EvidenceDensity is the ratio of tagged lines to total lines,
	// maintained by the tagging pass.
	EvidenceDensity float64 `json:"evidence_density,omitempty" yaml:"evidence_density,omitempty"`

	// Tier is the typography tier stamped by the polish pass. Empty until
	// polished.
	Tier TierName `json:"tier,omitempty" yaml:"tier,omitempty"`
}

// Text joins the section's units into a single body string separated by
// blank lines.
func (s *Section) Text() string {
	var parts []string
	for _, u := range s.Units {
		parts = append(parts, u.Text)
	}
	return joinBlocks(parts)
}

func joinBlocks(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "\n\n"
		}
		out += p
	}
	return out
}

// WarningKind identifies a soft quality annotation on an article.
type WarningKind string

const (
	// WarnResidualSimilarity marks a unit whose rewrite never dropped below
	// the similarity threshold within the retry budget.
	WarnResidualSimilarity WarningKind = "residual-similarity"

	// WarnUnscoredUnit marks a unit whose embedding could not be computed;
	// it is treated as non-duplicate.
	WarnUnscoredUnit WarningKind = "unscored-unit"
)

// Warning is a soft, non-fatal annotation attached to an article by a
// quality pass.
type Warning struct {
	// Kind classifies the warning.
	Kind WarningKind `json:"kind" yaml:"kind"`

	// Section is the index of the affected section.
	Section int `json:"section" yaml:"section"`

	// Unit is the index of the affected unit within the section.
	Unit int `json:"unit" yaml:"unit"`

	// Detail is a human-readable explanation.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Article is the unit of work owned by one pipeline run. It is never shared
// across runs and is discarded after export.
type Article struct {
	// Title is the H1 article heading.
	Title string `json:"title" yaml:"title"`

	// Topic is the subject the article was requested for.
	Topic string `json:"topic" yaml:"topic"`

	// Slug is the URL-safe name used for output files.
	Slug string `json:"slug" yaml:"slug"`

	// Audience is an optional reader hint folded into prompts.
	Audience string `json:"audience,omitempty" yaml:"audience,omitempty"`

	// TargetWords is the requested total word count.
	TargetWords int `json:"target_words" yaml:"target_words"`

	// Polish enables the editorial polish pass.
	Polish bool `json:"polish" yaml:"polish"`

	// State is the article's position in the pipeline lifecycle.
	State ArticleState `json:"state" yaml:"state"`

	// Sections holds the article body in order.
	Sections []*Section `json:"sections" yaml:"sections"`

	// Warnings accumulates soft quality annotations from the passes.
	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// UnitRef addresses one TextUnit by section and unit index. Passes that work
// over the whole article flatten sections into a stable arena of refs.
type UnitRef struct {
	Section int
	Unit    int
}

// FlatUnits returns refs for every unit in document order. The returned
// slice is a stable arena: index i in the slice is the unit's flat ID for
// the duration of a pass.
func (a *Article) FlatUnits() []UnitRef {
	var refs []UnitRef
	for si, sec := range a.Sections {
		for ui := range sec.Units {
			refs = append(refs, UnitRef{Section: si, Unit: ui})
		}
	}
	return refs
}

// Unit resolves a ref to its TextUnit.
func (a *Article) Unit(ref UnitRef) *TextUnit {
	return &a.Sections[ref.Section].Units[ref.Unit]
}
