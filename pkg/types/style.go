// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TierName identifies one of the fixed typographic tiers used in polish mode.
type TierName string

const (
	TierTitle      TierName = "title"
	TierHeading    TierName = "heading"
	TierSubheading TierName = "subheading"
	TierBody       TierName = "body"
)

// Alignment is a paragraph alignment for rendered output.
type Alignment string

const (
	AlignLeft      Alignment = "left"
	AlignCenter    Alignment = "center"
	AlignJustified Alignment = "justified"
)

// StyleTier is an immutable typographic style applied uniformly to every
// section at the same heading level when polish mode is active.
type StyleTier struct {
	// Name identifies the tier.
	Name TierName `json:"name" yaml:"name"`

	// Font is the font family name.
	Font string `json:"font" yaml:"font"`

	// SizePt is the font size in points.
	SizePt float64 `json:"size_pt" yaml:"size_pt"`

	// Bold and Italic set the font weight and style.
	Bold   bool `json:"bold" yaml:"bold"`
	Italic bool `json:"italic" yaml:"italic"`

	// Align is the paragraph alignment.
	Align Alignment `json:"align" yaml:"align"`

	// LineSpacing is the line spacing multiplier (1.0 = single).
	LineSpacing float64 `json:"line_spacing" yaml:"line_spacing"`

	// SpaceAfterPt is the paragraph space-after in points.
	SpaceAfterPt float64 `json:"space_after_pt" yaml:"space_after_pt"`
}

// DefaultTiers returns the fixed polish-mode tier set: Title 20pt bold
// centered, Heading 15pt bold, Subheading 13pt bold italic, Body 11pt
// justified with 1.15 line spacing and 6pt space-after.
func DefaultTiers() map[TierName]StyleTier {
	const font = "Times New Roman"
	return map[TierName]StyleTier{
		TierTitle:      {Name: TierTitle, Font: font, SizePt: 20, Bold: true, Align: AlignCenter, LineSpacing: 1.0},
		TierHeading:    {Name: TierHeading, Font: font, SizePt: 15, Bold: true, Align: AlignLeft, LineSpacing: 1.0},
		TierSubheading: {Name: TierSubheading, Font: font, SizePt: 13, Bold: true, Italic: true, Align: AlignLeft, LineSpacing: 1.0},
		TierBody:       {Name: TierBody, Font: font, SizePt: 11, Align: AlignJustified, LineSpacing: 1.15, SpaceAfterPt: 6},
	}
}

// TierForLevel maps a heading level to its tier: level 1 is the title tier,
// level 2 the heading tier, and level 3 the subheading tier.
func TierForLevel(level int) TierName {
	switch level {
	case 1:
		return TierTitle
	case 2:
		return TierHeading
	default:
		return TierSubheading
	}
}

// StyledBlock is one renderable block in a StyledDocument. Exporters render
// blocks directly and make no structural decisions of their own.
type StyledBlock struct {
	// Kind is the block shape carried over from the TextUnit.
	Kind UnitKind `json:"kind" yaml:"kind"`

	// Text is the block content.
	Text string `json:"text" yaml:"text"`

	// Tier is the typographic tier to render with.
	Tier StyleTier `json:"tier" yaml:"tier"`
}

// StyledSection is a section resolved for export: heading styled by tier or
// explicit overrides, plus the ordered body blocks.
type StyledSection struct {
	// Heading is the section title.
	Heading string `json:"heading" yaml:"heading"`

	// Level is the resolved heading level.
	Level int `json:"level" yaml:"level"`

	// HeadingTier styles the heading text.
	HeadingTier StyleTier `json:"heading_tier" yaml:"heading_tier"`

	// Blocks holds the section body ready for direct rendering.
	Blocks []StyledBlock `json:"blocks" yaml:"blocks"`
}

// StyledDocument is the finalized structure handed to exporters.
type StyledDocument struct {
	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Slug names the output files.
	Slug string `json:"slug" yaml:"slug"`

	// TitleTier styles the article title.
	TitleTier StyleTier `json:"title_tier" yaml:"title_tier"`

	// Sections holds the resolved article body in order.
	Sections []StyledSection `json:"sections" yaml:"sections"`

	// Warnings carries through any soft quality annotations for the record.
	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}
