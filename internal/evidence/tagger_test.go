// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evidence

import (
	"testing"

	"github.com/pdiddy/article-engine/pkg/types"
)

func TestTag(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantKind types.EvidenceKind
		wantOK   bool
	}{
		{
			name:     "percent is a stat",
			line:     "Sales grew by 40% last year.",
			wantKind: types.EvidenceStat,
			wantOK:   true,
		},
		{
			name:     "numeral with unit is a stat",
			line:     "The service handles 3 million users every month.",
			wantKind: types.EvidenceStat,
			wantOK:   true,
		},
		{
			name:     "attributed quotation",
			line:     `According to the report, "automation pays for itself".`,
			wantKind: types.EvidenceQuote,
			wantOK:   true,
		},
		{
			name:   "quotation without attribution is untagged",
			line:   `The phrase "technical debt" gets overused.`,
			wantOK: false,
		},
		{
			name:     "narrative with outcome is a case",
			line:     "A mid-size retailer reduced onboarding time within a quarter.",
			wantKind: types.EvidenceCase,
			wantOK:   true,
		},
		{
			name:   "narrative without outcome is untagged",
			line:   "A company can approach this in several ways.",
			wantOK: false,
		},
		{
			name:     "tool token",
			line:     "Teams often start with Trello before moving on.",
			wantKind: types.EvidenceTool,
			wantOK:   true,
		},
		{
			name:   "plain prose is untagged",
			line:   "Planning ahead makes the whole process smoother.",
			wantOK: false,
		},
		{
			name:   "blank line",
			line:   "   ",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, ok := Tag(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("Tag(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if ok && item.Kind != tt.wantKind {
				t.Errorf("Tag(%q) kind = %s, want %s", tt.line, item.Kind, tt.wantKind)
			}
		})
	}
}

// Priority order is stat > quote > case > tool; a line matching several
// rules takes only the highest.
func TestTagPriorityOrder(t *testing.T) {
	line := `A company achieved 40% growth using Slack, and "it just worked", the CTO said.`
	item, ok := Tag(line)
	if !ok {
		t.Fatal("expected a tag")
	}
	if item.Kind != types.EvidenceStat {
		t.Errorf("kind = %s, want stat", item.Kind)
	}
}

func TestTagIsDeterministic(t *testing.T) {
	line := "A startup doubled revenue using Figma across 3 teams."
	first, _ := Tag(line)
	for n := 0; n < 10; n++ {
		item, _ := Tag(line)
		if item.Kind != first.Kind || item.Span != first.Span {
			t.Fatalf("Tag is not deterministic: %+v vs %+v", item, first)
		}
	}
}

func TestTagSectionDensity(t *testing.T) {
	sec := &types.Section{
		Heading: "Results",
		Level:   2,
		Units: []types.TextUnit{
			{Kind: types.UnitParagraph, Text: "Revenue rose 12% in Q3.\nThe team was pleased."},
			{Kind: types.UnitParagraph, Text: "Nothing factual here."},
		},
	}

	TagSection(sec)

	if len(sec.Units[0].Evidence) != 1 {
		t.Fatalf("unit 0 evidence = %d, want 1", len(sec.Units[0].Evidence))
	}
	// 1 tagged line out of 3 scanned.
	want := 1.0 / 3.0
	if diff := sec.EvidenceDensity - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("EvidenceDensity = %v, want %v", sec.EvidenceDensity, want)
	}
}

func TestTagUnitAtMostOneTagPerLine(t *testing.T) {
	unit := &types.TextUnit{
		Kind: types.UnitParagraph,
		Text: "Using GitHub, a team cut review time by 30%.",
	}
	TagUnit(unit)
	if len(unit.Evidence) != 1 {
		t.Errorf("evidence count = %d, want 1 (one tag per line)", len(unit.Evidence))
	}
}
