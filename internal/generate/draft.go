// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pdiddy/article-engine/internal/plan"
	"github.com/pdiddy/article-engine/pkg/types"
)

var listLinePattern = regexp.MustCompile(`^(\-|\*|\d+[.)])\s`)

// classifyBlock infers a block's unit kind from its line shapes.
func classifyBlock(block string) types.UnitKind {
	lines := strings.Split(block, "\n")
	table, list, quote := 0, 0, 0
	total := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		total++
		switch {
		case strings.HasPrefix(trimmed, "|"):
			table++
		case strings.HasPrefix(trimmed, ">"):
			quote++
		case listLinePattern.MatchString(trimmed):
			list++
		}
	}
	switch {
	case total > 0 && table == total:
		return types.UnitTable
	case total > 0 && quote == total:
		return types.UnitQuote
	case total > 0 && list >= (total+1)/2:
		return types.UnitList
	default:
		return types.UnitParagraph
	}
}

// SplitUnits breaks generated section text into typed text units on blank
// lines.
func SplitUnits(text string) []types.TextUnit {
	var units []types.TextUnit
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		units = append(units, types.TextUnit{Kind: classifyBlock(block), Text: block})
	}
	return units
}

// DraftArticle generates content for every section of a Planned article and
// advances it to Drafted. Progress is reported per section on w. A failed
// section aborts drafting: an article with holes is worse than no article.
func DraftArticle(ctx context.Context, svc Service, article *types.Article, research types.ResearchData, w io.Writer) error {
	if article.State != types.StatePlanned {
		return &types.MalformedInputError{
			Field:  "article.state",
			Reason: fmt.Sprintf("drafting requires state %s, got %s", types.StatePlanned, article.State),
		}
	}

	catalog := plan.DefaultCatalog()
	for i, sec := range article.Sections {
		fmt.Fprintf(w, "writing section %d/%d: %s\n", i+1, len(article.Sections), sec.Heading)

		tmpl, ok := plan.TemplateByID(catalog, sec.TemplateID)
		if !ok {
			return &types.MalformedInputError{
				Field:  fmt.Sprintf("sections[%d].template_id", i),
				Reason: fmt.Sprintf("unknown template %q", sec.TemplateID),
			}
		}

		prompt, err := SectionPrompt(article, sec, tmpl, research)
		if err != nil {
			return err
		}

		text, err := svc.Generate(ctx, prompt, Constraints{TargetWords: sec.TargetWords})
		if err != nil {
			return fmt.Errorf("drafting section %q: %w", sec.Heading, err)
		}
		sec.Units = SplitUnits(text)
	}

	article.State = types.StateDrafted
	return nil
}
