// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package polish

import (
	"sort"
	"strings"

	"github.com/pdiddy/article-engine/pkg/types"
)

const (
	takeawayHeading         = "Key Takeaways"
	maxTakeawayBullets      = 5
	defaultTakeawayMinWords = 150
)

// takeawayRank orders evidence kinds for summarization. Statistics carry
// the most summary value, then concrete cases, then quotes, then tool
// mentions. This differs from the tagging precedence, which resolves
// which single tag a line gets.
var takeawayRank = map[types.EvidenceKind]int{
	types.EvidenceStat:  0,
	types.EvidenceCase:  1,
	types.EvidenceQuote: 2,
	types.EvidenceTool:  3,
}

// synthesizeTakeaways appends a Key Takeaways bullet block to every section
// whose body exceeds minWords, built from the section's highest-ranked
// evidence spans. Sections that already carry a takeaway block are left
// untouched, so the pass can run again without stacking blocks.
func synthesizeTakeaways(article *types.Article, minWords int) {
	if minWords <= 0 {
		minWords = defaultTakeawayMinWords
	}
	for _, sec := range article.Sections {
		if hasTakeawayBlock(sec) {
			continue
		}
		if len(wordPattern.FindAllString(sec.Text(), -1)) < minWords {
			continue
		}
		bullets := takeawayBullets(sec)
		if len(bullets) == 0 {
			continue
		}
		sec.Units = append(sec.Units, types.TextUnit{
			Kind: types.UnitList,
			Text: takeawayHeading + "\n- " + strings.Join(bullets, "\n- "),
		})
	}
}

func hasTakeawayBlock(sec *types.Section) bool {
	for _, u := range sec.Units {
		if u.Kind == types.UnitList && strings.HasPrefix(u.Text, takeawayHeading) {
			return true
		}
	}
	return false
}

// takeawayBullets collects the section's evidence spans ranked by kind,
// preserving document order within a kind, capped at five bullets.
func takeawayBullets(sec *types.Section) []string {
	type ranked struct {
		rank  int
		order int
		span  string
	}
	var items []ranked
	seen := make(map[string]bool)
	order := 0
	for _, u := range sec.Units {
		for _, ev := range u.Evidence {
			span := strings.TrimSpace(ev.Span)
			if span == "" || seen[span] {
				continue
			}
			seen[span] = true
			items = append(items, ranked{rank: takeawayRank[ev.Kind], order: order, span: span})
			order++
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].rank != items[j].rank {
			return items[i].rank < items[j].rank
		}
		return items[i].order < items[j].order
	})
	if len(items) > maxTakeawayBullets {
		items = items[:maxTakeawayBullets]
	}
	bullets := make([]string, 0, len(items))
	for _, it := range items {
		bullets = append(bullets, it.span)
	}
	return bullets
}
