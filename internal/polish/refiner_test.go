// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package polish

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/article-engine/internal/generate"
	"github.com/pdiddy/article-engine/pkg/types"
)

// fakeService rewrites by input text; unmapped inputs fail as unavailable.
type fakeService struct {
	rewrites map[string]string
	requests []generate.ParaphraseRequest
}

func (s *fakeService) Generate(context.Context, string, generate.Constraints) (string, error) {
	return "", fmt.Errorf("%w: not used", types.ErrServiceUnavailable)
}

func (s *fakeService) Paraphrase(_ context.Context, req generate.ParaphraseRequest) (string, error) {
	s.requests = append(s.requests, req)
	out, ok := s.rewrites[req.Text]
	if !ok {
		return "", fmt.Errorf("%w: no rewrite scripted", types.ErrServiceUnavailable)
	}
	return out, nil
}

func dedupArticle(sections ...*types.Section) *types.Article {
	return &types.Article{
		Title:    "Test Article",
		State:    types.StateDeduplicated,
		Polish:   true,
		Sections: sections,
	}
}

func para(text string, evidence ...types.EvidenceItem) types.TextUnit {
	return types.TextUnit{Kind: types.UnitParagraph, Text: text, Evidence: evidence}
}

func TestRefineRequiresDeduplicatedState(t *testing.T) {
	article := dedupArticle()
	article.State = types.StateDrafted
	r := &Refiner{Generator: &fakeService{}, Config: types.AllPolish()}

	err := r.Refine(context.Background(), article)
	if !types.IsMalformed(err) {
		t.Fatalf("err = %v, want malformed-input", err)
	}
}

func TestTierEnforcementIdempotent(t *testing.T) {
	article := dedupArticle(
		&types.Section{Heading: "Intro", Level: 1, Units: []types.TextUnit{para("Short body.")}},
		&types.Section{Heading: "Body", Level: 2, Units: []types.TextUnit{para("Short body.")}},
		&types.Section{Heading: "Sub", Level: 3, Units: []types.TextUnit{para("Short body.")}},
	)
	r := &Refiner{Generator: &fakeService{}, Config: types.PolishConfig{Tiers: true}}

	if err := r.Refine(context.Background(), article); err != nil {
		t.Fatalf("Refine: %v", err)
	}
	first := []types.TierName{article.Sections[0].Tier, article.Sections[1].Tier, article.Sections[2].Tier}
	want := []types.TierName{types.TierTitle, types.TierHeading, types.TierSubheading}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("tiers = %v, want %v", first, want)
	}

	if err := r.Refine(context.Background(), article); err != nil {
		t.Fatalf("second Refine: %v", err)
	}
	second := []types.TierName{article.Sections[0].Tier, article.Sections[1].Tier, article.Sections[2].Tier}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("tiers changed on re-polish: %v -> %v", first, second)
	}
	if article.State != types.StatePolished {
		t.Errorf("state = %q, want polished", article.State)
	}
}

func TestTakeawaysStatBeforeCase(t *testing.T) {
	body := strings.Repeat("Plenty of words to cross the synthesis threshold here. ", 20)
	sec := &types.Section{Heading: "Results", Level: 2, Units: []types.TextUnit{
		para(body,
			types.EvidenceItem{Kind: types.EvidenceCase, Span: "a mid-size retailer"},
			types.EvidenceItem{Kind: types.EvidenceStat, Span: "40% growth"},
		),
	}}
	article := dedupArticle(sec)
	r := &Refiner{Generator: &fakeService{}, Config: types.PolishConfig{Takeaways: true, TakeawayMinWords: 150}}

	if err := r.Refine(context.Background(), article); err != nil {
		t.Fatalf("Refine: %v", err)
	}

	last := sec.Units[len(sec.Units)-1]
	if last.Kind != types.UnitList || !strings.HasPrefix(last.Text, "Key Takeaways") {
		t.Fatalf("last unit = %+v, want Key Takeaways list", last)
	}
	statIdx := strings.Index(last.Text, "40% growth")
	caseIdx := strings.Index(last.Text, "a mid-size retailer")
	if statIdx < 0 || caseIdx < 0 {
		t.Fatalf("takeaways missing spans: %q", last.Text)
	}
	if statIdx > caseIdx {
		t.Errorf("stat should come before case:\n%s", last.Text)
	}

	// Re-polishing must not stack a second block.
	if err := r.Refine(context.Background(), article); err != nil {
		t.Fatalf("second Refine: %v", err)
	}
	count := 0
	for _, u := range sec.Units {
		if strings.HasPrefix(u.Text, "Key Takeaways") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("takeaway blocks = %d, want 1", count)
	}
}

func TestTakeawaysSkipsShortSections(t *testing.T) {
	sec := &types.Section{Heading: "Short", Level: 2, Units: []types.TextUnit{
		para("Just a few words.", types.EvidenceItem{Kind: types.EvidenceStat, Span: "40% growth"}),
	}}
	article := dedupArticle(sec)
	r := &Refiner{Generator: &fakeService{}, Config: types.PolishConfig{Takeaways: true, TakeawayMinWords: 150}}

	if err := r.Refine(context.Background(), article); err != nil {
		t.Fatalf("Refine: %v", err)
	}
	if len(sec.Units) != 1 {
		t.Errorf("short section gained a takeaway block: %+v", sec.Units)
	}
}

func TestTakeawaysCappedAtFive(t *testing.T) {
	body := strings.Repeat("Enough words to clear the takeaway length threshold easily. ", 20)
	unit := para(body)
	for i := 0; i < 8; i++ {
		unit.Evidence = append(unit.Evidence, types.EvidenceItem{
			Kind: types.EvidenceStat,
			Span: fmt.Sprintf("stat number %d", i),
		})
	}
	sec := &types.Section{Heading: "Stats", Level: 2, Units: []types.TextUnit{unit}}
	article := dedupArticle(sec)
	r := &Refiner{Generator: &fakeService{}, Config: types.PolishConfig{Takeaways: true}}

	if err := r.Refine(context.Background(), article); err != nil {
		t.Fatalf("Refine: %v", err)
	}
	last := sec.Units[len(sec.Units)-1]
	bullets := strings.Count(last.Text, "\n- ")
	if bullets != 5 {
		t.Errorf("bullet count = %d, want 5:\n%s", bullets, last.Text)
	}
}

func TestOpenerVarietyRewritesCollision(t *testing.T) {
	first := "The key point is that caching saves money. It compounds."
	second := "The key point is that latency matters more. It hurts."
	article := dedupArticle(
		&types.Section{Heading: "A", Level: 2, Units: []types.TextUnit{para(first)}},
		&types.Section{Heading: "B", Level: 2, Units: []types.TextUnit{para(second)}},
	)
	svc := &fakeService{rewrites: map[string]string{
		second: "Latency matters more than raw throughput. It hurts.",
	}}
	r := &Refiner{Generator: svc, Config: types.PolishConfig{OpenerVariety: true}}

	if err := r.Refine(context.Background(), article); err != nil {
		t.Fatalf("Refine: %v", err)
	}
	if got := article.Sections[0].Units[0].Text; got != first {
		t.Errorf("first section rewritten: %q", got)
	}
	if got := article.Sections[1].Units[0].Text; !strings.HasPrefix(got, "Latency matters") {
		t.Errorf("colliding opener not rewritten: %q", got)
	}
	if len(svc.requests) != 1 {
		t.Fatalf("paraphrase calls = %d, want 1", len(svc.requests))
	}
	if svc.requests[0].DivergenceHint == "" {
		t.Error("opener rewrite should carry a divergence hint")
	}
}

func TestOpenerVarietyKeepsTextOnFailure(t *testing.T) {
	text := "Every team needs observability. Every team needs tests."
	article := dedupArticle(
		&types.Section{Heading: "A", Level: 2, Units: []types.TextUnit{para(text)}},
		&types.Section{Heading: "B", Level: 2, Units: []types.TextUnit{para(text)}},
	)
	r := &Refiner{Generator: &fakeService{}, Config: types.PolishConfig{OpenerVariety: true}}

	if err := r.Refine(context.Background(), article); err != nil {
		t.Fatalf("Refine: %v", err)
	}
	if got := article.Sections[1].Units[0].Text; got != text {
		t.Errorf("failed rewrite should keep original, got %q", got)
	}
}

func TestMonotoneDetection(t *testing.T) {
	flat := "This is a flat sentence here. This is a flat sentence too. This is a flat sentence also. This is a flat sentence again."
	varied := "Short one. This sentence stretches on considerably longer than the one before it, adding many extra words. Tiny. Another long sentence follows with a completely different number of words inside it for contrast."

	if !monotone(flat) {
		t.Error("uniform sentence lengths should read as monotone")
	}
	if monotone(varied) {
		t.Error("varied sentence lengths should not read as monotone")
	}
	if monotone("Too short. Only two.") {
		t.Error("sections below the sentence minimum are never monotone")
	}
}

func TestCadenceRewriteReplacesParagraphs(t *testing.T) {
	flat := "This is a flat sentence here. This is a flat sentence too. This is a flat sentence also. This is a flat sentence again."
	sec := &types.Section{Heading: "Flat", Level: 2, Units: []types.TextUnit{para(flat)}}
	article := dedupArticle(sec)
	svc := &fakeService{rewrites: map[string]string{
		flat: "Short. This replacement sentence runs on much longer than its tiny neighbor ever could. Done.",
	}}
	r := &Refiner{Generator: svc, Config: types.PolishConfig{Cadence: true}}

	if err := r.Refine(context.Background(), article); err != nil {
		t.Fatalf("Refine: %v", err)
	}
	if got := sec.Units[0].Text; !strings.HasPrefix(got, "Short.") {
		t.Errorf("monotone section not rewritten: %q", got)
	}
}

func TestStructuralVariationBreaksProseRun(t *testing.T) {
	proseSec := func() *types.Section {
		return &types.Section{Heading: "P", Level: 2, Units: []types.TextUnit{
			para("First sentence of prose. Second sentence of prose. Third sentence of prose."),
		}}
	}
	article := dedupArticle(proseSec(), proseSec(), proseSec(), proseSec())
	r := &Refiner{Generator: &fakeService{}, Config: types.PolishConfig{StructuralVariation: true}}

	if err := r.Refine(context.Background(), article); err != nil {
		t.Fatalf("Refine: %v", err)
	}

	listCount := 0
	for _, sec := range article.Sections {
		for _, u := range sec.Units {
			if u.Kind == types.UnitList {
				listCount++
			}
		}
	}
	if listCount == 0 {
		t.Error("a run of pure-prose sections should gain at least one list block")
	}
	if article.Sections[0].Units[0].Kind != types.UnitParagraph {
		t.Error("sections before the run limit should stay prose")
	}
}

func TestSentenceLengthStats(t *testing.T) {
	sd, mean := sentenceLengthStats("One two three. One two three.")
	if mean != 3 {
		t.Errorf("mean = %v, want 3", mean)
	}
	if sd != 0 {
		t.Errorf("sd = %v, want 0 for identical lengths", sd)
	}

	sd, _ = sentenceLengthStats("One. One two three four five six seven eight nine.")
	if sd <= 0 {
		t.Errorf("sd = %v, want > 0 for varied lengths", sd)
	}
}
