// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan assigns a non-repeating structure template to each article
// section and builds the section outline from the target word count.
package plan

import (
	"math/rand"

	"github.com/pdiddy/article-engine/pkg/types"
)

// DefaultWindow is the no-repeat window: a template used for any of the
// last DefaultWindow sections is excluded from selection.
const DefaultWindow = 3

// DefaultCatalog returns the closed template catalog: opening pattern and
// body shape pairings curated so adjacent sections can always differ.
func DefaultCatalog() []types.TemplateDescriptor {
	return []types.TemplateDescriptor{
		{ID: "question-steps", Opening: types.OpenQuestion, Shape: types.ShapeSteps},
		{ID: "question-prose", Opening: types.OpenQuestion, Shape: types.ShapeProse},
		{ID: "statistic-prose", Opening: types.OpenStatistic, Shape: types.ShapeProse, Weight: 2},
		{ID: "statistic-table", Opening: types.OpenStatistic, Shape: types.ShapeTable},
		{ID: "narrative-prose", Opening: types.OpenNarrative, Shape: types.ShapeProse, Weight: 2},
		{ID: "narrative-proscons", Opening: types.OpenNarrative, Shape: types.ShapeProsCons},
		{ID: "definition-steps", Opening: types.OpenDefinition, Shape: types.ShapeSteps},
		{ID: "definition-prose", Opening: types.OpenDefinition, Shape: types.ShapeProse},
	}
}

// Planner chooses templates for consecutive sections without near-immediate
// repetition. It keeps the rolling history of assigned template IDs; the
// only side effect of Choose is appending to that history.
type Planner struct {
	catalog []types.TemplateDescriptor
	window  int
	history []string
	rng     *rand.Rand
}

// NewPlanner builds a planner over catalog with the given no-repeat window
// (values below DefaultWindow are raised to it). The rand source is injected
// so tests can be deterministic.
func NewPlanner(catalog []types.TemplateDescriptor, window int, rng *rand.Rand) *Planner {
	if len(catalog) == 0 {
		catalog = DefaultCatalog()
	}
	if window < DefaultWindow {
		window = DefaultWindow
	}
	return &Planner{catalog: catalog, window: window, rng: rng}
}

// History returns the assigned template IDs in order.
func (p *Planner) History() []string {
	return append([]string(nil), p.history...)
}

// Choose selects a template for the next section: weighted random over the
// catalog excluding anything used in the last window sections. If the
// exclusion empties the candidate set the window relaxes one step at a time,
// but never below 1, so the immediately preceding template can never repeat.
func (p *Planner) Choose() types.TemplateDescriptor {
	for window := p.window; window >= 1; window-- {
		candidates := p.candidates(window)
		if len(candidates) == 0 {
			continue
		}
		chosen := p.pickWeighted(candidates)
		p.history = append(p.history, chosen.ID)
		return chosen
	}

	// Single-template catalog: nothing else to pick.
	chosen := p.catalog[0]
	p.history = append(p.history, chosen.ID)
	return chosen
}

// candidates returns catalog entries not used within the last window picks.
func (p *Planner) candidates(window int) []types.TemplateDescriptor {
	recent := make(map[string]bool, window)
	start := len(p.history) - window
	if start < 0 {
		start = 0
	}
	for _, id := range p.history[start:] {
		recent[id] = true
	}

	var out []types.TemplateDescriptor
	for _, t := range p.catalog {
		if !recent[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

func (p *Planner) pickWeighted(candidates []types.TemplateDescriptor) types.TemplateDescriptor {
	total := 0
	for _, c := range candidates {
		total += weight(c)
	}
	n := p.rng.Intn(total)
	for _, c := range candidates {
		n -= weight(c)
		if n < 0 {
			return c
		}
	}
	return candidates[len(candidates)-1]
}

func weight(t types.TemplateDescriptor) int {
	if t.Weight <= 0 {
		return 1
	}
	return t.Weight
}

// TemplateByID looks a descriptor up in the catalog.
func TemplateByID(catalog []types.TemplateDescriptor, id string) (types.TemplateDescriptor, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return types.TemplateDescriptor{}, false
}
