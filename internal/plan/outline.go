// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plan

import (
	"fmt"
	"math/rand"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/article-engine/pkg/types"
)

const (
	minSections = 5
	maxSections = 10

	// Word-count endpoints for scaling the section count.
	shortArticle = 700
	longArticle  = 3000

	minSectionWords = 120
)

// BuildOutline sizes an H2/H3 outline to the target word count. The number
// of body sections scales linearly from minSections at shortArticle words to
// maxSections at longArticle. Intro and conclusion each reserve 12% of the
// budget, floored at minSectionWords. The first third of body sections get a
// Key Takeaways H3 stub.
func BuildOutline(topic string, targetWords int) types.Outline {
	numBody := minSections
	switch {
	case targetWords <= shortArticle:
		numBody = minSections
	case targetWords >= longArticle:
		numBody = maxSections
	default:
		span := maxSections - minSections
		ratio := float64(targetWords-shortArticle) / float64(longArticle-shortArticle)
		numBody = minSections + int(ratio*float64(span))
	}

	introWords := max(minSectionWords, targetWords*12/100)
	conclusionWords := max(minSectionWords, targetWords*12/100)
	bodyWords := max(200, targetWords-introWords-conclusionWords)
	perSection := max(minSectionWords, bodyWords/numBody)

	titles := bodyTitles(topic)

	var out types.Outline
	out.Sections = append(out.Sections, types.OutlineSection{Level: 2, Title: "Introduction", TargetWords: introWords})
	for i := 0; i < numBody; i++ {
		out.Sections = append(out.Sections, types.OutlineSection{
			Level:       2,
			Title:       titles[i%len(titles)],
			TargetWords: perSection,
		})
	}
	out.Sections = append(out.Sections, types.OutlineSection{Level: 2, Title: "Conclusion", TargetWords: conclusionWords})

	// Key Takeaways stubs under the first third of body sections.
	stubs := max(1, numBody/3)
	inserted := 0
	for i := 1; i < len(out.Sections) && inserted < stubs; i++ {
		if out.Sections[i].Title == "Conclusion" {
			break
		}
		stub := types.OutlineSection{
			Level:       3,
			Title:       "Key Takeaways",
			TargetWords: max(80, perSection*35/100),
		}
		at := i + 1
		out.Sections = append(out.Sections[:at], append([]types.OutlineSection{stub}, out.Sections[at:]...)...)
		inserted++
		i++ // skip the stub just inserted
	}

	return out
}

func bodyTitles(topic string) []string {
	return []string{
		fmt.Sprintf("Understanding %s", topic),
		fmt.Sprintf("Key Benefits of %s", topic),
		"Core Concepts and Terminology",
		fmt.Sprintf("How to Get Started with %s", topic),
		fmt.Sprintf("Best Practices for %s", topic),
		"Common Pitfalls and How to Avoid Them",
		fmt.Sprintf("Tools and Resources for %s", topic),
		"Advanced Tips and Strategies",
		"Real-World Examples and Case Studies",
	}
}

// LoadOutline reads an outline override from a YAML file and validates it.
func LoadOutline(path string) (types.Outline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Outline{}, fmt.Errorf("reading outline: %w", err)
	}
	var out types.Outline
	if err := yaml.Unmarshal(data, &out); err != nil {
		return types.Outline{}, fmt.Errorf("parsing outline: %w", err)
	}
	if err := ValidateOutline(out); err != nil {
		return types.Outline{}, err
	}
	return out, nil
}

// ValidateOutline checks required fields. A missing title or an out-of-range
// level is fatal and names the offending field.
func ValidateOutline(out types.Outline) error {
	if len(out.Sections) == 0 {
		return &types.MalformedInputError{Field: "sections", Reason: "outline has no sections"}
	}
	for i, s := range out.Sections {
		if s.Title == "" {
			return &types.MalformedInputError{
				Field:  fmt.Sprintf("sections[%d].title", i),
				Reason: "section title is required",
			}
		}
		if s.Level < 1 || s.Level > 3 {
			return &types.MalformedInputError{
				Field:  fmt.Sprintf("sections[%d].level", i),
				Reason: fmt.Sprintf("heading level %d out of range 1-3", s.Level),
			}
		}
	}
	return nil
}

// BuildArticle turns an outline into a Planned article with a template
// stamped on every section.
func BuildArticle(title, topic, slug, audience string, targetWords int, polish bool, outline types.Outline, rng *rand.Rand) (*types.Article, error) {
	if err := ValidateOutline(outline); err != nil {
		return nil, err
	}

	planner := NewPlanner(DefaultCatalog(), DefaultWindow, rng)

	article := &types.Article{
		Title:       title,
		Topic:       topic,
		Slug:        slug,
		Audience:    audience,
		TargetWords: targetWords,
		Polish:      polish,
		State:       types.StatePlanned,
	}
	for _, s := range outline.Sections {
		tmpl := planner.Choose()
		article.Sections = append(article.Sections, &types.Section{
			Heading:     s.Title,
			Level:       s.Level,
			TemplateID:  tmpl.ID,
			TargetWords: s.TargetWords,
		})
	}
	return article, nil
}
