// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OpeningPattern names how a section's first sentences are shaped.
type OpeningPattern string

const (
	OpenQuestion   OpeningPattern = "question"
	OpenStatistic  OpeningPattern = "statistic"
	OpenNarrative  OpeningPattern = "narrative"
	OpenDefinition OpeningPattern = "definition"
)

// BodyShape names the dominant block structure of a section body.
type BodyShape string

const (
	ShapeSteps    BodyShape = "steps"
	ShapeTable    BodyShape = "comparison-table"
	ShapeProse    BodyShape = "prose"
	ShapeProsCons BodyShape = "pros-cons"
)

// TemplateDescriptor pairs an opening pattern with a body shape. The planner
// draws from a closed catalog of descriptors and guarantees no descriptor
// repeats within a sliding window of recent sections.
type TemplateDescriptor struct {
	// ID uniquely names the template within the catalog.
	ID string `json:"id" yaml:"id"`

	// Opening is the pattern for the section's first sentences.
	Opening OpeningPattern `json:"opening" yaml:"opening"`

	// Shape is the dominant body structure.
	Shape BodyShape `json:"shape" yaml:"shape"`

	// Weight biases random selection; higher is more likely. Zero means 1.
	Weight int `json:"weight,omitempty" yaml:"weight,omitempty"`
}
