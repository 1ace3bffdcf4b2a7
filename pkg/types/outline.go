// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OutlineSection describes one planned section before drafting.
type OutlineSection struct {
	// Level is the heading level: 2 for main sections, 3 for subsections.
	Level int `json:"level" yaml:"level"`

	// Title is the section heading.
	Title string `json:"title" yaml:"title"`

	// TargetWords is the word budget allocated to the section.
	TargetWords int `json:"target_words" yaml:"target_words"`
}

// Outline holds the planned article structure, either built heuristically
// from the topic and word count or loaded from an outline.yaml override.
type Outline struct {
	// Sections lists the planned sections in order.
	Sections []OutlineSection `json:"sections" yaml:"sections"`
}
