// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"regexp"
	"strings"
)

var (
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSeparator = regexp.MustCompile(`[\s_-]+`)
)

// Slugify converts text to a lowercase hyphen-separated filename slug.
// Non-alphanumeric characters are dropped, whitespace runs collapse to a
// single hyphen.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = nonSlugChars.ReplaceAllString(s, "")
	s = slugSeparator.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
