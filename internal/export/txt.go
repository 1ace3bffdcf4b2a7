// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/article-engine/pkg/types"
)

// WriteTXT renders the document as plain text with heading-level prefixes.
func WriteTXT(path string, doc *types.StyledDocument) error {
	var b strings.Builder

	fmt.Fprintf(&b, "H1: %s\n\n", doc.Title)
	for _, sec := range doc.Sections {
		fmt.Fprintf(&b, "H%d: %s\n", headingLevel(sec.Level), sec.Heading)
		for _, block := range sec.Blocks {
			b.WriteString(strings.TrimSpace(block.Text))
			b.WriteString("\n\n")
		}
	}

	content := strings.TrimSpace(b.String()) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing text file: %w", err)
	}
	return nil
}

// headingLevel maps the article's internal levels onto output heading
// ranks: the title is H1, so level-1 sections render one rank down.
func headingLevel(level int) int {
	if level < 2 {
		return 2
	}
	if level > 3 {
		return 3
	}
	return level
}
