// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/pdiddy/article-engine/pkg/types"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// WriteHTML renders the document as a standalone HTML page: the body is
// assembled as markdown and converted, wrapped in a minimal shell that
// carries the title tier's font family.
func WriteHTML(path string, doc *types.StyledDocument) error {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(ToMarkdown(doc)), &body); err != nil {
		return fmt.Errorf("converting markdown: %w", err)
	}

	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n", html.EscapeString(doc.Title))
	fmt.Fprintf(&page, "<style>body { font-family: %q; max-width: 48rem; margin: 2rem auto; }</style>\n", doc.TitleTier.Font)
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")

	if err := os.WriteFile(path, page.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing html file: %w", err)
	}
	return nil
}

// ToMarkdown flattens the document into markdown. Lists, quotes, and
// tables keep their unit text verbatim since drafting already emits them
// in markdown shape; paragraphs pass through unchanged.
func ToMarkdown(doc *types.StyledDocument) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	for _, sec := range doc.Sections {
		fmt.Fprintf(&b, "%s %s\n\n", strings.Repeat("#", headingLevel(sec.Level)), sec.Heading)
		for _, block := range sec.Blocks {
			text := strings.TrimSpace(block.Text)
			if block.Kind == types.UnitQuote && !strings.HasPrefix(text, ">") {
				text = "> " + strings.ReplaceAll(text, "\n", "\n> ")
			}
			b.WriteString(text)
			b.WriteString("\n\n")
		}
	}
	return strings.TrimSpace(b.String()) + "\n"
}
