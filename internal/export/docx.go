// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/pdiddy/article-engine/pkg/types"
)

// WriteDOCX renders the document as a Word file. Word sizes are
// half-points, so each tier's point size doubles on the way in.
func WriteDOCX(path string, doc *types.StyledDocument) error {
	w := docx.New().WithDefaultTheme()

	addStyled(w, doc.Title, doc.TitleTier)
	for _, sec := range doc.Sections {
		addStyled(w, sec.Heading, sec.HeadingTier)
		for _, block := range sec.Blocks {
			// One Word paragraph per line keeps list and table rows intact.
			for _, line := range strings.Split(strings.TrimSpace(block.Text), "\n") {
				addStyled(w, line, block.Tier)
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating docx file: %w", err)
	}
	defer f.Close()

	if _, err := w.WriteTo(f); err != nil {
		return fmt.Errorf("writing docx file: %w", err)
	}
	return nil
}

// addStyled writes one paragraph with the tier's run styling and
// alignment. The go-docx paragraph API carries no line-spacing or
// space-after properties, so the Body tier's LineSpacing and SpaceAfterPt
// apply only to PDF output.
func addStyled(w *docx.Docx, text string, tier types.StyleTier) {
	para := w.AddParagraph()
	run := para.AddText(text)
	run.Size(strconv.Itoa(int(tier.SizePt * 2)))
	if tier.Bold {
		run.Bold()
	}
	if tier.Italic {
		run.Italic()
	}
	switch tier.Align {
	case types.AlignCenter:
		para.Justification("center")
	case types.AlignJustified:
		para.Justification("both")
	}
}
