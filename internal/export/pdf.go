// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/pdiddy/article-engine/pkg/types"
)

const pdfMarginPt = 72 // one inch

// WritePDF renders the document on US Letter pages with one-inch margins
// and a centered page-number footer.
func WritePDF(path string, doc *types.StyledDocument) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pdfMarginPt, pdfMarginPt, pdfMarginPt)
	pdf.SetAutoPageBreak(true, pdfMarginPt)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMarginPt / 2)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	writeBlock(pdf, doc.Title, doc.TitleTier, 12)
	for _, sec := range doc.Sections {
		writeBlock(pdf, sec.Heading, sec.HeadingTier, 6)
		for _, block := range sec.Blocks {
			writeBlock(pdf, block.Text, block.Tier, blockSpacing(block.Tier))
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing pdf file: %w", err)
	}
	return nil
}

func writeBlock(pdf *fpdf.Fpdf, text string, tier types.StyleTier, spaceAfter float64) {
	style := ""
	if tier.Bold {
		style += "B"
	}
	if tier.Italic {
		style += "I"
	}
	pdf.SetFont(coreFont(tier.Font), style, tier.SizePt)

	lineHeight := tier.SizePt * 1.3
	if tier.LineSpacing > 0 {
		lineHeight = tier.SizePt * tier.LineSpacing * 1.15
	}
	pdf.MultiCell(0, lineHeight, strings.TrimSpace(text), "", pdfAlign(tier.Align), false)
	pdf.Ln(spaceAfter)
}

func blockSpacing(tier types.StyleTier) float64 {
	if tier.SpaceAfterPt > 0 {
		return tier.SpaceAfterPt
	}
	return 6
}

// coreFont maps a configured family onto the built-in PDF core fonts;
// anything unrecognized falls back to Helvetica.
func coreFont(family string) string {
	switch {
	case strings.Contains(strings.ToLower(family), "times"):
		return "Times"
	case strings.Contains(strings.ToLower(family), "courier"):
		return "Courier"
	default:
		return "Helvetica"
	}
}

func pdfAlign(a types.Alignment) string {
	switch a {
	case types.AlignCenter:
		return "C"
	case types.AlignJustified:
		return "J"
	default:
		return "L"
	}
}
