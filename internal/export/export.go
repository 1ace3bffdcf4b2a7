// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders a finalized article to the requested output
// formats. All structural and typographic decisions are made here, in the
// styled-document build; the per-format writers only render.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/article-engine/pkg/types"
)

const defaultOutputDir = "output"

// timestampLayout names output files slug_YYYYMMDD_HHMMSS.ext.
const timestampLayout = "20060102_150405"

// BuildStyledDocument resolves the article into renderable form. With
// polish enabled each section carries its stamped tier; without polish the
// export config's explicit font family and sizes apply. Only finalized
// articles may be exported.
func BuildStyledDocument(article *types.Article, cfg types.ExportConfig) (*types.StyledDocument, error) {
	if article.State != types.StateFinalized {
		return nil, &types.MalformedInputError{
			Field:  "article.state",
			Reason: fmt.Sprintf("export requires a finalized article, got %q", article.State),
		}
	}

	doc := &types.StyledDocument{
		Title:    article.Title,
		Slug:     article.Slug,
		Warnings: article.Warnings,
	}
	if doc.Slug == "" {
		doc.Slug = Slugify(article.Title)
	}

	tiers := types.DefaultTiers()
	doc.TitleTier = titleTier(article.Polish, cfg, tiers)
	bodyTier := resolveBodyTier(article.Polish, cfg, tiers)

	for _, sec := range article.Sections {
		styled := types.StyledSection{
			Heading:     sec.Heading,
			Level:       sec.Level,
			HeadingTier: headingTier(article.Polish, sec, cfg, tiers),
		}
		for _, u := range sec.Units {
			styled.Blocks = append(styled.Blocks, types.StyledBlock{
				Kind: u.Kind,
				Text: u.Text,
				Tier: bodyTier,
			})
		}
		doc.Sections = append(doc.Sections, styled)
	}
	return doc, nil
}

func titleTier(polish bool, cfg types.ExportConfig, tiers map[types.TierName]types.StyleTier) types.StyleTier {
	if polish {
		return tiers[types.TierTitle]
	}
	return types.StyleTier{
		Name:   types.TierTitle,
		Font:   fontFamily(cfg),
		SizePt: sizeOr(cfg.H1Size, 18),
		Bold:   true,
		Align:  types.AlignLeft,
	}
}

func headingTier(polish bool, sec *types.Section, cfg types.ExportConfig, tiers map[types.TierName]types.StyleTier) types.StyleTier {
	if polish {
		name := sec.Tier
		if name == "" {
			name = types.TierForLevel(sec.Level)
		}
		return tiers[name]
	}
	size := sizeOr(cfg.H2Size, 14)
	if sec.Level >= 3 {
		size = sizeOr(cfg.H3Size, 12)
	} else if sec.Level == 1 {
		size = sizeOr(cfg.H1Size, 18)
	}
	return types.StyleTier{
		Name:   types.TierForLevel(sec.Level),
		Font:   fontFamily(cfg),
		SizePt: size,
		Bold:   true,
		Align:  types.AlignLeft,
	}
}

func resolveBodyTier(polish bool, cfg types.ExportConfig, tiers map[types.TierName]types.StyleTier) types.StyleTier {
	if polish {
		return tiers[types.TierBody]
	}
	return types.StyleTier{
		Name:        types.TierBody,
		Font:        fontFamily(cfg),
		SizePt:      sizeOr(cfg.BaseFontSize, 11),
		Align:       types.AlignLeft,
		LineSpacing: 1.0,
	}
}

func fontFamily(cfg types.ExportConfig) string {
	if cfg.FontFamily != "" {
		return cfg.FontFamily
	}
	return "Open Sans"
}

func sizeOr(size, fallback float64) float64 {
	if size > 0 {
		return size
	}
	return fallback
}

// BuildFilename joins the output path for one export artifact.
func BuildFilename(outputDir, slug, timestamp, ext string) string {
	return filepath.Join(outputDir, fmt.Sprintf("%s_%s.%s", slug, timestamp, ext))
}

// WriteAll renders the document in the configured format (or every format)
// and returns the written file paths.
func WriteAll(doc *types.StyledDocument, cfg types.ExportConfig, now time.Time) ([]string, error) {
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = defaultOutputDir
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	format := cfg.Format
	if format == "" {
		format = types.FormatAll
	}
	timestamp := now.Format(timestampLayout)

	type writer struct {
		format types.ExportFormat
		ext    string
		write  func(path string, doc *types.StyledDocument) error
	}
	writers := []writer{
		{types.FormatTXT, "txt", WriteTXT},
		{types.FormatHTML, "html", WriteHTML},
		{types.FormatDOCX, "docx", WriteDOCX},
		{types.FormatPDF, "pdf", WritePDF},
	}

	var paths []string
	matched := false
	for _, w := range writers {
		if format != types.FormatAll && format != w.format {
			continue
		}
		matched = true
		path := BuildFilename(outputDir, doc.Slug, timestamp, w.ext)
		if err := w.write(path, doc); err != nil {
			return paths, fmt.Errorf("writing %s: %w", w.ext, err)
		}
		paths = append(paths, path)
	}
	if !matched {
		return nil, &types.MalformedInputError{
			Field:  "export.format",
			Reason: fmt.Sprintf("unknown format %q", format),
		}
	}
	return paths, nil
}
