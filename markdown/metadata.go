package markdown

import (
	"bytes"
	"fmt"
	"log"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/jaytaylor/html2text"
	"github.com/yuin/goldmark"

	"github.com/lakonic/pressroom/models"
)

const (
	// excerptMaxLength bounds the inferred excerpt so it doubles as a meta
	// description.
	excerptMaxLength = 160

	// inferenceWindow is how many leading non-blank lines are scanned for
	// author and date lines.
	inferenceWindow = 10

	// maxDateLineLength keeps the date sniffer away from prose lines that
	// merely contain a date.
	maxDateLineLength = 40
)

var (
	authorByLine = regexp.MustCompile(`(?i)^(?:by|author:)\s+(.{2,80})$`)
	markupLine   = regexp.MustCompile(`^[#>\-*!\x60|]`)
)

// ExtractMetadata produces the descriptive metadata for a document. Any
// non-empty caller-supplied field is taken unchanged; empty fields are
// inferred from the document body (title from the first heading, author
// from a leading by-line, excerpt from the first meaningful paragraph, a
// publication date from a leading date line).
func ExtractMetadata(md string, structure models.DocumentStructure, overrides models.ContentMetadata) models.ContentMetadata {
	meta := overrides

	if meta.Title == "" {
		meta.Title = inferTitle(structure)
	}
	if meta.Author == "" {
		meta.Author = inferAuthor(md)
	}
	if meta.Excerpt == "" {
		meta.Excerpt = inferExcerpt(md)
	}
	if meta.PublishedAt == "" {
		meta.PublishedAt = inferPublishedDate(md)
	}
	if meta.Stats == "" {
		meta.Stats = documentStats(structure)
	}

	return meta
}

func inferTitle(structure models.DocumentStructure) string {
	for _, s := range structure.Sections {
		if s.Level == 1 {
			return s.Title
		}
	}
	if len(structure.Sections) > 0 {
		return structure.Sections[0].Title
	}
	return ""
}

func inferAuthor(md string) string {
	for _, line := range leadingLines(md) {
		if m := authorByLine.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// inferExcerpt takes the first meaningful paragraph of body text, rendered
// down to plain text and truncated at a word boundary.
func inferExcerpt(md string) string {
	for _, block := range strings.Split(md, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" || markupLine.MatchString(block) {
			continue
		}
		// By-lines and bare date lines are metadata, not body text.
		if authorByLine.MatchString(block) {
			continue
		}
		if len(block) <= maxDateLineLength {
			if _, err := dateparse.ParseAny(block); err == nil {
				continue
			}
		}
		plain, err := plainText(block)
		if err != nil {
			log.Printf("WARN (MarkdownPipeline): excerpt plain-texting failed: %v", err)
			plain = block
		}
		plain = strings.Join(strings.Fields(plain), " ")
		if plain == "" {
			continue
		}
		return truncateAtWord(plain, excerptMaxLength)
	}
	return ""
}

// plainText renders a markdown snippet to HTML and strips the markup back
// out, which resolves emphasis, links, and entities in one pass.
func plainText(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return html2text.FromString(buf.String(), html2text.Options{TextOnly: true})
}

func inferPublishedDate(md string) string {
	for _, line := range leadingLines(md) {
		if len(line) > maxDateLineLength || markupLine.MatchString(line) {
			continue
		}
		if t, err := dateparse.ParseAny(line); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

func documentStats(structure models.DocumentStructure) string {
	stats := fmt.Sprintf("%d words, %d sections", structure.TotalWordCount, len(structure.Sections))
	if structure.ImageCount > 0 {
		stats += fmt.Sprintf(", %d images", structure.ImageCount)
	}
	return stats
}

// leadingLines returns the first few non-blank lines of a document, with
// headings skipped, as candidates for by-line and date inference.
func leadingLines(md string) []string {
	var lines []string
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
		if len(lines) >= inferenceWindow {
			break
		}
	}
	return lines
}

func truncateAtWord(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Never split a multibyte rune at the cut point.
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	cut := s[:max]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
