package markdown

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/lakonic/pressroom/models"
)

func overridesFixture() models.ContentMetadata {
	return models.ContentMetadata{
		Title:    "Caller Title",
		Author:   "J. Doe",
		Category: "Security",
	}
}

func TestExtractMetadataCallerFieldsWin(t *testing.T) {
	md := "# Document Title\n\nBy Someone Else\n\nFirst paragraph of the body.\n"
	s := AnalyzeStructure(md)

	meta := ExtractMetadata(md, s, models.ContentMetadata{
		Title:      "Caller Title",
		Author:     "J. Doe",
		AuthorDesc: "CISO",
		Category:   "Security",
		Excerpt:    "Hand-written excerpt.",
	})

	assert.Equal(t, "Caller Title", meta.Title)
	assert.Equal(t, "J. Doe", meta.Author)
	assert.Equal(t, "CISO", meta.AuthorDesc)
	assert.Equal(t, "Security", meta.Category)
	assert.Equal(t, "Hand-written excerpt.", meta.Excerpt)
}

func TestExtractMetadataInfersMissingFields(t *testing.T) {
	md := "# Inferred Title\n\nBy Jane Smith\n\nMarch 4, 2025\n\nThe opening paragraph carries the document's own summary.\n"
	s := AnalyzeStructure(md)

	meta := ExtractMetadata(md, s, models.ContentMetadata{Category: "Security"})

	assert.Equal(t, "Inferred Title", meta.Title)
	assert.Equal(t, "Jane Smith", meta.Author)
	assert.Equal(t, "2025-03-04", meta.PublishedAt)
	assert.Contains(t, meta.Excerpt, "opening paragraph")
	assert.NotEmpty(t, meta.Stats)
}

func TestExcerptComesFromFirstMeaningfulParagraph(t *testing.T) {
	md := "# Title\n\n![logo](logo.png)\n\n> a pull quote\n\nActual body paragraph with **bold** text and a [link](https://example.com).\n"
	s := AnalyzeStructure(md)

	meta := ExtractMetadata(md, s, models.ContentMetadata{})

	assert.Contains(t, meta.Excerpt, "Actual body paragraph")
	assert.Contains(t, meta.Excerpt, "bold text")
	assert.NotContains(t, meta.Excerpt, "**")
	assert.NotContains(t, meta.Excerpt, "](")
}

func TestExcerptTruncatedAtWordBoundary(t *testing.T) {
	long := strings.Repeat("seventy ", 60)
	md := "# Title\n\n" + long + "\n"
	s := AnalyzeStructure(md)

	meta := ExtractMetadata(md, s, models.ContentMetadata{})

	assert.LessOrEqual(t, len(meta.Excerpt), excerptMaxLength+3)
	assert.True(t, strings.HasSuffix(meta.Excerpt, "seventy..."), "truncation must fall on a word boundary")
}

func TestExcerptTruncationKeepsValidUTF8(t *testing.T) {
	// A space-free multibyte paragraph forces the cut into the middle of
	// the text rather than onto a word boundary.
	md := "# Title\n\n" + strings.Repeat("日本語テキスト", 30) + "\n"
	s := AnalyzeStructure(md)

	meta := ExtractMetadata(md, s, models.ContentMetadata{})

	assert.True(t, utf8.ValidString(meta.Excerpt), "excerpt must never split a rune")
	assert.LessOrEqual(t, len(meta.Excerpt), excerptMaxLength+3)
	assert.True(t, strings.HasSuffix(meta.Excerpt, "..."))
}

func TestExtractMetadataDegradesOnEmptyDocument(t *testing.T) {
	s := AnalyzeStructure("")
	meta := ExtractMetadata("", s, models.ContentMetadata{})

	assert.Empty(t, meta.Title)
	assert.Empty(t, meta.Author)
	assert.Empty(t, meta.Excerpt)
}

func TestValidate(t *testing.T) {
	ok := Validate("# Heading\n\nbody\n")
	assert.True(t, ok.Valid)
	assert.Empty(t, ok.Warnings)

	bad := Validate("just a paragraph, no headings")
	assert.False(t, bad.Valid)
	assert.Contains(t, bad.Warnings, "document contains no headings")

	empty := Validate("   ")
	assert.False(t, empty.Valid)
	assert.Len(t, empty.Warnings, 2)
}
