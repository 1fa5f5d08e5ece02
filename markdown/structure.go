package markdown

import (
	"fmt"
	"math"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/lakonic/pressroom/models"
	"github.com/lakonic/pressroom/slugs"
)

const (
	// wordsPerMinute is the fixed reading speed used for read-time
	// estimation.
	wordsPerMinute = 200

	// maxTOCLevel bounds which heading levels appear in the table of
	// contents.
	maxTOCLevel = 3

	// TOCSectionThreshold is the policy constant deciding when a document
	// is long enough to get a spliced-in table of contents: strictly more
	// sections than this.
	TOCSectionThreshold = 3
)

var gm = goldmark.New(goldmark.WithExtensions(extension.GFM))

// AnalyzeStructure computes the document structure of enhanced markdown:
// word count, estimated read time, the ordered section list, table of
// contents candidates, and content-feature flags. Malformed input yields
// zero counts and empty lists rather than an error.
func AnalyzeStructure(md string) models.DocumentStructure {
	source := []byte(md)
	doc := gm.Parser().Parse(text.NewReader(source))

	structure := models.DocumentStructure{}
	var words int

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			title := nodeText(node, source)
			structure.Sections = append(structure.Sections, models.Section{
				Title:  title,
				Level:  node.Level,
				Anchor: slugs.Slugify(title),
			})
		case *ast.Image:
			structure.HasImages = true
			structure.ImageCount++
		case *east.Table:
			structure.HasTables = true
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			structure.HasCode = true
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			words += len(strings.Fields(string(node.Segment.Value(source))))
		}
		return ast.WalkContinue, nil
	})

	structure.TotalWordCount = words
	structure.EstimatedReadTime = formatReadTime(words)

	if len(structure.Sections) > TOCSectionThreshold {
		for _, s := range structure.Sections {
			if s.Level <= maxTOCLevel {
				structure.TableOfContents = append(structure.TableOfContents, s)
			}
		}
	}

	return structure
}

// formatReadTime renders a word count as a display read time, using a
// 200 words-per-minute reading speed rounded up, minimum one minute.
func formatReadTime(words int) string {
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// nodeText collects the plain text of a node's inline children.
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := child.(*ast.Text); ok {
				b.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
