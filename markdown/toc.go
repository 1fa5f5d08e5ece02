package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lakonic/pressroom/models"
)

var topLevelHeadingLine = regexp.MustCompile(`^#\s+\S`)

// GenerateTableOfContents renders the TOC block for an analyzed document:
// a "Table of Contents" heading followed by an indented link list over the
// structure's TOC candidates.
func GenerateTableOfContents(structure models.DocumentStructure) string {
	var b strings.Builder
	b.WriteString("## Table of Contents\n\n")
	for _, s := range structure.TableOfContents {
		indent := strings.Repeat("  ", maxInt(s.Level-1, 0))
		fmt.Fprintf(&b, "%s- [%s](#%s)\n", indent, s.Title, s.Anchor)
	}
	return b.String()
}

// InjectTableOfContents splices the generated TOC immediately after the
// first top-level heading outside any fenced code block. Documents without
// a top-level heading are returned unchanged; there is no sensible splice
// point.
func InjectTableOfContents(md string, structure models.DocumentStructure) string {
	if len(structure.TableOfContents) == 0 {
		return md
	}

	splice := -1
	offset := 0
	inFence := false
	for _, line := range strings.SplitAfter(md, "\n") {
		if isFenceDelimiter(line) {
			inFence = !inFence
		} else if !inFence && topLevelHeadingLine.MatchString(line) {
			splice = offset + len(line)
			break
		}
		offset += len(line)
	}
	if splice < 0 {
		return md
	}

	toc := GenerateTableOfContents(structure)
	return md[:splice] + "\n" + toc + md[splice:]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
