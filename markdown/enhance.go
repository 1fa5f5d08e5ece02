package markdown

import (
	"regexp"
	"strings"
)

var (
	headingMarker   = regexp.MustCompile(`^(#{1,6})([^#\s].*)$`)
	headingAnyLevel = regexp.MustCompile(`^#{1,6}\s`)
)

// isFenceDelimiter reports whether the line opens or closes a fenced code
// block. GFM allows up to three spaces of indentation before the fence.
func isFenceDelimiter(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return false
	}
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

// Enhance applies formatting normalization to markdown: consistent line
// endings, a space after heading markers, blank lines around headings,
// collapsed blank-line runs, and trimmed trailing whitespace. Fenced code
// blocks pass through verbatim; their interior is code, not prose. Enhance
// is idempotent: running it on its own output yields no further change.
func Enhance(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var out []string
	inFence := false
	for _, line := range strings.Split(s, "\n") {
		if isFenceDelimiter(line) {
			opening := !inFence
			inFence = !inFence
			if opening && len(out) > 0 && out[len(out)-1] != "" && headingAnyLevel.MatchString(out[len(out)-1]) {
				out = append(out, "")
			}
			out = append(out, strings.TrimRight(line, " \t"))
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}

		line = strings.TrimRight(line, " \t")
		line = headingMarker.ReplaceAllString(line, "$1 $2")

		if line == "" {
			// Collapse blank runs and drop leading blanks.
			if len(out) == 0 || out[len(out)-1] == "" {
				continue
			}
			out = append(out, "")
			continue
		}

		if len(out) > 0 && out[len(out)-1] != "" {
			// Separate headings from surrounding text in both directions.
			if headingAnyLevel.MatchString(line) || headingAnyLevel.MatchString(out[len(out)-1]) {
				out = append(out, "")
			}
		}
		out = append(out, line)
	}

	// Drop trailing blank lines, keep a single final newline.
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n") + "\n"
}
