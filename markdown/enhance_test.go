package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnhanceNormalizesHeadingMarkers(t *testing.T) {
	out := Enhance("##Overview\ntext\n")
	assert.Contains(t, out, "## Overview")
}

func TestEnhanceSeparatesHeadingsFromText(t *testing.T) {
	out := Enhance("# Title\nintro paragraph\n## Next\nmore text")
	assert.Equal(t, "# Title\n\nintro paragraph\n\n## Next\n\nmore text\n", out)
}

func TestEnhanceCollapsesBlankRuns(t *testing.T) {
	out := Enhance("para one\n\n\n\n\npara two\n")
	assert.Equal(t, "para one\n\npara two\n", out)
}

func TestEnhanceNormalizesLineEndings(t *testing.T) {
	out := Enhance("# Title\r\n\r\nbody\r\n")
	assert.NotContains(t, out, "\r")
}

func TestEnhanceTrimsTrailingWhitespace(t *testing.T) {
	out := Enhance("# Title   \n\nbody\t\n")
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, strings.TrimRight(line, " \t"), line)
	}
}

func TestEnhanceEmptyInput(t *testing.T) {
	assert.Equal(t, "", Enhance(""))
	assert.Equal(t, "", Enhance("   \n\n  \t\n"))
}

func TestEnhanceLeavesFencedCodeUntouched(t *testing.T) {
	in := "# Title\n\n```bash\n# install deps\nmake deps\n\n\nmake build\n```\n"
	out := Enhance(in)

	assert.Contains(t, out, "```bash\n# install deps\nmake deps\n\n\nmake build\n```",
		"fence interior must keep its comment spacing and blank runs")
	assert.NotContains(t, out, "\n\n# install deps\n\n", "code comments are not headings")
}

func TestEnhanceTildeFence(t *testing.T) {
	in := "para\n\n~~~\n#not a heading\n\n\nstill code\n~~~\n"
	out := Enhance(in)
	assert.Contains(t, out, "~~~\n#not a heading\n\n\nstill code\n~~~")
}

func TestEnhanceIdempotent(t *testing.T) {
	inputs := []string{
		"##Overview\ntext after heading\n#Title\n\n\n\nbody  \n",
		"# Clean Document\n\nAlready well formed.\n\n## Section\n\nBody text.\n",
		"no headings at all\njust text\n",
		"# A\nB\n# C\nD",
		"# Title\n\n```bash\n# install deps\n\n\nmake build\n```\n",
	}
	for _, in := range inputs {
		once := Enhance(in)
		twice := Enhance(once)
		assert.Equal(t, once, twice, "enhance should be a fixed point on its own output")
	}
}
