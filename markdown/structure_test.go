package markdown

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `# The Zero Trust Playbook

An introduction paragraph with some words in it.

## Why Zero Trust

Because perimeters stopped working a decade ago.

## Architecture

![diagram](images/arch.png)

| Layer | Control |
|-------|---------|
| Edge  | mTLS    |

## Rollout

` + "```bash\nkubectl apply -f policy.yaml\n```" + `

## Closing Thoughts

Short closing paragraph.
`

func TestAnalyzeStructureSections(t *testing.T) {
	s := AnalyzeStructure(sampleDocument)

	require.Len(t, s.Sections, 5)
	assert.Equal(t, "The Zero Trust Playbook", s.Sections[0].Title)
	assert.Equal(t, 1, s.Sections[0].Level)
	assert.Equal(t, "why-zero-trust", s.Sections[1].Anchor)
}

func TestAnalyzeStructureContentFlags(t *testing.T) {
	s := AnalyzeStructure(sampleDocument)

	assert.True(t, s.HasImages)
	assert.Equal(t, 1, s.ImageCount)
	assert.True(t, s.HasTables)
	assert.True(t, s.HasCode)
	assert.Positive(t, s.TotalWordCount)
}

func TestAnalyzeStructureEmptyDocument(t *testing.T) {
	s := AnalyzeStructure("")

	assert.Zero(t, s.TotalWordCount)
	assert.Empty(t, s.Sections)
	assert.Empty(t, s.TableOfContents)
	assert.False(t, s.HasImages)
	assert.Equal(t, "1 min read", s.EstimatedReadTime)
}

func TestReadTimeIsCeilingOfWordCount(t *testing.T) {
	cases := []struct {
		words int
		want  string
	}{
		{0, "1 min read"},
		{1, "1 min read"},
		{200, "1 min read"},
		{201, "2 min read"},
		{799, "4 min read"},
		{800, "4 min read"},
		{801, "5 min read"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatReadTime(tc.words), "words=%d", tc.words)
	}
}

func TestReadTimeFromGeneratedDocument(t *testing.T) {
	var b strings.Builder
	b.WriteString("# Title\n\n")
	for i := 0; i < 450; i++ {
		b.WriteString("word ")
	}
	s := AnalyzeStructure(b.String())

	// 450 body words + heading text.
	assert.GreaterOrEqual(t, s.TotalWordCount, 450)
	assert.Equal(t, "3 min read", s.EstimatedReadTime)
}

func TestTableOfContentsPopulatedOnlyAboveThreshold(t *testing.T) {
	short := "# T\n\n## A\n\ntext\n\n## B\n\ntext\n"
	s := AnalyzeStructure(short)
	assert.Len(t, s.Sections, 3)
	assert.Empty(t, s.TableOfContents, "3 sections is not enough for a TOC")

	s = AnalyzeStructure(sampleDocument)
	assert.NotEmpty(t, s.TableOfContents)
}

func TestInjectTableOfContentsPlacement(t *testing.T) {
	s := AnalyzeStructure(sampleDocument)
	out := InjectTableOfContents(sampleDocument, s)

	// The TOC heading must appear immediately after the first top-level
	// heading line.
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 3)
	assert.Equal(t, "# The Zero Trust Playbook", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "## Table of Contents", lines[2])
	assert.Contains(t, out, "- [Why Zero Trust](#why-zero-trust)")
}

func TestInjectTableOfContentsSkipsFencedHeadings(t *testing.T) {
	md := "```sh\n# this is a shell comment\n```\n\n# Real Title\n\n## A\n\ntext\n\n## B\n\ntext\n\n## C\n\ntext\n\n## D\n\ntext\n"
	s := AnalyzeStructure(md)
	require.NotEmpty(t, s.TableOfContents)

	out := InjectTableOfContents(md, s)
	idx := strings.Index(out, "## Table of Contents")
	require.Greater(t, idx, 0)
	assert.Greater(t, idx, strings.Index(out, "# Real Title"),
		"the splice point is the real heading, not the fenced comment")
	assert.Contains(t, out, "# Real Title\n\n## Table of Contents")
}

func TestInjectTableOfContentsNoTopLevelHeading(t *testing.T) {
	md := "## Only Subheadings\n\ntext\n\n## More\n\ntext\n\n## Third\n\ntext\n\n## Fourth\n\ntext\n"
	s := AnalyzeStructure(md)
	assert.Equal(t, md, InjectTableOfContents(md, s))
}

func TestPipelineInjectsTOCOnlyWhenSectionsExceedThreshold(t *testing.T) {
	build := func(sections int) string {
		var b strings.Builder
		b.WriteString("# Doc Title\n\nintro\n")
		for i := 0; i < sections; i++ {
			fmt.Fprintf(&b, "\n## Section %d\n\nbody text\n", i)
		}
		return b.String()
	}

	// Title + 2 subsections = 3 sections: no TOC.
	res := Run(build(2), overridesFixture())
	assert.NotContains(t, res.Markdown, "## Table of Contents")

	// Title + 3 subsections = 4 sections: TOC spliced in.
	res = Run(build(3), overridesFixture())
	assert.Contains(t, res.Markdown, "## Table of Contents")
}
