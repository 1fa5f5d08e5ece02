// Package markdown implements the enhancement pipeline applied to raw
// converted markdown before publication: validation, formatting
// normalization, structural analysis, table-of-contents synthesis, and
// metadata extraction. Every pass is pure and independently testable;
// malformed input degrades to empty results rather than aborting the
// publishing workflow.
package markdown

import (
	"log"

	"github.com/lakonic/pressroom/models"
)

// Result is the pipeline output, ready for publication.
type Result struct {
	Markdown  string
	Structure models.DocumentStructure
	Metadata  models.ContentMetadata
}

// Run executes the fixed pass sequence over raw markdown: validate
// (non-fatal), enhance, analyze structure, splice a table of contents for
// long documents, and extract metadata with the caller's overrides taking
// precedence.
func Run(raw string, overrides models.ContentMetadata) Result {
	validation := Validate(raw)
	if !validation.Valid {
		log.Printf("WARN (MarkdownPipeline): validation warnings: %v", validation.Warnings)
	}

	enhanced := Enhance(raw)
	structure := AnalyzeStructure(enhanced)

	if len(structure.Sections) > TOCSectionThreshold {
		enhanced = InjectTableOfContents(enhanced, structure)
	}

	metadata := ExtractMetadata(enhanced, structure, overrides)

	return Result{
		Markdown:  enhanced,
		Structure: structure,
		Metadata:  metadata,
	}
}
