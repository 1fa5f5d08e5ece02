package markdown

import (
	"regexp"
	"strings"
)

var headingLine = regexp.MustCompile(`(?m)^#{1,6}\s+\S`)

// ValidationResult reports structural well-formedness problems found in raw
// markdown. Problems are warnings only: the pipeline always proceeds with
// best-effort processing.
type ValidationResult struct {
	Valid    bool
	Warnings []string
}

// Validate checks raw markdown for minimum structural well-formedness.
func Validate(raw string) ValidationResult {
	var warnings []string

	if strings.TrimSpace(raw) == "" {
		warnings = append(warnings, "document is empty")
	}
	if !headingLine.MatchString(raw) {
		warnings = append(warnings, "document contains no headings")
	}

	return ValidationResult{
		Valid:    len(warnings) == 0,
		Warnings: warnings,
	}
}
