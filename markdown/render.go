package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
)

var previewPolicy = bluemonday.UGCPolicy()

// RenderHTML converts markdown to sanitized HTML for the admin preview.
// The sanitization policy matches what the public site tolerates from
// user-generated content.
func RenderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := gm.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return previewPolicy.Sanitize(buf.String()), nil
}
