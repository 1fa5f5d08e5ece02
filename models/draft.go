package models

import (
	"fmt"
	"strings"
)

// acceptedSourceExtension is the only source document format the conversion
// function understands.
const acceptedSourceExtension = ".docx"

// ContentDraft is the caller-owned input to the publishing workflow. It is
// never persisted directly; it is discarded on successful publish or
// explicit reset.
type ContentDraft struct {
	Title            string      `json:"title"`
	Author           string      `json:"author,omitempty"`
	AuthorDesc       string      `json:"author_desc,omitempty"`
	AuthorProfileURL string      `json:"author_profile_url,omitempty"`
	Category         string      `json:"category"`
	ContentType      ContentType `json:"content_type"`

	// Source document, held in memory for the duration of the upload.
	FileName string `json:"file_name"`
	FileData []byte `json:"-"`
}

// Validate enforces the per-type required fields before any storage I/O:
// title and category always, author when the descriptor demands it, and a
// non-empty .docx file.
func (d *ContentDraft) Validate(desc Descriptor) error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(d.Category) == "" {
		return fmt.Errorf("category is required")
	}
	if desc.AuthorRequired && strings.TrimSpace(d.Author) == "" {
		return fmt.Errorf("author is required for %s content", desc.Type)
	}
	if len(d.FileData) == 0 {
		return fmt.Errorf("a source document file is required")
	}
	if !strings.HasSuffix(strings.ToLower(d.FileName), acceptedSourceExtension) {
		return fmt.Errorf("unsupported file type %q: only Word documents (%s) are accepted", d.FileName, acceptedSourceExtension)
	}
	return nil
}

// StagedUpload describes a source document placed into blob storage but not
// yet converted or published. It is owned by the upload step until the
// conversion step consumes it; a fallback-path retry supersedes the value
// rather than mutating it.
type StagedUpload struct {
	Bucket      string `json:"bucket"`
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
}
