package models

import "time"

// PublishedRecord is the final persisted entity, keyed by slug within its
// content type. Publishing an existing slug overwrites the previous record
// (upsert); there is no update path other than re-running the workflow.
type PublishedRecord struct {
	ID                string            `json:"id"`
	Slug              string            `json:"slug"`
	Title             string            `json:"title"`
	Content           string            `json:"content"`
	MarkdownURL       string            `json:"markdown_url"`
	SourceDocumentURL string            `json:"docx_url"`
	SourceFile        string            `json:"source_file"`
	Excerpt           string            `json:"excerpt"`
	ReadTime          string            `json:"readtime"`
	Author            string            `json:"author"`
	AuthorDesc        string            `json:"author_desc,omitempty"`
	AuthorProfileURL  string            `json:"author_profile_url,omitempty"`
	Category          string            `json:"category"`
	CreatedAt         time.Time         `json:"created_at"`
	WordCount         int               `json:"word_count"`
	HasImages         bool              `json:"has_images"`
	HasTables         bool              `json:"has_tables"`
	HasCode           bool              `json:"has_code"`
	ImageCount        int               `json:"image_count"`
	Structure         DocumentStructure `json:"document_structure"`
	MetaDescription   string            `json:"meta_description"`
	Stats             string            `json:"stats,omitempty"`
}

// ContentSummary is the listing projection used by the admin list views:
// everything except the full document body.
type ContentSummary struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Category  string    `json:"category"`
	Excerpt   string    `json:"excerpt"`
	ReadTime  string    `json:"readtime"`
	CreatedAt time.Time `json:"created_at"`
}
