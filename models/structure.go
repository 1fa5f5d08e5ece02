package models

// Section is one heading entry discovered during structural analysis.
type Section struct {
	Title  string `json:"title"`
	Level  int    `json:"level"`
	Anchor string `json:"anchor"`
}

// DocumentStructure is the output of the structural-analysis pass. It is
// derived from the enhanced markdown and immutable once computed; both the
// table-of-contents splice and the published record consume it.
type DocumentStructure struct {
	TotalWordCount    int       `json:"totalWordCount"`
	EstimatedReadTime string    `json:"estimatedReadTime"`
	Sections          []Section `json:"sections"`
	TableOfContents   []Section `json:"tableOfContents"`
	HasImages         bool      `json:"hasImages"`
	HasTables         bool      `json:"hasTables"`
	HasCode           bool      `json:"hasCode"`
	ImageCount        int       `json:"imageCount"`
}

// ContentMetadata carries the descriptive fields attached to a published
// document. Caller-supplied non-empty fields always take precedence over
// values inferred from the document body.
type ContentMetadata struct {
	Title            string `json:"title"`
	Author           string `json:"author"`
	AuthorDesc       string `json:"author_desc"`
	AuthorProfileURL string `json:"author_profile_url"`
	Category         string `json:"category"`
	Excerpt          string `json:"excerpt"`
	PublishedAt      string `json:"published_at,omitempty"`
	Stats            string `json:"stats,omitempty"`
}
