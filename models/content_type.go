package models

import (
	"encoding/json"
	"regexp"
	"strconv"
)

// ContentType identifies one of the three published content families.
type ContentType string

const (
	ContentTypeBlog       ContentType = "blog"
	ContentTypeWhitepaper ContentType = "whitepaper"
	ContentTypeCaseStudy  ContentType = "case-study"
)

// IsValidContentType validates an incoming content type string and returns
// the typed value when recognized.
func IsValidContentType(s string) (ContentType, bool) {
	switch ContentType(s) {
	case ContentTypeBlog, ContentTypeWhitepaper, ContentTypeCaseStudy:
		return ContentType(s), true
	}
	return "", false
}

// Descriptor parameterizes the generic publishing workflow for one content
// type: which bucket and table it writes to, which draft fields are
// required, and how a PublishedRecord maps onto the type's table columns.
//
// The three content types evolved their schemas independently, so the
// column mappings diverge (whitepapers use wpTitle/wpAuthor columns, case
// studies use lowercase cstitle/csauthor_desc and store read time as an
// integer minute count). The divergence lives here, in one place, instead
// of in three copies of the workflow.
type Descriptor struct {
	Type   ContentType
	Bucket string
	Table  string

	// PathPrefix namespaces the flat fallback upload path. Empty for blogs,
	// which historically used a bare "{slug}-{timestamp}" fallback.
	PathPrefix string

	// AllowOverwrite controls whether the source upload may replace an
	// existing object. Blogs disallow it, whitepapers and case studies
	// allow it. The asymmetry matches the production buckets.
	AllowOverwrite bool

	// AuthorRequired marks the author field mandatory at upload time.
	AuthorRequired bool

	// FullRecord and MinimalRecord are the two-tier column mappings used by
	// the datastore upsert. MinimalRecord is the degraded-write shape used
	// exactly once when the full record hits an unknown-column error.
	FullRecord    func(*PublishedRecord) map[string]any
	MinimalRecord func(*PublishedRecord) map[string]any
}

var readTimeDigits = regexp.MustCompile(`\d+`)

// readTimeMinutes extracts the integer minute count from a display read
// time such as "4 min read". Falls back to 1 on malformed input.
func readTimeMinutes(readTime string) int {
	if m := readTimeDigits.FindString(readTime); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return 1
}

// structureJSON serializes the analyzed document structure for the
// document_structure column. Serialization of this derived, immutable
// value cannot fail in practice; an error degrades to an empty object.
func structureJSON(s *DocumentStructure) string {
	b, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogDescriptor returns the workflow descriptor for blog posts.
func BlogDescriptor() Descriptor {
	return Descriptor{
		Type:           ContentTypeBlog,
		Bucket:         "blogs",
		Table:          "blogs",
		PathPrefix:     "",
		AllowOverwrite: false,
		AuthorRequired: true,
		FullRecord: func(r *PublishedRecord) map[string]any {
			return map[string]any{
				"title":              r.Title,
				"slug":               r.Slug,
				"content":            r.Content,
				"markdown_content":   r.Content,
				"markdown_url":       r.MarkdownURL,
				"docx_url":           r.SourceDocumentURL,
				"source_file":        r.SourceFile,
				"excerpt":            r.Excerpt,
				"readtime":           r.ReadTime,
				"author":             r.Author,
				"author_desc":        r.AuthorDesc,
				"author_profile_url": r.AuthorProfileURL,
				"category":           r.Category,
				"created_at":         r.CreatedAt,
				"word_count":         r.WordCount,
				"has_images":         r.HasImages,
				"has_tables":         r.HasTables,
				"has_code":           r.HasCode,
				"image_count":        r.ImageCount,
				"document_structure": structureJSON(&r.Structure),
				"meta_description":   r.MetaDescription,
				"stats":              r.Stats,
			}
		},
		MinimalRecord: func(r *PublishedRecord) map[string]any {
			return map[string]any{
				"title":              r.Title,
				"slug":               r.Slug,
				"content":            r.Content,
				"markdown_content":   r.Content,
				"markdown_url":       r.MarkdownURL,
				"docx_url":           r.SourceDocumentURL,
				"source_file":        r.SourceFile,
				"excerpt":            r.Excerpt,
				"readtime":           r.ReadTime,
				"author":             r.Author,
				"author_desc":        r.AuthorDesc,
				"author_profile_url": r.AuthorProfileURL,
				"category":           r.Category,
				"created_at":         r.CreatedAt,
			}
		},
	}
}

// WhitepaperDescriptor returns the workflow descriptor for whitepapers.
// The whitepapers table kept its original camel-cased column names.
func WhitepaperDescriptor() Descriptor {
	return Descriptor{
		Type:           ContentTypeWhitepaper,
		Bucket:         "whitepapers",
		Table:          "whitepapers",
		PathPrefix:     "wp",
		AllowOverwrite: true,
		AuthorRequired: true,
		FullRecord: func(r *PublishedRecord) map[string]any {
			return map[string]any{
				"wpTitle":              r.Title,
				"slug":                 r.Slug,
				"content":              r.Content,
				"markdown_content":     r.Content,
				"markdown_url":         r.MarkdownURL,
				"docx_url":             r.SourceDocumentURL,
				"source_file":          r.SourceFile,
				"excerpt":              r.Excerpt,
				"readtime":             r.ReadTime,
				"wpAuthor":             r.Author,
				"wpAuthor_desc":        r.AuthorDesc,
				"wpAuthor_profile_url": r.AuthorProfileURL,
				"wpCategory":           r.Category,
				"created_at":           r.CreatedAt,
				"word_count":           r.WordCount,
				"has_images":           r.HasImages,
				"has_tables":           r.HasTables,
				"has_code":             r.HasCode,
				"image_count":          r.ImageCount,
				"document_structure":   structureJSON(&r.Structure),
				"meta_description":     r.MetaDescription,
				"stats":                r.Stats,
			}
		},
		MinimalRecord: func(r *PublishedRecord) map[string]any {
			return map[string]any{
				"wpTitle":              r.Title,
				"slug":                 r.Slug,
				"content":              r.Content,
				"markdown_content":     r.Content,
				"markdown_url":         r.MarkdownURL,
				"docx_url":             r.SourceDocumentURL,
				"source_file":          r.SourceFile,
				"excerpt":              r.Excerpt,
				"readtime":             r.ReadTime,
				"wpAuthor":             r.Author,
				"wpAuthor_desc":        r.AuthorDesc,
				"wpAuthor_profile_url": r.AuthorProfileURL,
				"wpCategory":           r.Category,
				"created_at":           r.CreatedAt,
			}
		},
	}
}

// CaseStudyDescriptor returns the workflow descriptor for case studies.
// Note the bucket uses a hyphen while the table uses an underscore, the
// readtime column is an integer minute count, and a missing author is
// stored as "Anonymous".
func CaseStudyDescriptor() Descriptor {
	return Descriptor{
		Type:           ContentTypeCaseStudy,
		Bucket:         "case-studies",
		Table:          "case_studies",
		PathPrefix:     "cs",
		AllowOverwrite: true,
		AuthorRequired: false,
		FullRecord: func(r *PublishedRecord) map[string]any {
			return map[string]any{
				"cstitle":              r.Title,
				"slug":                 r.Slug,
				"content":              r.Content,
				"markdown_content":     r.Content,
				"markdown_url":         r.MarkdownURL,
				"docx_url":             r.SourceDocumentURL,
				"source_file":          r.SourceFile,
				"excerpt":              r.Excerpt,
				"readtime":             readTimeMinutes(r.ReadTime),
				"csAuthor":             caseStudyAuthor(r.Author),
				"csauthor_desc":        r.AuthorDesc,
				"csauthor_profile_url": r.AuthorProfileURL,
				"cscategory":           r.Category,
				"created_at":           r.CreatedAt,
				"word_count":           r.WordCount,
				"has_images":           r.HasImages,
				"has_tables":           r.HasTables,
				"has_code":             r.HasCode,
				"image_count":          r.ImageCount,
				"document_structure":   structureJSON(&r.Structure),
				"meta_description":     r.MetaDescription,
				"stats":                r.Stats,
			}
		},
		MinimalRecord: func(r *PublishedRecord) map[string]any {
			return map[string]any{
				"cstitle":    r.Title,
				"slug":       r.Slug,
				"content":    r.Content,
				"csAuthor":   caseStudyAuthor(r.Author),
				"readtime":   readTimeMinutes(r.ReadTime),
				"created_at": r.CreatedAt,
			}
		},
	}
}

func caseStudyAuthor(author string) string {
	if author == "" {
		return "Anonymous"
	}
	return author
}

// Descriptors returns the full set of workflow descriptors, keyed by type.
func Descriptors() map[ContentType]Descriptor {
	return map[ContentType]Descriptor{
		ContentTypeBlog:       BlogDescriptor(),
		ContentTypeWhitepaper: WhitepaperDescriptor(),
		ContentTypeCaseStudy:  CaseStudyDescriptor(),
	}
}
