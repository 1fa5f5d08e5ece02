package publishing

import (
	"context"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/lakonic/pressroom/conversion"
	"github.com/lakonic/pressroom/datastore"
	"github.com/lakonic/pressroom/markdown"
	"github.com/lakonic/pressroom/models"
	"github.com/lakonic/pressroom/slugs"
	"github.com/lakonic/pressroom/storage"
)

// metaDescriptionLimit bounds the meta_description column value.
const metaDescriptionLimit = 160

// Converter is the remote document-conversion capability the publish step
// depends on.
type Converter interface {
	Convert(ctx context.Context, bucket, path string, meta conversion.DocumentMetadata) (*conversion.ConversionResult, error)
	DownloadMarkdown(ctx context.Context, bucket, markdownPath string) (string, error)
}

// ContentStore is the datastore surface the publish step depends on.
type ContentStore interface {
	Upsert(ctx context.Context, desc models.Descriptor, record *models.PublishedRecord) (degraded bool, err error)
}

// PublishOutcome is the result of a successful publish run.
type PublishOutcome struct {
	Record *models.PublishedRecord
	// Degraded is true when the record was persisted through the
	// minimal-field schema fallback. Callers must surface this to the
	// operator; the degraded write drops the enhanced metadata columns.
	Degraded bool
}

// PublishCoordinator runs the publication half of the workflow: convert the
// staged document, enhance the markdown, persist the enhanced text and the
// content record.
type PublishCoordinator struct {
	store     storage.ObjectStore
	converter Converter
	repo      ContentStore
}

// NewPublishCoordinator creates a new PublishCoordinator.
func NewPublishCoordinator(store storage.ObjectStore, converter Converter, repo ContentStore) *PublishCoordinator {
	return &PublishCoordinator{store: store, converter: converter, repo: repo}
}

// Publish takes a staged upload through conversion, enhancement, and
// persistence. Every failure is classified; the caller decides how failure
// maps onto workflow state.
func (p *PublishCoordinator) Publish(ctx context.Context, desc models.Descriptor, draft models.ContentDraft, staged *models.StagedUpload) (*PublishOutcome, error) {
	slug := slugFor(draft)

	// Step 1: remote conversion of the staged document.
	converted, err := p.converter.Convert(ctx, staged.Bucket, staged.Path, conversion.DocumentMetadata{
		Slug:             slug,
		Title:            draft.Title,
		Author:           draft.Author,
		AuthorDesc:       draft.AuthorDesc,
		AuthorProfileURL: draft.AuthorProfileURL,
		Category:         draft.Category,
	})
	if err != nil {
		return nil, newError(KindConversionFailed, fmt.Sprintf("Processing failed: %v", err), err)
	}

	// Step 2: read back the raw markdown.
	rawMarkdown, err := p.converter.DownloadMarkdown(ctx, staged.Bucket, converted.MarkdownPath)
	if err != nil {
		return nil, newError(KindDownloadFailed, fmt.Sprintf("Failed to download markdown: %v", err), err)
	}

	// Steps 3-6: validate, enhance, analyze, extract.
	result := markdown.Run(rawMarkdown, models.ContentMetadata{
		Title:            draft.Title,
		Author:           draft.Author,
		AuthorDesc:       draft.AuthorDesc,
		AuthorProfileURL: draft.AuthorProfileURL,
		Category:         draft.Category,
	})

	// Step 7: publish the enhanced markdown next to the source document.
	markdownPath := fmt.Sprintf("%s/%s.md", slug, slug)
	err = p.store.Upload(ctx, staged.Bucket, markdownPath, []byte(result.Markdown), storage.UploadOptions{
		ContentType: "text/markdown",
		Overwrite:   true,
	})
	if err != nil {
		return nil, newError(KindUploadFailed, fmt.Sprintf("Failed to upload enhanced markdown: %v", err), err)
	}

	// Step 8: assemble and upsert the record.
	record := p.buildRecord(slug, staged, markdownPath, converted, result)
	degraded, err := p.repo.Upsert(ctx, desc, record)
	if err != nil {
		if datastore.IsUnknownColumn(err) {
			return nil, newError(KindSchemaMismatch,
				fmt.Sprintf("Failed to publish %s: schema rejected the minimal record: %v", desc.Type, err), err)
		}
		return nil, newError(KindPersistenceFailed, fmt.Sprintf("Failed to publish %s: %v", desc.Type, err), err)
	}
	if degraded {
		log.Printf("WARN (PublishCoordinator): %s %q persisted in degraded mode; enhanced metadata columns were dropped", desc.Type, slug)
	}

	log.Printf("INFO (PublishCoordinator): published %s %q (%d words, %s, %d images, %d sections)",
		desc.Type, slug, result.Structure.TotalWordCount, result.Structure.EstimatedReadTime,
		len(converted.Images), len(result.Structure.Sections))

	return &PublishOutcome{Record: record, Degraded: degraded}, nil
}

func (p *PublishCoordinator) buildRecord(slug string, staged *models.StagedUpload, markdownPath string, converted *conversion.ConversionResult, result markdown.Result) *models.PublishedRecord {
	return &models.PublishedRecord{
		ID:                uuid.NewString(),
		Slug:              slug,
		Title:             result.Metadata.Title,
		Content:           result.Markdown,
		MarkdownURL:       p.store.PublicURL(staged.Bucket, markdownPath),
		SourceDocumentURL: p.store.PublicURL(staged.Bucket, staged.Path),
		SourceFile:        staged.Path,
		Excerpt:           result.Metadata.Excerpt,
		ReadTime:          result.Structure.EstimatedReadTime,
		Author:            result.Metadata.Author,
		AuthorDesc:        result.Metadata.AuthorDesc,
		AuthorProfileURL:  result.Metadata.AuthorProfileURL,
		Category:          result.Metadata.Category,
		CreatedAt:         time.Now().UTC(),
		WordCount:         result.Structure.TotalWordCount,
		HasImages:         result.Structure.HasImages,
		HasTables:         result.Structure.HasTables,
		HasCode:           result.Structure.HasCode,
		ImageCount:        len(converted.Images),
		Structure:         result.Structure,
		MetaDescription:   truncate(result.Metadata.Excerpt, metaDescriptionLimit),
		Stats:             result.Metadata.Stats,
	}
}

func slugFor(draft models.ContentDraft) string {
	return slugs.Slugify(draft.Title)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Back up to a rune boundary so the cut never splits a multibyte rune.
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
