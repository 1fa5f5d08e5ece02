// Package datastore persists published content records, one table per
// content type, keyed by slug with insert-or-replace semantics.
package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/lakonic/pressroom/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ContentRepository handles database operations for published content
// across the three per-type tables. Column mappings come from the content
// type descriptors, so one repository serves all tables.
type ContentRepository struct {
	db *sql.DB
}

// NewContentRepository creates a new ContentRepository.
func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// Upsert writes a published record keyed by slug: an existing record for
// the same slug is replaced, never duplicated. When the full column set
// hits an unknown-column error the write is retried exactly once with the
// descriptor's minimal column set; the returned flag reports that the
// degraded write was used. A second unknown-column error is fatal.
func (r *ContentRepository) Upsert(ctx context.Context, desc models.Descriptor, record *models.PublishedRecord) (degraded bool, err error) {
	if record.Slug == "" {
		return false, fmt.Errorf("missing slug for upsert into %s", desc.Table)
	}

	query, args := buildUpsert(desc.Table, desc.FullRecord(record))
	if _, err = r.db.ExecContext(ctx, query, args...); err == nil {
		return false, nil
	}
	if !IsUnknownColumn(err) {
		return false, fmt.Errorf("failed to upsert %s record %q: %w", desc.Type, record.Slug, err)
	}

	// Schema fallback: the table is missing one or more of the enhanced
	// columns. Retry once with the fields every schema revision has.
	log.Printf("WARN (ContentRepository): %s schema rejected full record for %q (%v), retrying with minimal fields", desc.Table, record.Slug, err)
	query, args = buildUpsert(desc.Table, desc.MinimalRecord(record))
	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("minimal-record fallback failed for %s record %q: %w", desc.Type, record.Slug, err)
	}
	return true, nil
}

// buildUpsert renders an INSERT ... ON CONFLICT (slug) DO UPDATE statement
// for the given column map. Columns are sorted so generated SQL is
// deterministic, and identifiers are quoted because two of the historical
// schemas use camel-cased column names.
func buildUpsert(table string, record map[string]any) (string, []any) {
	cols := make([]string, 0, len(record))
	for col := range record {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	quoted := make([]string, len(cols))
	values := make([]any, len(cols))
	var updates []string
	for i, col := range cols {
		quoted[i] = pq.QuoteIdentifier(col)
		values[i] = record[col]
		if col != "slug" {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", quoted[i], quoted[i]))
		}
	}

	query, args, err := psql.Insert(table).
		Columns(quoted...).
		Values(values...).
		Suffix("ON CONFLICT (slug) DO UPDATE SET " + strings.Join(updates, ", ")).
		ToSql()
	if err != nil {
		// The builder only fails on an empty column set, which buildUpsert
		// is never called with.
		panic(fmt.Sprintf("datastore: failed to build upsert for %s: %v", table, err))
	}
	return query, args
}

// GetBySlug retrieves one published record. Returns sql.ErrNoRows (wrapped)
// when the slug is unknown.
func (r *ContentRepository) GetBySlug(ctx context.Context, desc models.Descriptor, slug string) (*models.PublishedRecord, error) {
	if slug == "" {
		return nil, fmt.Errorf("slug cannot be empty")
	}
	cols := columnsFor(desc)

	query, args, err := psql.Select(
		pq.QuoteIdentifier(cols.title),
		"slug",
		"content",
		"markdown_url",
		"docx_url",
		"excerpt",
		"readtime",
		pq.QuoteIdentifier(cols.author),
		pq.QuoteIdentifier(cols.authorDesc),
		pq.QuoteIdentifier(cols.authorProfileURL),
		pq.QuoteIdentifier(cols.category),
		"created_at",
	).From(desc.Table).Where(sq.Eq{"slug": slug}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s select: %w", desc.Table, err)
	}

	var rec models.PublishedRecord
	var readTime any
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(
		&rec.Title, &rec.Slug, &rec.Content, &rec.MarkdownURL, &rec.SourceDocumentURL,
		&rec.Excerpt, &readTime, &rec.Author, &rec.AuthorDesc, &rec.AuthorProfileURL,
		&rec.Category, &rec.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s %q not found: %w", desc.Type, slug, err)
		}
		return nil, fmt.Errorf("failed to get %s by slug: %w", desc.Type, err)
	}
	rec.ReadTime = normalizeReadTime(readTime)
	return &rec, nil
}

// List returns summaries for all published records of one type, newest
// first. A non-empty search filters case-insensitively on title, author,
// and category.
func (r *ContentRepository) List(ctx context.Context, desc models.Descriptor, search string) ([]models.ContentSummary, error) {
	cols := columnsFor(desc)

	builder := psql.Select(
		"slug",
		pq.QuoteIdentifier(cols.title),
		pq.QuoteIdentifier(cols.author),
		pq.QuoteIdentifier(cols.category),
		"excerpt",
		"readtime",
		"created_at",
	).From(desc.Table).OrderBy("created_at DESC")

	if search != "" {
		pattern := "%" + search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{pq.QuoteIdentifier(cols.title): pattern},
			sq.ILike{pq.QuoteIdentifier(cols.author): pattern},
			sq.ILike{pq.QuoteIdentifier(cols.category): pattern},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s list query: %w", desc.Table, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s list: %w", desc.Table, err)
	}
	defer rows.Close()

	summaries := []models.ContentSummary{}
	for rows.Next() {
		var s models.ContentSummary
		var readTime any
		var createdAt time.Time
		if err := rows.Scan(&s.Slug, &s.Title, &s.Author, &s.Category, &s.Excerpt, &readTime, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", desc.Table, err)
		}
		s.ReadTime = normalizeReadTime(readTime)
		s.CreatedAt = createdAt
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", desc.Table, err)
	}
	return summaries, nil
}

// Delete removes one published record. Returns sql.ErrNoRows (wrapped) when
// the slug is unknown; removal is a hard delete.
func (r *ContentRepository) Delete(ctx context.Context, desc models.Descriptor, slug string) error {
	if slug == "" {
		return fmt.Errorf("slug cannot be empty")
	}
	query, args, err := psql.Delete(desc.Table).Where(sq.Eq{"slug": slug}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s delete: %w", desc.Table, err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete %s record %q: %w", desc.Type, slug, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%s %q not found: %w", desc.Type, slug, sql.ErrNoRows)
	}
	return nil
}

// fieldColumns maps the canonical record fields onto one table's column
// names.
type fieldColumns struct {
	title            string
	author           string
	authorDesc       string
	authorProfileURL string
	category         string
}

func columnsFor(desc models.Descriptor) fieldColumns {
	switch desc.Type {
	case models.ContentTypeWhitepaper:
		return fieldColumns{"wpTitle", "wpAuthor", "wpAuthor_desc", "wpAuthor_profile_url", "wpCategory"}
	case models.ContentTypeCaseStudy:
		return fieldColumns{"cstitle", "csAuthor", "csauthor_desc", "csauthor_profile_url", "cscategory"}
	default:
		return fieldColumns{"title", "author", "author_desc", "author_profile_url", "category"}
	}
}

// normalizeReadTime renders the readtime column as display text regardless
// of the stored shape: blogs and whitepapers store "N min read", case
// studies store a bare integer minute count.
func normalizeReadTime(v any) string {
	switch rt := v.(type) {
	case nil:
		return ""
	case string:
		return rt
	case []byte:
		return string(rt)
	case int64:
		return fmt.Sprintf("%d min read", rt)
	default:
		return fmt.Sprint(rt)
	}
}
