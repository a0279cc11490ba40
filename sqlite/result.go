package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/schemacrawl"
)

// Compile-time interface verification.
var _ schemacrawl.ResultService = (*ResultService)(nil)

// ResultService implements schemacrawl.ResultService using SQLite.
type ResultService struct {
	db *DB
}

// NewResultService creates a new ResultService.
func NewResultService(db *DB) *ResultService {
	return &ResultService{db: db}
}

// SaveResult persists a result, replacing any existing result for the same
// URL. Content length and hash are derived from the serialized content.
func (s *ResultService) SaveResult(ctx context.Context, result *schemacrawl.CrawlResult) error {
	if err := result.Validate(); err != nil {
		return err
	}

	content, err := json.Marshal(result.Content)
	if err != nil {
		return fmt.Errorf("failed to encode content: %w", err)
	}
	metadata := result.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	result.ContentLength = len(content)
	result.ContentHash = fmt.Sprintf("%x", xxhash.Sum64(content))
	result.CrawledAt = time.Now().UTC()

	var schemaID any
	if result.SchemaID != "" {
		schemaID = result.SchemaID
	}

	return s.db.QueryRowContext(ctx, `
		INSERT INTO crawl_results (url, title, content, metadata, content_length, content_hash, schema_id, quality, crawled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			metadata = excluded.metadata,
			content_length = excluded.content_length,
			content_hash = excluded.content_hash,
			schema_id = excluded.schema_id,
			quality = excluded.quality,
			crawled_at = excluded.crawled_at
		RETURNING id
	`, result.URL, result.Title, string(content), string(meta), result.ContentLength,
		result.ContentHash, schemaID, result.Quality,
		result.CrawledAt.Format(time.RFC3339)).Scan(&result.ID)
}

// FindResultByURL retrieves the result for a URL.
func (s *ResultService) FindResultByURL(ctx context.Context, url string) (*schemacrawl.CrawlResult, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, title, content, metadata, content_length, content_hash, schema_id, quality, crawled_at
		FROM crawl_results
		WHERE url = ?
	`, url)

	result, err := scanResult(row.Scan)
	if err == sql.ErrNoRows {
		return nil, schemacrawl.Errorf(schemacrawl.ENOTFOUND, "result not found")
	}
	return result, err
}

// FindResults retrieves results matching the filter, most recently
// crawled first.
func (s *ResultService) FindResults(ctx context.Context, filter schemacrawl.ResultFilter) ([]*schemacrawl.CrawlResult, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT id, url, title, content, metadata, content_length, content_hash, schema_id, quality, crawled_at
		FROM crawl_results
		WHERE 1 = 1`)
	if v := filter.SchemaID; v != nil {
		query.WriteString(" AND schema_id = ?")
		args = append(args, *v)
	}
	query.WriteString(" ORDER BY crawled_at DESC, id DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*schemacrawl.CrawlResult
	for rows.Next() {
		result, err := scanResult(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// SearchResults performs full-text search over stored results, best
// matches first.
func (s *ResultService) SearchResults(ctx context.Context, query string, limit int) ([]*schemacrawl.CrawlResult, error) {
	if query == "" {
		return nil, schemacrawl.Errorf(schemacrawl.EINVALID, "search query required")
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.url, r.title, r.content, r.metadata, r.content_length, r.content_hash, r.schema_id, r.quality, r.crawled_at
		FROM crawl_results_fts f
		JOIN crawl_results r ON r.id = f.rowid
		WHERE crawl_results_fts MATCH ?
		ORDER BY bm25(crawl_results_fts)
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*schemacrawl.CrawlResult
	for rows.Next() {
		result, err := scanResult(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// scanResult scans one crawl_results row.
func scanResult(scan func(...any) error) (*schemacrawl.CrawlResult, error) {
	var result schemacrawl.CrawlResult
	var content, metadata, crawledAt string
	var schemaID sql.NullString

	if err := scan(&result.ID, &result.URL, &result.Title, &content, &metadata,
		&result.ContentLength, &result.ContentHash, &schemaID, &result.Quality,
		&crawledAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(content), &result.Content); err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}
	if err := json.Unmarshal([]byte(metadata), &result.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	result.SchemaID = schemaID.String

	var err error
	result.CrawledAt, err = parseRFC3339(crawledAt, "crawled_at")
	if err != nil {
		return nil, err
	}

	return &result, nil
}
