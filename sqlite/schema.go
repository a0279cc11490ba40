package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/schemacrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ schemacrawl.SchemaService = (*SchemaService)(nil)

// SchemaService implements schemacrawl.SchemaService using SQLite.
type SchemaService struct {
	db *DB
}

// NewSchemaService creates a new SchemaService.
func NewSchemaService(db *DB) *SchemaService {
	return &SchemaService{db: db}
}

// CreateSchema creates a schema, or updates the existing schema with the
// same name.
func (s *SchemaService) CreateSchema(ctx context.Context, schema *schemacrawl.ExtractionSchema) error {
	if err := schema.Validate(); err != nil {
		return err
	}

	patterns, err := json.Marshal(schema.Patterns)
	if err != nil {
		return fmt.Errorf("failed to encode patterns: %w", err)
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	// Upsert keyed by name: re-learning a schema for the same site
	// replaces the patterns but keeps the row identity and counters.
	var createdAt string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO extraction_schemas (id, name, description, base_url, patterns, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			description = excluded.description,
			base_url = excluded.base_url,
			patterns = excluded.patterns,
			updated_at = excluded.updated_at
		RETURNING id, usage_count, created_at
	`, id, schema.Name, schema.Description, schema.BaseURL, string(patterns),
		now.Format(time.RFC3339), now.Format(time.RFC3339)).
		Scan(&schema.ID, &schema.UsageCount, &createdAt)
	if err != nil {
		return err
	}

	schema.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return err
	}
	schema.UpdatedAt = now

	return nil
}

// FindSchemaByID retrieves a schema by ID.
func (s *SchemaService) FindSchemaByID(ctx context.Context, id string) (*schemacrawl.ExtractionSchema, error) {
	return s.findSchema(ctx, "id = ?", id)
}

// FindSchemaByName retrieves a schema by its unique name.
func (s *SchemaService) FindSchemaByName(ctx context.Context, name string) (*schemacrawl.ExtractionSchema, error) {
	return s.findSchema(ctx, "name = ?", name)
}

func (s *SchemaService) findSchema(ctx context.Context, where string, arg any) (*schemacrawl.ExtractionSchema, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, base_url, patterns, usage_count, last_used_at, created_at, updated_at
		FROM extraction_schemas
		WHERE `+where, arg)

	schema, err := scanSchema(row.Scan)
	if err == sql.ErrNoRows {
		return nil, schemacrawl.Errorf(schemacrawl.ENOTFOUND, "schema not found")
	}
	return schema, err
}

// FindSchemas retrieves schemas matching the filter.
func (s *SchemaService) FindSchemas(ctx context.Context, filter schemacrawl.SchemaFilter) ([]*schemacrawl.ExtractionSchema, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, name, description, base_url, patterns, usage_count, last_used_at, created_at, updated_at FROM extraction_schemas WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}
	if filter.BaseURL != nil {
		query.WriteString(" AND base_url = ?")
		args = append(args, *filter.BaseURL)
	}

	query.WriteString(" ORDER BY created_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schemas []*schemacrawl.ExtractionSchema
	for rows.Next() {
		schema, err := scanSchema(rows.Scan)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, schema)
	}

	return schemas, rows.Err()
}

// DeleteSchema permanently removes a schema.
func (s *SchemaService) DeleteSchema(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM extraction_schemas WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return schemacrawl.Errorf(schemacrawl.ENOTFOUND, "schema not found")
	}

	return nil
}

// RecordUsage records an extraction attempt. The usage count increment
// happens inside a single UPDATE, so concurrent successful attempts are
// serialized by the storage engine and never lose updates.
func (s *SchemaService) RecordUsage(ctx context.Context, id string, success bool) error {
	now := time.Now().UTC().Format(time.RFC3339)

	var result sql.Result
	var err error
	if success {
		result, err = s.db.ExecContext(ctx, `
			UPDATE extraction_schemas
			SET usage_count = usage_count + 1, last_used_at = ?
			WHERE id = ?
		`, now, id)
	} else {
		result, err = s.db.ExecContext(ctx, `
			UPDATE extraction_schemas
			SET last_used_at = ?
			WHERE id = ?
		`, now, id)
	}
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return schemacrawl.Errorf(schemacrawl.ENOTFOUND, "schema not found")
	}

	return nil
}

// scanSchema scans one extraction_schemas row.
func scanSchema(scan func(...any) error) (*schemacrawl.ExtractionSchema, error) {
	var schema schemacrawl.ExtractionSchema
	var patterns, lastUsedAt, createdAt, updatedAt string

	if err := scan(&schema.ID, &schema.Name, &schema.Description, &schema.BaseURL,
		&patterns, &schema.UsageCount, &lastUsedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(patterns), &schema.Patterns); err != nil {
		return nil, fmt.Errorf("failed to decode patterns: %w", err)
	}

	var err error
	if lastUsedAt != "" {
		schema.LastUsedAt, err = parseRFC3339(lastUsedAt, "last_used_at")
		if err != nil {
			return nil, err
		}
	}
	schema.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	schema.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at")
	if err != nil {
		return nil, err
	}

	return &schema, nil
}
