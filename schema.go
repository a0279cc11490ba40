package schemacrawl

import (
	"context"
	"time"
)

// ExtractionSchema is a stored, reusable definition of where to find each
// data field on a structurally similar page. Schemas are created by the LLM
// discovery path and read-mostly thereafter; only the usage counters are
// mutated, and only through RecordUsage.
type ExtractionSchema struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	BaseURL     string         `json:"baseUrl"`
	Patterns    map[string]any `json:"patterns"`
	UsageCount  int            `json:"usageCount"`
	LastUsedAt  time.Time      `json:"lastUsedAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Validate returns an error if the schema contains invalid fields.
func (s *ExtractionSchema) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "schema name required")
	}
	if len(s.Patterns) == 0 {
		return Errorf(EINVALID, "schema patterns required")
	}
	return nil
}

// SchemaService represents a service for managing extraction schemas.
type SchemaService interface {
	// CreateSchema creates a schema, or updates the existing schema with
	// the same name (patterns, description and base URL are replaced).
	CreateSchema(ctx context.Context, schema *ExtractionSchema) error

	// FindSchemaByID retrieves a schema by ID.
	// Returns ENOTFOUND if the schema does not exist.
	FindSchemaByID(ctx context.Context, id string) (*ExtractionSchema, error)

	// FindSchemaByName retrieves a schema by its unique name.
	// Returns ENOTFOUND if the schema does not exist.
	FindSchemaByName(ctx context.Context, name string) (*ExtractionSchema, error)

	// FindSchemas retrieves schemas matching the filter.
	FindSchemas(ctx context.Context, filter SchemaFilter) ([]*ExtractionSchema, error)

	// DeleteSchema permanently removes a schema.
	// Returns ENOTFOUND if the schema does not exist.
	DeleteSchema(ctx context.Context, id string) error

	// RecordUsage records an extraction attempt against a schema.
	// last_used_at is always updated; usage_count is incremented only when
	// success is true. The increment is atomic at the storage layer, so
	// concurrent successful attempts never lose updates.
	// Returns ENOTFOUND if the schema does not exist.
	RecordUsage(ctx context.Context, id string, success bool) error
}

// SchemaFilter represents a filter for FindSchemas.
type SchemaFilter struct {
	ID      *string `json:"id"`
	Name    *string `json:"name"`
	BaseURL *string `json:"baseUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
