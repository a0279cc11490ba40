package mock

import (
	"context"

	"github.com/fwojciec/schemacrawl"
)

var _ schemacrawl.SchemaService = (*SchemaService)(nil)

// SchemaService is a mock implementation of schemacrawl.SchemaService.
type SchemaService struct {
	CreateSchemaFn     func(ctx context.Context, schema *schemacrawl.ExtractionSchema) error
	FindSchemaByIDFn   func(ctx context.Context, id string) (*schemacrawl.ExtractionSchema, error)
	FindSchemaByNameFn func(ctx context.Context, name string) (*schemacrawl.ExtractionSchema, error)
	FindSchemasFn      func(ctx context.Context, filter schemacrawl.SchemaFilter) ([]*schemacrawl.ExtractionSchema, error)
	DeleteSchemaFn     func(ctx context.Context, id string) error
	RecordUsageFn      func(ctx context.Context, id string, success bool) error
}

func (s *SchemaService) CreateSchema(ctx context.Context, schema *schemacrawl.ExtractionSchema) error {
	return s.CreateSchemaFn(ctx, schema)
}

func (s *SchemaService) FindSchemaByID(ctx context.Context, id string) (*schemacrawl.ExtractionSchema, error) {
	return s.FindSchemaByIDFn(ctx, id)
}

func (s *SchemaService) FindSchemaByName(ctx context.Context, name string) (*schemacrawl.ExtractionSchema, error) {
	return s.FindSchemaByNameFn(ctx, name)
}

func (s *SchemaService) FindSchemas(ctx context.Context, filter schemacrawl.SchemaFilter) ([]*schemacrawl.ExtractionSchema, error) {
	return s.FindSchemasFn(ctx, filter)
}

func (s *SchemaService) DeleteSchema(ctx context.Context, id string) error {
	return s.DeleteSchemaFn(ctx, id)
}

func (s *SchemaService) RecordUsage(ctx context.Context, id string, success bool) error {
	return s.RecordUsageFn(ctx, id, success)
}
