package main

import (
	"fmt"

	"github.com/fwojciec/schemacrawl"
)

// Run executes the schemas command.
func (c *SchemasCmd) Run(deps *Dependencies) error {
	schemas, err := deps.Schemas.FindSchemas(deps.Ctx, schemacrawl.SchemaFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", schemacrawl.ErrorMessage(err))
		return err
	}

	if len(schemas) == 0 {
		fmt.Fprintln(deps.Stdout, "No schemas found. Use 'schemacrawl discover' to create one.")
		return nil
	}

	for _, s := range schemas {
		lastUsed := "never"
		if !s.LastUsedAt.IsZero() {
			lastUsed = s.LastUsedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  used %d time(s), last %s\n", s.ID, s.Name, s.UsageCount, lastUsed)
	}

	return nil
}
