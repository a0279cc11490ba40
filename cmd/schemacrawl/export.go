package main

import (
	"fmt"

	"github.com/fwojciec/schemacrawl"
	"github.com/fwojciec/schemacrawl/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	filter := schemacrawl.ResultFilter{}
	if c.Schema != "" {
		schema, err := resolveSchema(deps, c.Schema)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", schemacrawl.ErrorMessage(err))
			return err
		}
		filter.SchemaID = &schema.ID
	}

	results, err := deps.Results.FindResults(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", schemacrawl.ErrorMessage(err))
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No results to export.")
		return nil
	}

	exporter := fs.NewExporter(c.Dir, c.Name)
	for _, result := range results {
		if err := exporter.Export(deps.Ctx, result); err != nil {
			_ = exporter.Rollback()
			fmt.Fprintf(deps.Stderr, "error: %s\n", schemacrawl.ErrorMessage(err))
			return err
		}
	}
	if err := exporter.Commit(); err != nil {
		_ = exporter.Rollback()
		fmt.Fprintf(deps.Stderr, "error: %s\n", schemacrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d result(s) to %s\n", len(results), exporter.Dir())
	return nil
}
