package main

import (
	"fmt"

	"github.com/fwojciec/schemacrawl"
)

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	patterns, err := deps.Discoverer.DiscoverSchema(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", schemacrawl.ErrorMessage(err))
		return err
	}

	if c.DryRun {
		return printJSON(deps.Stdout, patterns)
	}

	schema := &schemacrawl.ExtractionSchema{
		Name:        c.Name,
		Description: fmt.Sprintf("Discovered from %s", c.URL),
		BaseURL:     c.URL,
		Patterns:    patterns,
	}
	if err := deps.Schemas.CreateSchema(deps.Ctx, schema); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", schemacrawl.ErrorMessage(err))
		return err
	}

	plan := schemacrawl.Normalize(patterns)
	fmt.Fprintf(deps.Stdout, "Stored schema %q (%s) with %d field(s)\n",
		schema.Name, schema.ID, len(plan.LeafPaths()))
	return nil
}
