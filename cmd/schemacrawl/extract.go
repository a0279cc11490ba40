package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/schemacrawl"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	schema, err := resolveSchema(deps, c.Schema)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", schemacrawl.ErrorMessage(err))
		return err
	}

	resp := deps.Pipeline.Run(deps.Ctx, c.URL, schema.ID)

	if c.JSON {
		return printJSON(deps.Stdout, resp)
	}

	if !resp.Success {
		fmt.Fprintf(deps.Stderr, "extraction failed (%s): %s\n", resp.Method, resp.Error)
		return fmt.Errorf("extraction failed")
	}

	fmt.Fprintf(deps.Stdout, "Extracted %d record(s) via %s (confidence %.2f, %dms)\n",
		len(resp.ExtractedContent), resp.Method, resp.ConfidenceScore, resp.ProcessingTimeMs)
	return printJSON(deps.Stdout, resp.ExtractedContent)
}

// resolveSchema looks a schema up by name first, then by ID.
func resolveSchema(deps *Dependencies, nameOrID string) (*schemacrawl.ExtractionSchema, error) {
	schema, err := deps.Schemas.FindSchemaByName(deps.Ctx, nameOrID)
	if err == nil {
		return schema, nil
	}
	if schemacrawl.ErrorCode(err) != schemacrawl.ENOTFOUND {
		return nil, err
	}
	return deps.Schemas.FindSchemaByID(deps.Ctx, nameOrID)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
