package main

import (
	"fmt"
	"regexp"

	"github.com/fwojciec/schemacrawl"
	"github.com/fwojciec/schemacrawl/extract"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	var urlFilter *schemacrawl.URLFilter
	if len(c.Filter) > 0 {
		urlFilter = &schemacrawl.URLFilter{}
		for _, pattern := range c.Filter {
			re, err := regexp.Compile(pattern)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: invalid filter pattern %q: %v\n", pattern, err)
				return err
			}
			urlFilter.Include = append(urlFilter.Include, re)
		}
	}

	schema, err := resolveSchema(deps, c.Schema)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", schemacrawl.ErrorMessage(err))
		return err
	}

	progress := func(event extract.ProgressEvent) {
		switch event.Type {
		case extract.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Found %d URL(s)\n", event.Total)
		case extract.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] ok      %s\n", event.Completed, event.Total, event.URL)
		case extract.ProgressFailed:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] failed  %s: %v\n", event.Completed, event.Total, event.URL, event.Error)
		}
	}

	result, err := deps.Batch.DiscoverAndRun(deps.Ctx, c.URL, schema.ID, urlFilter, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", schemacrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Done: %d succeeded, %d failed, %d duplicate(s) skipped\n",
		result.Succeeded, result.Failed, result.Skipped)
	if result.Failed > 0 {
		return fmt.Errorf("%d extraction(s) failed", result.Failed)
	}
	return nil
}
