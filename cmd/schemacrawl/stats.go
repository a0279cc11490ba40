package main

import (
	"fmt"

	"github.com/fwojciec/schemacrawl"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	stats, err := deps.Stats.Stats(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", schemacrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Results:            %d\n", stats.TotalResults)
	fmt.Fprintf(deps.Stdout, "Schemas:            %d\n", stats.TotalSchemas)
	fmt.Fprintf(deps.Stdout, "Jobs:               %d (%d completed, %d failed)\n",
		stats.TotalJobs, stats.CompletedJobs, stats.FailedJobs)
	fmt.Fprintf(deps.Stdout, "Avg content length: %.0f bytes\n", stats.AvgContentLength)

	return nil
}
