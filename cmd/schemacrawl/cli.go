package main

import (
	"context"
	"io"

	"github.com/fwojciec/schemacrawl"
	"github.com/fwojciec/schemacrawl/extract"
	"github.com/fwojciec/schemacrawl/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	DB         *sqlite.DB
	Schemas    schemacrawl.SchemaService
	Results    schemacrawl.ResultService
	Jobs       schemacrawl.JobService
	Stats      schemacrawl.StatsService
	Sitemaps   schemacrawl.SitemapService
	Pipeline   extract.Runner
	Batch      *extract.Batch
	Discoverer schemacrawl.SchemaDiscoverer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Extract  ExtractCmd  `cmd:"" help:"Extract structured data from a URL using a stored schema"`
	Batch    BatchCmd    `cmd:"" help:"Extract a site's pages discovered from its sitemap"`
	Discover DiscoverCmd `cmd:"" help:"Derive and store an extraction schema for a URL"`
	Schemas  SchemasCmd  `cmd:"" help:"List stored extraction schemas"`
	Search   SearchCmd   `cmd:"" help:"Full-text search over stored results"`
	Stats    StatsCmd    `cmd:"" help:"Show store statistics"`
	Export   ExportCmd   `cmd:"" help:"Export stored results as JSON files"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL       string `arg:"" help:"Page URL to extract"`
	Schema    string `arg:"" help:"Schema name or ID"`
	Static    bool   `help:"Fetch over plain HTTP instead of a headless browser"`
	LLM       bool   `help:"Fall back to LLM extraction when the schema fails"`
	Extractor string `default:"trafilatura" enum:"trafilatura,readability" help:"Content extractor reducing pages for the LLM fallback"`
	JSON      bool   `short:"j" help:"Print the full response as JSON"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	URL         string   `arg:"" help:"Site base URL"`
	Schema      string   `arg:"" help:"Schema name or ID"`
	Filter      []string `short:"F" name:"filter" help:"Filter URLs by regex (repeatable)"`
	Static      bool     `help:"Fetch over plain HTTP instead of a headless browser"`
	LLM         bool     `help:"Fall back to LLM extraction when the schema fails"`
	Extractor   string   `default:"trafilatura" enum:"trafilatura,readability" help:"Content extractor reducing pages for the LLM fallback"`
	Concurrency int      `short:"c" default:"10" help:"Concurrent extraction limit"`
	RPS         float64  `default:"1" help:"Max requests per second per domain"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	URL    string `arg:"" help:"Sample page URL"`
	Name   string `arg:"" help:"Name for the stored schema"`
	Static bool   `help:"Fetch over plain HTTP instead of a headless browser"`
	DryRun bool   `help:"Print the proposed patterns without storing them"`
}

// SchemasCmd is the "schemas" subcommand.
type SchemasCmd struct{}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Full-text search query"`
	Limit int    `short:"n" default:"10" help:"Maximum results"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir    string `arg:"" help:"Output parent directory"`
	Name   string `default:"results" help:"Output directory name"`
	Schema string `short:"s" help:"Only export results for this schema name or ID"`
}
