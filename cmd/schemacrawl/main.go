package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/schemacrawl"
	"github.com/fwojciec/schemacrawl/extract"
	"github.com/fwojciec/schemacrawl/gemini"
	"github.com/fwojciec/schemacrawl/goquery"
	"github.com/fwojciec/schemacrawl/htmltomarkdown"
	schttp "github.com/fwojciec/schemacrawl/http"
	"github.com/fwojciec/schemacrawl/readability"
	"github.com/fwojciec/schemacrawl/rod"
	scslog "github.com/fwojciec/schemacrawl/slog"
	"github.com/fwojciec/schemacrawl/sqlite"
	"github.com/fwojciec/schemacrawl/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	SchemaService schemacrawl.SchemaService
	ResultService schemacrawl.ResultService
	JobService    schemacrawl.JobService

	closers []func() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("schemacrawl"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'schemacrawl --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SCHEMACRAWL_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services
	m.SchemaService = sqlite.NewSchemaService(m.DB)
	m.ResultService = sqlite.NewResultService(m.DB)
	m.JobService = sqlite.NewJobService(m.DB)
	deps.DB = m.DB
	deps.Schemas = m.SchemaService
	deps.Results = m.ResultService
	deps.Jobs = m.JobService
	deps.Stats = sqlite.NewStatsService(m.DB)
	deps.Sitemaps = schttp.NewSitemapService(nil)

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	switch cmd {
	case "extract":
		if err := m.wirePipeline(ctx, deps, logger, cli.Extract.Static, cli.Extract.LLM, cli.Extract.Extractor, stderr); err != nil {
			return err
		}
	case "batch":
		if err := m.wirePipeline(ctx, deps, logger, cli.Batch.Static, cli.Batch.LLM, cli.Batch.Extractor, stderr); err != nil {
			return err
		}
		deps.Batch = &extract.Batch{
			Runner:      deps.Pipeline,
			Sitemaps:    deps.Sitemaps,
			Limiter:     extract.NewDomainLimiter(cli.Batch.RPS),
			Concurrency: cli.Batch.Concurrency,
		}
	case "discover":
		client, err := geminiClient(ctx, stderr)
		if err != nil {
			return err
		}
		fetcher, err := m.newFetcher(cli.Discover.Static, logger, stderr)
		if err != nil {
			return err
		}
		deps.Discoverer = &gemini.Discoverer{Client: client, Fetcher: fetcher}
	}

	return kongCtx.Run(deps)
}

// wirePipeline builds the schema extraction pipeline, with the LLM
// fallback attached when requested.
func (m *Main) wirePipeline(ctx context.Context, deps *Dependencies, logger *slog.Logger, static, llm bool, extractor string, stderr io.Writer) error {
	fetcher, err := m.newFetcher(static, logger, stderr)
	if err != nil {
		return err
	}

	crawler := scslog.NewLoggingCrawler(goquery.NewCrawler(fetcher), logger)

	metrics := extract.NewRecorder(deps.Schemas, logger, 64)
	m.closers = append(m.closers, func() error {
		metrics.Close()
		return nil
	})

	schemaExtractor := &extract.Extractor{
		Schemas: deps.Schemas,
		Results: deps.Results,
		Jobs:    deps.Jobs,
		Crawler: crawler,
		Metrics: metrics,
		Logger:  logger,
	}

	pipeline := &extract.Pipeline{Extractor: schemaExtractor, Logger: logger}

	if llm {
		client, err := geminiClient(ctx, stderr)
		if err != nil {
			return err
		}
		fallback := &gemini.Extractor{
			Client:    client,
			Fetcher:   fetcher,
			Content:   NewContentExtractor(extractor),
			Converter: htmltomarkdown.NewConverter(),
			Logger:    logger,
		}
		if tokens, err := gemini.NewTokenCounter(tokenizerModel); err == nil {
			fallback.Tokens = tokens
		}
		pipeline.Fallback = fallback
	}

	deps.Pipeline = pipeline
	return nil
}

// NewContentExtractor returns the boilerplate-removal extractor named by
// the --extractor flag. Unknown names fall back to trafilatura, which is
// also the flag default.
func NewContentExtractor(name string) schemacrawl.Extractor {
	if name == "readability" {
		return readability.NewExtractor()
	}
	return trafilatura.NewExtractor()
}

// newFetcher builds the page fetcher: a headless browser by default, or a
// plain HTTP client with --static.
func (m *Main) newFetcher(static bool, logger *slog.Logger, stderr io.Writer) (schemacrawl.Fetcher, error) {
	if static {
		return scslog.NewLoggingFetcher(schttp.NewFetcher(), logger), nil
	}
	fetcher, err := rod.NewFetcher()
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or pass --static for plain HTTP")
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	m.closers = append(m.closers, fetcher.Close)
	return scslog.NewLoggingFetcher(fetcher, logger), nil
}

func geminiClient(ctx context.Context, stderr io.Writer) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return client, nil
}

// tokenizerModel is used for token counting.
const tokenizerModel = "gemini-2.5-flash"

func defaultDBPath() string {
	if path := os.Getenv("SCHEMACRAWL_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "schemacrawl.db"
	}
	dir := filepath.Join(home, ".schemacrawl")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "schemacrawl.db")
}
