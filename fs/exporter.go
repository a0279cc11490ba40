// Package fs provides file-based export of crawl results.
package fs

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/schemacrawl"
)

// Exporter writes crawl results as JSON files with atomic directory
// semantics. Results are written to a temporary directory and moved into
// place on Commit, so a partially written export never replaces a
// previous one.
type Exporter struct {
	baseDir string
	name    string
}

// NewExporter creates a new Exporter.
// baseDir is the parent directory, name is the output directory name.
// Files are written to baseDir/name.tmp and moved to baseDir/name on
// Commit.
func NewExporter(baseDir, name string) *Exporter {
	return &Exporter{
		baseDir: baseDir,
		name:    name,
	}
}

func (e *Exporter) tempDir() string {
	return filepath.Join(e.baseDir, e.name+".tmp")
}

func (e *Exporter) finalDir() string {
	return filepath.Join(e.baseDir, e.name)
}

// Export writes one result to the staging directory.
func (e *Exporter) Export(ctx context.Context, result *schemacrawl.CrawlResult) error {
	relPath, err := URLToPath(result.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(e.tempDir(), relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(fullPath, data, 0644)
}

// Commit atomically replaces the final directory with the staged export.
func (e *Exporter) Commit() error {
	if err := os.RemoveAll(e.finalDir()); err != nil {
		return err
	}
	return os.Rename(e.tempDir(), e.finalDir())
}

// Rollback removes the staging directory, discarding uncommitted work.
func (e *Exporter) Rollback() error {
	return os.RemoveAll(e.tempDir())
}

// Dir returns the final export directory path.
func (e *Exporter) Dir() string {
	return e.finalDir()
}

// URLToPath converts a result URL to a relative file path.
// Example: https://example.com/products/widget → products/widget.json
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", schemacrawl.Errorf(schemacrawl.EINVALID, "url %q has no host", rawURL)
	}

	path := u.Path

	// Root or trailing slash becomes index.json
	if path == "" || path == "/" {
		return "index.json", nil
	}

	path = strings.TrimPrefix(path, "/")

	if strings.HasSuffix(path, "/") {
		return path + "index.json", nil
	}

	return path + ".json", nil
}
