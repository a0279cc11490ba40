package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/schemacrawl"
	"google.golang.org/genai"
)

// maxDiscoveryHTMLBytes caps the HTML sent for schema discovery. The
// model needs the markup to propose selectors, so unlike extraction the
// page cannot be reduced to Markdown first.
const maxDiscoveryHTMLBytes = 120_000

// Ensure Discoverer implements schemacrawl.SchemaDiscoverer at compile time.
var _ schemacrawl.SchemaDiscoverer = (*Discoverer)(nil)

// Discoverer implements schemacrawl.SchemaDiscoverer using Google Gemini.
// It proposes a reusable selector pattern tree for a sample page; once
// stored, the schema path handles structurally similar pages without
// further model calls.
type Discoverer struct {
	Client  *genai.Client
	Fetcher schemacrawl.Fetcher
}

// DiscoverSchema fetches the URL and asks the model for a selector
// pattern tree describing the page's data fields.
func (d *Discoverer) DiscoverSchema(ctx context.Context, url string) (map[string]any, error) {
	if url == "" {
		return nil, schemacrawl.Errorf(schemacrawl.EINVALID, "url required")
	}

	html, err := d.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, schemacrawl.Errorf(schemacrawl.EUNAVAILABLE, "fetch %s: %v", url, err)
	}
	if len(html) > maxDiscoveryHTMLBytes {
		html = html[:maxDiscoveryHTMLBytes]
	}

	prompt := BuildDiscoveryPrompt(url, html)
	result, err := d.Client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildDiscoveryConfig(),
	)
	if err != nil {
		return nil, schemacrawl.Errorf(schemacrawl.EUNAVAILABLE, "gemini: %v", err)
	}
	if result == nil {
		return nil, schemacrawl.Errorf(schemacrawl.EINTERNAL, "gemini returned nil result")
	}

	return ParsePatterns(result.Text())
}

// BuildDiscoveryConfig returns the GenerateContentConfig for discovery
// calls.
func BuildDiscoveryConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a web scraping assistant. Given an HTML page, propose CSS selector patterns for extracting its data fields. Respond with a JSON object mapping field names to {\"selector\": <css selector>, \"attribute\": <attribute or \"textContent\">}. Group related fields under a nested object. Only propose selectors that appear in the provided HTML.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}

// BuildDiscoveryPrompt builds the user prompt for a discovery call.
func BuildDiscoveryPrompt(url, html string) string {
	var sb strings.Builder
	sb.WriteString("<page>\n")
	fmt.Fprintf(&sb, "<source>%s</source>\n", url)
	fmt.Fprintf(&sb, "<html>%s</html>\n", html)
	sb.WriteString("</page>\n\n")
	sb.WriteString("Propose extraction selector patterns for the page above.")
	return sb.String()
}
