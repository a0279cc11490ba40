// Package gemini provides LLM-backed extraction and schema discovery
// using Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fwojciec/schemacrawl"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// Ensure Extractor implements schemacrawl.LLMExtractor at compile time.
var _ schemacrawl.LLMExtractor = (*Extractor)(nil)

// Extractor implements schemacrawl.LLMExtractor using Google Gemini. It
// is the fallback path for pages no stored schema can handle: the page is
// fetched, reduced to its main content as Markdown to keep the prompt
// small, and handed to the model for structured extraction.
type Extractor struct {
	Client  *genai.Client
	Fetcher schemacrawl.Fetcher

	// Content reduces raw HTML to main content before prompting. When nil
	// the raw HTML is sent as is.
	Content schemacrawl.Extractor

	// Converter turns the main content HTML into Markdown. When nil the
	// HTML is sent unconverted.
	Converter schemacrawl.Converter

	// Tokens, when set, is used to log the prompt's token cost.
	Tokens schemacrawl.TokenCounter

	Logger *slog.Logger
}

// Extract fetches the URL and extracts structured records with the model.
// Quality is the confidence score over the returned records.
func (e *Extractor) Extract(ctx context.Context, url string) (*schemacrawl.LLMResult, error) {
	if url == "" {
		return nil, schemacrawl.Errorf(schemacrawl.EINVALID, "url required")
	}

	html, err := e.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, schemacrawl.Errorf(schemacrawl.EUNAVAILABLE, "fetch %s: %v", url, err)
	}

	content := e.reduce(html)

	if e.Tokens != nil {
		if tokens, err := e.Tokens.CountTokens(ctx, content); err == nil {
			e.logger().Debug("llm extraction prompt", "url", url, "tokens", tokens)
		}
	}

	prompt := BuildExtractionPrompt(url, content)
	result, err := e.Client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildExtractionConfig(),
	)
	if err != nil {
		return nil, schemacrawl.Errorf(schemacrawl.EUNAVAILABLE, "gemini: %v", err)
	}
	if result == nil {
		return nil, schemacrawl.Errorf(schemacrawl.EINTERNAL, "gemini returned nil result")
	}

	records, err := ParseRecords(result.Text())
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, schemacrawl.Errorf(schemacrawl.ENOCONTENT, "model extracted no records from %s", url)
	}

	return &schemacrawl.LLMResult{
		Records: records,
		Quality: schemacrawl.Score(records),
	}, nil
}

// reduce shrinks raw page HTML to main-content Markdown. Each stage is
// best effort: a failing stage passes its input through unchanged.
func (e *Extractor) reduce(html string) string {
	content := html
	if e.Content != nil {
		if extracted, err := e.Content.Extract(content); err == nil && extracted.ContentHTML != "" {
			content = extracted.ContentHTML
		}
	}
	if e.Converter != nil {
		if markdown, err := e.Converter.Convert(content); err == nil && markdown != "" {
			content = markdown
		}
	}
	return content
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// BuildExtractionConfig returns the GenerateContentConfig for extraction
// calls. The model is constrained to JSON output.
func BuildExtractionConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a data extraction assistant. Extract the structured data records present in the provided page content. Respond with a JSON array of flat objects, one per record. Use descriptive lower_snake_case keys. Use empty strings for values the page does not contain. Respond with [] if the page has no extractable data.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}

// BuildExtractionPrompt builds the user prompt for an extraction call.
func BuildExtractionPrompt(url, content string) string {
	var sb strings.Builder
	sb.WriteString("<page>\n")
	fmt.Fprintf(&sb, "<source>%s</source>\n", url)
	fmt.Fprintf(&sb, "<content>%s</content>\n", content)
	sb.WriteString("</page>\n\n")
	sb.WriteString("Extract all structured data records from the page above.")
	return sb.String()
}
