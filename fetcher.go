package schemacrawl

import "context"

// Fetcher retrieves rendered HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered
// content, or plain HTTP for static pages.
type Fetcher interface {
	// Fetch navigates to the URL, waits for the page to render,
	// and returns the HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases fetch resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
