package mock

import "github.com/fwojciec/schemacrawl"

var _ schemacrawl.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of schemacrawl.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*schemacrawl.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*schemacrawl.ExtractResult, error) {
	return e.ExtractFn(html)
}
