package mock

import "github.com/fwojciec/schemacrawl"

var _ schemacrawl.Converter = (*Converter)(nil)

// Converter is a mock implementation of schemacrawl.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
