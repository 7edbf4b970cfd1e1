package mock

import "github.com/fwojciec/readthis"

var _ readthis.Converter = (*Converter)(nil)

// Converter is a mock implementation of readthis.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
