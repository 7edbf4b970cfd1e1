package mock

import "github.com/fwojciec/readthis"

var _ readthis.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of readthis.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*readthis.ExtractedContent, error)
}

func (e *Extractor) Extract(html string) (*readthis.ExtractedContent, error) {
	return e.ExtractFn(html)
}
