// Package readability implements readthis.Extractor on top of go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/readthis"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements readthis.Extractor at compile time.
var _ readthis.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*readthis.ExtractedContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, readthis.Errorf(readthis.EEMPTYDOCUMENT, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, readthis.Errorf(readthis.ENOCONTENT, "no main content found: %v", err)
	}

	text := normalize(article.TextContent)
	if text == "" {
		return nil, readthis.Errorf(readthis.ENOCONTENT, "no main content found")
	}

	return &readthis.ExtractedContent{
		Title:       strings.TrimSpace(article.Title),
		Text:        text,
		ContentHTML: article.Content,
	}, nil
}

// normalize collapses whitespace within lines and drops empty lines.
func normalize(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
