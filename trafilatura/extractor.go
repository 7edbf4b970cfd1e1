// Package trafilatura implements readthis.Extractor on top of go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/readthis"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements readthis.Extractor at compile time.
var _ readthis.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor. Comments are excluded and the
// readability fallback is enabled.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback:  true,
			ExcludeComments: true,
		},
	}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*readthis.ExtractedContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, readthis.Errorf(readthis.EEMPTYDOCUMENT, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, readthis.Errorf(readthis.ENOCONTENT, "no main content found: %v", err)
	}

	text := normalize(result.ContentText)
	if text == "" {
		return nil, readthis.Errorf(readthis.ENOCONTENT, "no main content found")
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &readthis.ExtractedContent{
		Title:       result.Metadata.Title,
		Text:        text,
		ContentHTML: contentHTML,
	}, nil
}

// normalize collapses whitespace within lines and squeezes blank lines.
func normalize(s string) string {
	var lines []string
	blank := false
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank = len(lines) > 0
			continue
		}
		if blank {
			lines = append(lines, "")
			blank = false
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
