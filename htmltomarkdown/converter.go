// Package htmltomarkdown implements readthis.Converter with html-to-markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/readthis"
)

// Ensure Converter implements readthis.Converter at compile time.
var _ readthis.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert extracted content to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter with CommonMark and table support.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown. Returns EEMPTYDOCUMENT for
// blank input or when the conversion produces no text.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", readthis.Errorf(readthis.EEMPTYDOCUMENT, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", readthis.Errorf(readthis.EINTERNAL, "markdown conversion failed: %v", err)
	}

	result = strings.TrimSpace(result)
	if result == "" {
		return "", readthis.Errorf(readthis.EEMPTYDOCUMENT, "conversion produced no content")
	}
	return result, nil
}
