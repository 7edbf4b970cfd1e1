package readthis

// ExtractedContent holds the extracted content from an HTML page.
type ExtractedContent struct {
	// Title is the page title, if one was found.
	Title string

	// Text is the main content as plain text with line breaks at heading
	// and paragraph boundaries.
	Text string

	// ContentHTML is the selected content subtree as HTML.
	ContentHTML string

	// Fallback is set when no main region could be serialized and the whole
	// document body was returned instead.
	Fallback bool
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	// Returns EEMPTYDOCUMENT when the document has no text and ENOCONTENT
	// when no main region can be identified.
	Extract(html string) (*ExtractedContent, error)
}
