package readthis

import "context"

// Format selects how extracted content is rendered.
type Format string

// Format constants.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// Article is the result of reading one document.
type Article struct {
	Token     string `json:"token"`
	URL       string `json:"url"`
	Title     string `json:"title,omitempty"`
	Text      string `json:"text"`
	Fallback  bool   `json:"fallback,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
	Hash      string `json:"hash"`
}

// Service exposes the two public operations.
type Service interface {
	// ReadThis resolves token, fetches the document and returns its
	// extracted text. Errors are tagged with the stage they occurred at.
	ReadThis(ctx context.Context, token string) (string, error)

	// ReloadManuals reloads the manual file. It always returns a result,
	// with Success=false when the reload was rejected.
	ReloadManuals(ctx context.Context) *ReloadResult
}
