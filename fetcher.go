package readthis

import "context"

// FetchResult is the response to a single document retrieval.
type FetchResult struct {
	// Body is the document decoded to UTF-8.
	Body        []byte
	ContentType string

	// URL is the final address after redirects.
	URL        string
	StatusCode int

	// Truncated is set when the body exceeded the fetcher's size cap.
	Truncated bool
}

// Fetcher retrieves HTML documents from URLs.
type Fetcher interface {
	// Fetch retrieves the document at url. The context controls timeout
	// and cancellation. Returns ETIMEOUT, ECONNECTION, EHTTPSTATUS or
	// EUNSUPPORTEDTYPE on failure. No retry is performed.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases resources held by the fetcher.
	Close() error
}
