// Package rod implements readthis.Fetcher with a headless Chrome browser,
// for documentation sites that render their content with JavaScript.
package rod

import (
	"context"
	"errors"
	"mime"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/readthis"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds navigation and rendering of one page.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements readthis.Fetcher at compile time.
var _ readthis.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation. The
// status and content type come from the main document response, so the
// same error codes apply as for plain HTTP fetching.
//
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager  *BrowserManager
	timeout  time.Duration
	maxPages int64
	closed   atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRecycleAfter sets how many pages the browser serves before it is
// restarted.
func WithRecycleAfter(n int64) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher launches a headless Chrome browser and returns a Fetcher.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(WithMaxPages(f.maxPages))
	if err != nil {
		return nil, err
	}
	f.manager = manager

	return f, nil
}

// document holds what the browser reported about the main document.
type document struct {
	status   int
	mimeType string
	url      string
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*readthis.FetchResult, error) {
	if f.closed.Load() {
		return nil, readthis.Errorf(readthis.EINVALID, "fetcher is closed")
	}
	if err := checkURL(rawURL); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, classify(rawURL, err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, release, err := f.manager.Page()
	if err != nil {
		return nil, readthis.Errorf(readthis.ECONNECTION, "opening browser page: %v", err)
	}
	defer release()
	page = page.Context(ctx)

	var doc document
	wait := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		doc = document{status: e.Response.Status, mimeType: e.Response.MIMEType, url: e.Response.URL}
		return true
	})

	if err := page.Navigate(rawURL); err != nil {
		return nil, classify(rawURL, err)
	}
	wait()
	if err := ctx.Err(); err != nil {
		return nil, classify(rawURL, err)
	}

	finalURL := doc.url
	if finalURL == "" {
		finalURL = rawURL
	}
	if doc.status < 200 || doc.status > 299 {
		return nil, readthis.HTTPStatusError(doc.status, finalURL)
	}
	if !isHTML(doc.mimeType) {
		return nil, readthis.Errorf(readthis.EUNSUPPORTEDTYPE, "unsupported content type %q for %s", doc.mimeType, finalURL)
	}

	if err := page.WaitLoad(); err != nil {
		return nil, classify(rawURL, err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, classify(rawURL, err)
	}

	return &readthis.FetchResult{
		Body:        []byte(html),
		ContentType: doc.mimeType,
		URL:         finalURL,
		StatusCode:  doc.status,
	}, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

func checkURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return readthis.Errorf(readthis.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return nil
	}
	return readthis.Errorf(readthis.EINVALID, "unsupported URL scheme %q", u.Scheme)
}

func classify(rawURL string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return readthis.Errorf(readthis.ETIMEOUT, "timed out fetching %s", rawURL)
	case errors.Is(err, context.Canceled):
		return readthis.Errorf(readthis.ECONNECTION, "fetching %s: request canceled", rawURL)
	}
	return readthis.Errorf(readthis.ECONNECTION, "fetching %s: %v", rawURL, err)
}

func isHTML(contentType string) bool {
	// A malformed parameter still yields the media type.
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil && !errors.Is(err, mime.ErrInvalidMediaParameter) {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
