// Package http provides an HTTP-based implementation of readthis.Fetcher.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/readthis"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxRedirects is the default number of redirect hops followed.
const DefaultMaxRedirects = 5

// DefaultMaxBodySize caps the number of bytes read from a response.
const DefaultMaxBodySize = 10 << 20

// DefaultUserAgent is sent when no user agent is configured. Some
// documentation hosts refuse requests without a browser-like agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Ensure Fetcher implements readthis.Fetcher at compile time.
var _ readthis.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML documents using plain HTTP requests. It does not
// execute JavaScript and never retries.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	maxRedirects int
	maxBodySize  int64
	userAgent    string
	limiter      *HostLimiter
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxRedirects sets the number of redirect hops followed before the
// last redirect response is returned as an EHTTPSTATUS error.
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) {
		f.maxRedirects = n
	}
}

// WithMaxBodySize caps the number of bytes read from a response body.
// Longer bodies are cut and reported with FetchResult.Truncated.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithHostLimiter rate limits requests per host.
func WithHostLimiter(l *HostLimiter) Option {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// WithHTTPClient replaces the underlying client. The fetcher installs its
// own redirect policy on a copy of the client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		maxRedirects: DefaultMaxRedirects,
		maxBodySize:  DefaultMaxBodySize,
		userAgent:    DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	var client http.Client
	if f.client != nil {
		client = *f.client
	}
	client.Timeout = f.timeout
	client.CheckRedirect = f.checkRedirect
	f.client = &client

	return f
}

// checkRedirect stops following redirects after maxRedirects hops. The last
// redirect response is then returned to Fetch, which reports its status.
func (f *Fetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) > f.maxRedirects {
		return http.ErrUseLastResponse
	}
	if !isHTTPScheme(req.URL) {
		return fmt.Errorf("redirect to unsupported scheme %q", req.URL.Scheme)
	}
	return nil
}

// Fetch retrieves the HTML document at the given URL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*readthis.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, readthis.Errorf(readthis.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if !isHTTPScheme(req.URL) {
		return nil, readthis.Errorf(readthis.EINVALID, "unsupported URL scheme %q", req.URL.Scheme)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, req.URL.Host); err != nil {
			return nil, classify(rawURL, err)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classify(rawURL, err)
	}
	defer resp.Body.Close()

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, readthis.HTTPStatusError(resp.StatusCode, finalURL)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !isHTML(contentType) {
		return nil, readthis.Errorf(readthis.EUNSUPPORTEDTYPE, "unsupported content type %q for %s", contentType, finalURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, classify(rawURL, err)
	}
	truncated := int64(len(body)) > f.maxBodySize
	if truncated {
		body = body[:f.maxBodySize]
	}

	if contentType == "" {
		contentType = http.DetectContentType(body)
		if !isHTML(contentType) {
			return nil, readthis.Errorf(readthis.EUNSUPPORTEDTYPE, "unsupported content type %q for %s", contentType, finalURL)
		}
	}

	return &readthis.FetchResult{
		Body:        toUTF8(body, contentType),
		ContentType: contentType,
		URL:         finalURL,
		StatusCode:  resp.StatusCode,
		Truncated:   truncated,
	}, nil
}

// toUTF8 decodes body using the charset named by the Content-Type header,
// a byte order mark or a <meta> declaration. An undeclared body that is
// already valid UTF-8 is returned as is.
func toUTF8(body []byte, contentType string) []byte {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" || (!certain && utf8.Valid(body)) {
		return body
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return decoded
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// classify maps transport errors onto fetch error codes.
func classify(rawURL string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return readthis.Errorf(readthis.ETIMEOUT, "timed out fetching %s", rawURL)
	case errors.As(err, &netErr) && netErr.Timeout():
		return readthis.Errorf(readthis.ETIMEOUT, "timed out fetching %s", rawURL)
	case errors.Is(err, context.Canceled):
		return readthis.Errorf(readthis.ECONNECTION, "fetching %s: request canceled", rawURL)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	return readthis.Errorf(readthis.ECONNECTION, "fetching %s: %v", rawURL, err)
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

// isHTML reports whether a Content-Type value names an HTML media type.
func isHTML(contentType string) bool {
	// A malformed parameter still yields the media type.
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil && !errors.Is(err, mime.ErrInvalidMediaParameter) {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
