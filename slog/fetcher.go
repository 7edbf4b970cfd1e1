// Package slog decorates readthis services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/readthis"
)

// Ensure LoggingFetcher implements readthis.Fetcher.
var _ readthis.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   readthis.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next readthis.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (res *readthis.FetchResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url, "duration", time.Since(begin)}
		if res != nil {
			attrs = append(attrs, "status", res.StatusCode, "bytes", len(res.Body))
			if res.Truncated {
				attrs = append(attrs, "truncated", true)
			}
		}
		if err != nil {
			attrs = append(attrs, "code", readthis.ErrorCode(err), "err", err)
		}
		f.logger.Debug("fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
