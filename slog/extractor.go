package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/readthis"
)

// Ensure LoggingExtractor implements readthis.Extractor.
var _ readthis.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   readthis.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next readthis.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome. Fallback
// results are logged at warn level.
func (e *LoggingExtractor) Extract(html string) (content *readthis.ExtractedContent, err error) {
	defer func(begin time.Time) {
		level := slog.LevelDebug
		attrs := []any{"bytes", len(html), "duration", time.Since(begin)}
		if content != nil {
			attrs = append(attrs, "title", content.Title, "chars", len(content.Text), "fallback", content.Fallback)
			if content.Fallback {
				level = slog.LevelWarn
			}
		}
		if err != nil {
			attrs = append(attrs, "code", readthis.ErrorCode(err), "err", err)
		}
		e.logger.Log(context.Background(), level, "extract", attrs...)
	}(time.Now())
	return e.next.Extract(html)
}
