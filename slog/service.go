package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/readthis"
	"github.com/google/uuid"
)

// Ensure LoggingService implements readthis.Service.
var _ readthis.Service = (*LoggingService)(nil)

// LoggingService wraps a Service and logs every request with a request id.
type LoggingService struct {
	next   readthis.Service
	logger *slog.Logger
}

// NewLoggingService creates a new LoggingService.
func NewLoggingService(next readthis.Service, logger *slog.Logger) *LoggingService {
	return &LoggingService{next: next, logger: logger}
}

// ReadThis delegates to the wrapped service and logs the stage and code of
// any failure.
func (s *LoggingService) ReadThis(ctx context.Context, token string) (text string, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"request_id", uuid.NewString(),
			"token", token,
			"chars", len(text),
			"duration", time.Since(begin),
		}
		if err != nil {
			attrs = append(attrs,
				"stage", readthis.ErrorStage(err),
				"code", readthis.ErrorCode(err),
				"err", err,
			)
			s.logger.Warn("readthis", attrs...)
			return
		}
		s.logger.Info("readthis", attrs...)
	}(time.Now())
	return s.next.ReadThis(ctx, token)
}

// ReloadManuals delegates to the wrapped service and logs the result.
func (s *LoggingService) ReloadManuals(ctx context.Context) (result *readthis.ReloadResult) {
	defer func(begin time.Time) {
		s.logger.Info("reload_manuals",
			"request_id", uuid.NewString(),
			"success", result != nil && result.Success,
			"previous", countOf(result, true),
			"current", countOf(result, false),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.ReloadManuals(ctx)
}

func countOf(r *readthis.ReloadResult, previous bool) int {
	if r == nil {
		return 0
	}
	if previous {
		return r.PreviousCount
	}
	return r.CurrentCount
}
