package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/readthis"
)

// Ensure LoggingRegistry implements readthis.ManualRegistry.
var _ readthis.ManualRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps a ManualRegistry with debug logging for token
// resolution.
type LoggingRegistry struct {
	next   readthis.ManualRegistry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next readthis.ManualRegistry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// Current delegates to the wrapped registry.
func (r *LoggingRegistry) Current() *readthis.Snapshot {
	return r.next.Current()
}

// Resolve resolves token against the wrapped registry's current snapshot
// and logs that snapshot's generation. The snapshot is loaded once so a
// concurrent reload cannot make the log name a snapshot that did not answer.
func (r *LoggingRegistry) Resolve(token string) (url string, err error) {
	snap := r.next.Current()
	defer func() {
		r.logger.Debug("resolve",
			"token", token,
			"url", url,
			"generation", snap.Generation(),
			"err", err,
		)
	}()
	return snap.Resolve(token)
}

// Reload delegates to the wrapped registry.
func (r *LoggingRegistry) Reload(ctx context.Context) *readthis.ReloadResult {
	return r.next.Reload(ctx)
}
