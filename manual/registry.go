// Package manual implements readthis.ManualRegistry on top of an atomically
// replaced snapshot pointer.
package manual

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/readthis"
)

// Ensure Registry implements readthis.ManualRegistry at compile time.
var _ readthis.ManualRegistry = (*Registry)(nil)

// Registry holds the current manual snapshot. Reads load a single pointer
// and never block; reloads build a complete snapshot before publishing it.
//
// Registry is safe for concurrent use.
type Registry struct {
	source readthis.ManualSource
	path   string
	logger *slog.Logger

	current atomic.Pointer[readthis.Snapshot]

	// mu serializes writers so generations are published in order.
	mu         sync.Mutex
	generation uint64
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for reload events.
// Defaults to a logger that discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a Registry reading the manual file at path through
// source. The registry starts with an empty snapshot; call Reload to load
// the file.
func NewRegistry(source readthis.ManualSource, path string, opts ...Option) *Registry {
	r := &Registry{
		source: source,
		path:   path,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}

	empty, _ := readthis.NewSnapshot(0, nil)
	r.current.Store(empty)
	return r
}

// Path returns the manual file path.
func (r *Registry) Path() string {
	return r.path
}

// Current returns the installed snapshot.
func (r *Registry) Current() *readthis.Snapshot {
	return r.current.Load()
}

// Resolve resolves token against the installed snapshot.
func (r *Registry) Resolve(token string) (string, error) {
	return r.Current().Resolve(token)
}

// Load reads and validates the manual file without installing it.
// The returned snapshot carries the generation it would be published with.
func (r *Registry) Load(ctx context.Context) (*readthis.Snapshot, error) {
	r.mu.Lock()
	next := r.generation + 1
	r.mu.Unlock()
	return r.load(ctx, next)
}

func (r *Registry) load(ctx context.Context, generation uint64) (*readthis.Snapshot, error) {
	docs, err := r.source.ReadManuals(ctx, r.path)
	if err != nil {
		return nil, err
	}
	return readthis.NewSnapshot(generation, docs)
}

// Reload loads the manual file and installs it as the current snapshot.
// A failed load leaves the current snapshot in place.
func (r *Registry) Reload(ctx context.Context) *readthis.ReloadResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.current.Load()
	snap, err := r.load(ctx, r.generation+1)
	if err != nil {
		r.logger.Warn("manual reload rejected",
			"path", r.path,
			"code", readthis.ErrorCode(err),
			"err", err,
			"generation", prev.Generation(),
		)
		return &readthis.ReloadResult{
			Success:       false,
			Message:       fmt.Sprintf("failed to reload %s: %s; keeping %d documents", r.path, errorText(err), prev.Len()),
			PreviousCount: prev.Len(),
			CurrentCount:  prev.Len(),
			Generation:    prev.Generation(),
			Documents:     prev.Map(),
		}
	}

	r.generation = snap.Generation()
	r.current.Store(snap)

	r.logger.Info("manual reloaded",
		"path", r.path,
		"previous", prev.Len(),
		"current", snap.Len(),
		"generation", snap.Generation(),
	)
	return &readthis.ReloadResult{
		Success:       true,
		Message:       fmt.Sprintf("reloaded %s", r.path),
		PreviousCount: prev.Len(),
		CurrentCount:  snap.Len(),
		Generation:    snap.Generation(),
		Documents:     snap.Map(),
	}
}

// errorText prefers the application message over the raw error string.
func errorText(err error) string {
	if readthis.ErrorCode(err) == readthis.EINTERNAL {
		return err.Error()
	}
	return readthis.ErrorMessage(err)
}
