package mock

import (
	"context"

	"github.com/fwojciec/readthis"
)

var _ readthis.ManualSource = (*ManualSource)(nil)

// ManualSource is a mock implementation of readthis.ManualSource.
type ManualSource struct {
	ReadManualsFn func(ctx context.Context, path string) ([]readthis.DocumentSpec, error)
}

func (s *ManualSource) ReadManuals(ctx context.Context, path string) ([]readthis.DocumentSpec, error) {
	return s.ReadManualsFn(ctx, path)
}

var _ readthis.ManualRegistry = (*ManualRegistry)(nil)

// ManualRegistry is a mock implementation of readthis.ManualRegistry.
type ManualRegistry struct {
	CurrentFn func() *readthis.Snapshot
	ResolveFn func(token string) (string, error)
	ReloadFn  func(ctx context.Context) *readthis.ReloadResult
}

func (r *ManualRegistry) Current() *readthis.Snapshot {
	return r.CurrentFn()
}

func (r *ManualRegistry) Resolve(token string) (string, error) {
	return r.ResolveFn(token)
}

func (r *ManualRegistry) Reload(ctx context.Context) *readthis.ReloadResult {
	return r.ReloadFn(ctx)
}
