package mock

import (
	"context"

	"github.com/fwojciec/readthis"
)

var _ readthis.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of readthis.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*readthis.FetchResult, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*readthis.FetchResult, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
