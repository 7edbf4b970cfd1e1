package mock

import (
	"context"

	"github.com/fwojciec/readthis"
)

var _ readthis.Service = (*Service)(nil)

// Service is a mock implementation of readthis.Service.
type Service struct {
	ReadThisFn      func(ctx context.Context, token string) (string, error)
	ReloadManualsFn func(ctx context.Context) *readthis.ReloadResult
}

func (s *Service) ReadThis(ctx context.Context, token string) (string, error) {
	return s.ReadThisFn(ctx, token)
}

func (s *Service) ReloadManuals(ctx context.Context) *readthis.ReloadResult {
	return s.ReloadManualsFn(ctx)
}
