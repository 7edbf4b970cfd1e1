package reader

import (
	"context"
	"time"

	"github.com/fwojciec/readthis"
)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry fetches url, retrying transient failures once per entry in
// delays. HTTP status, content type and invalid URL errors are returned
// immediately since repeating the request would not change them.
func FetchWithRetry(ctx context.Context, fetcher readthis.Fetcher, url string, delays []time.Duration) (*readthis.FetchResult, error) {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		res, err := fetcher.Fetch(ctx, url)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if attempt == len(delays) || !isTransient(err) {
			break
		}

		select {
		case <-ctx.Done():
			return nil, lastErr
		case <-time.After(delays[attempt]):
		}
	}
	return nil, lastErr
}

func isTransient(err error) bool {
	switch readthis.ErrorCode(err) {
	case readthis.ETIMEOUT, readthis.ECONNECTION:
		return true
	}
	return false
}
