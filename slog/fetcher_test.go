package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/readthis"
	"github.com/fwojciec/readthis/mock"
	rtslog "github.com/fwojciec/readthis/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// debugLogger returns a text logger writing to buf at debug level.
func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with status, bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*readthis.FetchResult, error) {
				return &readthis.FetchResult{Body: []byte("<html>content</html>"), URL: url, StatusCode: 200}, nil
			},
		}

		fetcher := rtslog.NewLoggingFetcher(inner, debugLogger(&buf))
		res, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", string(res.Body))
		output := buf.String()
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "url=https://example.com/docs")
		assert.Contains(t, output, "status=200")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs truncated bodies", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*readthis.FetchResult, error) {
				return &readthis.FetchResult{Body: []byte("<p>"), URL: url, StatusCode: 200, Truncated: true}, nil
			},
		}

		_, err := rtslog.NewLoggingFetcher(inner, debugLogger(&buf)).Fetch(context.Background(), "https://example.com/big")

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "truncated=true")
	})

	t.Run("logs error code on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*readthis.FetchResult, error) {
				return nil, readthis.HTTPStatusError(404, url)
			},
		}

		fetcher := rtslog.NewLoggingFetcher(inner, debugLogger(&buf))
		_, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "code=http_status")
		assert.Contains(t, output, "err=")
	})

	t.Run("is silent above debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*readthis.FetchResult, error) {
				return nil, errors.New("network error")
			},
		}

		fetcher := rtslog.NewLoggingFetcher(inner, logger)
		_, _ = fetcher.Fetch(context.Background(), "https://example.com/docs")

		assert.Empty(t, buf.String())
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	closeCalled := false
	inner := &mock.Fetcher{
		CloseFn: func() error {
			closeCalled = true
			return nil
		},
	}

	fetcher := rtslog.NewLoggingFetcher(inner, debugLogger(&buf))
	err := fetcher.Close()

	require.NoError(t, err)
	assert.True(t, closeCalled)
}
