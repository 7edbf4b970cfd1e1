package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/readthis"
	main "github.com/fwojciec/readthis/cmd/readthis"
	"github.com/fwojciec/readthis/mock"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guidePage = `<html><head><title>Guide</title></head><body>
<nav><a href="/">Home</a> <a href="/a">A</a> <a href="/b">B</a></nav>
<article><h1>Guide</h1><p>Install the module with go get and import it.</p></article>
<footer>Copyright</footer>
</body></html>`

func writeManual(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "manuals.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func docServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/guide" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(guidePage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCmdCheck(t *testing.T) {
	t.Parallel()

	t.Run("lists documents", func(t *testing.T) {
		t.Parallel()

		path := writeManual(t, `[
			{"id": "guide", "name": "Guide", "url": "https://example.com/guide"},
			{"id": "api", "url": "https://example.com/api"}
		]`)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--manuals", path, "check"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "2 documents")
		assert.Contains(t, stdout.String(), "guide  https://example.com/guide  Guide")
		assert.Contains(t, stdout.String(), "api  https://example.com/api")
	})

	t.Run("reports duplicate ids", func(t *testing.T) {
		t.Parallel()

		path := writeManual(t, `[
			{"id": "guide", "url": "https://example.com/a"},
			{"id": "guide", "url": "https://example.com/b"}
		]`)
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--manuals", path, "check"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Equal(t, readthis.EDUPLICATEID, readthis.ErrorCode(err))
		assert.Contains(t, stderr.String(), "duplicate_id")
	})

	t.Run("reports missing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing.yaml")

		err := main.NewMain().Run(context.Background(), []string{"--manuals", path, "check"}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, readthis.ECONFIGNOTFOUND, readthis.ErrorCode(err))
	})
}

func TestCmdRead(t *testing.T) {
	t.Parallel()

	t.Run("prints extracted text for an id", func(t *testing.T) {
		t.Parallel()

		srv := docServer(t)
		path := writeManual(t, `[{"id": "guide", "url": "`+srv.URL+`/guide"}]`)
		stdout := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--manuals", path, "read", "guide"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "Guide\n\nInstall the module with go get and import it.\n", stdout.String())
	})

	t.Run("prints headers for several documents", func(t *testing.T) {
		t.Parallel()

		srv := docServer(t)
		path := writeManual(t, `[{"id": "guide", "url": "`+srv.URL+`/guide"}]`)
		stdout := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--manuals", path, "read", "guide", srv.URL + "/guide"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "==> guide <==")
		assert.Contains(t, stdout.String(), "==> "+srv.URL+"/guide <==")
	})

	t.Run("emits JSON articles", func(t *testing.T) {
		t.Parallel()

		srv := docServer(t)
		path := writeManual(t, `[]`)
		stdout := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--manuals", path, "read", "--json", srv.URL + "/guide"}, stdout, &bytes.Buffer{})
		require.NoError(t, err)

		var article readthis.Article
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &article))
		assert.Equal(t, "Guide", article.Title)
		assert.Equal(t, srv.URL+"/guide", article.URL)
		assert.NotEmpty(t, article.Hash)
	})

	t.Run("reports failures with stage and code", func(t *testing.T) {
		t.Parallel()

		srv := docServer(t)
		path := writeManual(t, `[]`)
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--manuals", path, "read", srv.URL + "/missing", "nope"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 of 2 documents failed")
		assert.Contains(t, stderr.String(), "fetch: HTTP 404")
		assert.Contains(t, stderr.String(), "(http_status)")
		assert.Contains(t, stderr.String(), "error: nope: resolve:")
	})

	t.Run("starts without a manual file", func(t *testing.T) {
		t.Parallel()

		srv := docServer(t)
		path := filepath.Join(t.TempDir(), "absent.json")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--manuals", path, "read", srv.URL + "/guide"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Install the module")
		assert.Contains(t, stderr.String(), "starting with no documents")
	})

	t.Run("truncates to max length", func(t *testing.T) {
		t.Parallel()

		srv := docServer(t)
		path := writeManual(t, `[]`)
		stdout := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--manuals", path, "--max-length", "10", "read", srv.URL + "/guide"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(strings.TrimSpace(stdout.String()), "[truncated]"))
	})
}

func TestCmdServe(t *testing.T) {
	t.Parallel()

	path := writeManual(t, `[{"id": "guide", "url": "https://docs.example.com/guide"}]`)
	serverT, clientT := mcp.NewInMemoryTransports()

	m := main.NewMain()
	m.Transport = serverT
	m.Fetcher = &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*readthis.FetchResult, error) {
			assert.Equal(t, "https://docs.example.com/guide", url)
			return &readthis.FetchResult{Body: []byte(guidePage), ContentType: "text/html", URL: url, StatusCode: 200}, nil
		},
		CloseFn: func() error { return nil },
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- m.Run(ctx, []string{"--manuals", path, "serve"}, &bytes.Buffer{}, &bytes.Buffer{})
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "readthis-test", Version: "0.1.0"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)

	result, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: "readthis", Arguments: map[string]any{"url": "guide"}})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, tc.Text, "Install the module with go get")

	require.NoError(t, cs.Close())
	cancel()
	<-done
}
