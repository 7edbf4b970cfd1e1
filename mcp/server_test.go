package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fwojciec/readthis"
	rtmcp "github.com/fwojciec/readthis/mcp"
	"github.com/fwojciec/readthis/mock"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testImpl = &mcp.Implementation{Name: "readthis-test", Version: "0.1.0"}

func session(t *testing.T, svc readthis.Service) *mcp.ClientSession {
	t.Helper()

	srv := rtmcp.NewServer(svc, "test")
	serverT, clientT := mcp.NewInMemoryTransports()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testImpl, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func callTool(t *testing.T, cs *mcp.ClientSession, name string, args any) (string, bool) {
	t.Helper()

	result, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent")
	return tc.Text, result.IsError
}

func TestServer_Tools(t *testing.T) {
	t.Parallel()

	cs := session(t, &mock.Service{})
	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{rtmcp.ToolReadThis, rtmcp.ToolReloadManuals}, names)
}

func TestServer_ReadThis(t *testing.T) {
	t.Parallel()

	t.Run("returns extracted text", func(t *testing.T) {
		t.Parallel()

		svc := &mock.Service{
			ReadThisFn: func(_ context.Context, token string) (string, error) {
				assert.Equal(t, "python-asyncio", token)
				return "asyncio docs", nil
			},
		}

		text, isError := callTool(t, session(t, svc), rtmcp.ToolReadThis, map[string]any{"url": "python-asyncio"})

		assert.False(t, isError)
		assert.Equal(t, "asyncio docs", text)
	})

	t.Run("reports stage and code as tool error", func(t *testing.T) {
		t.Parallel()

		svc := &mock.Service{
			ReadThisFn: func(_ context.Context, token string) (string, error) {
				return "", readthis.AtStage(readthis.StageFetch, readthis.HTTPStatusError(404, "http://example/x"))
			},
		}

		text, isError := callTool(t, session(t, svc), rtmcp.ToolReadThis, map[string]any{"url": "http://example/x"})

		assert.True(t, isError)
		assert.Equal(t, "fetch failed: http_status: HTTP 404 for http://example/x", text)
	})

	t.Run("hides internal error details", func(t *testing.T) {
		t.Parallel()

		svc := &mock.Service{
			ReadThisFn: func(context.Context, string) (string, error) {
				return "", readthis.AtStage(readthis.StageExtract, errors.New("nil pointer somewhere"))
			},
		}

		text, isError := callTool(t, session(t, svc), rtmcp.ToolReadThis, map[string]any{"url": "x"})

		assert.True(t, isError)
		assert.Equal(t, "extract failed: internal: Internal error.", text)
	})

	t.Run("requires url argument", func(t *testing.T) {
		t.Parallel()

		svc := &mock.Service{
			ReadThisFn: func(context.Context, string) (string, error) {
				t.Fatal("service must not be called")
				return "", nil
			},
		}

		text, isError := callTool(t, session(t, svc), rtmcp.ToolReadThis, map[string]any{"url": "  "})

		assert.True(t, isError)
		assert.Contains(t, text, "url is required")
	})
}

func TestServer_ReloadManuals(t *testing.T) {
	t.Parallel()

	t.Run("returns reload result as JSON", func(t *testing.T) {
		t.Parallel()

		svc := &mock.Service{
			ReloadManualsFn: func(context.Context) *readthis.ReloadResult {
				return &readthis.ReloadResult{
					Success:       true,
					Message:       "reloaded manuals.json",
					PreviousCount: 1,
					CurrentCount:  2,
					Generation:    3,
					Documents: map[string]readthis.DocumentSpec{
						"a": {ID: "a", URL: "http://example/a"},
						"b": {ID: "b", URL: "http://example/b"},
					},
				}
			},
		}

		text, isError := callTool(t, session(t, svc), rtmcp.ToolReloadManuals, map[string]any{})

		require.False(t, isError)
		var got struct {
			Success   bool           `json:"success"`
			Previous  int            `json:"previous_documents_count"`
			Current   int            `json:"current_documents_count"`
			Documents map[string]any `json:"documents"`
		}
		require.NoError(t, json.Unmarshal([]byte(text), &got))
		assert.True(t, got.Success)
		assert.Equal(t, 1, got.Previous)
		assert.Equal(t, 2, got.Current)
		assert.Len(t, got.Documents, 2)
	})

	t.Run("failed reload is a normal result", func(t *testing.T) {
		t.Parallel()

		svc := &mock.Service{
			ReloadManualsFn: func(context.Context) *readthis.ReloadResult {
				return &readthis.ReloadResult{Success: false, Message: "failed to reload", PreviousCount: 2, CurrentCount: 2}
			},
		}

		text, isError := callTool(t, session(t, svc), rtmcp.ToolReloadManuals, map[string]any{})

		assert.False(t, isError)
		assert.Contains(t, text, `"success":false`)
	})
}
