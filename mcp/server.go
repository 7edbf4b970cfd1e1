// Package mcp exposes readthis.Service as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/readthis"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "readthis-server"

// Tool names.
const (
	ToolReadThis      = "readthis"
	ToolReloadManuals = "reload_manuals"
)

// NewServer returns an MCP server with the readthis tools registered.
func NewServer(svc readthis.Service, version string) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil)
	RegisterTools(srv, svc)
	return srv
}

// RegisterTools registers the readthis and reload_manuals tools on srv.
func RegisterTools(srv *mcp.Server, svc readthis.Service) {
	registerReadThis(srv, svc)
	registerReloadManuals(srv, svc)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

type readThisReq struct {
	URL string `json:"url"`
}

func registerReadThis(srv *mcp.Server, svc readthis.Service) {
	tool := &mcp.Tool{
		Name:        ToolReadThis,
		Description: "Fetch a document by URL or by an id defined in the manual file and return its main content as text.",
		InputSchema: inputSchema(map[string]any{
			"url": map[string]any{"type": "string", "description": "Document URL or manual id"},
		}, []string{"url"}),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r readThisReq
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				return toolError(fmt.Errorf("invalid arguments: %w", err)), nil
			}
		}
		if strings.TrimSpace(r.URL) == "" {
			return toolError(errors.New("invalid arguments: url is required")), nil
		}

		text, err := svc.ReadThis(ctx, r.URL)
		if err != nil {
			return toolError(errors.New(describe(err))), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil
	})
}

func registerReloadManuals(srv *mcp.Server, svc readthis.Service) {
	tool := &mcp.Tool{
		Name:        ToolReloadManuals,
		Description: "Reload the manual file. A failed reload keeps the previous documents and reports success=false.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	srv.AddTool(tool, func(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := svc.ReloadManuals(ctx)
		data, err := json.Marshal(result)
		if err != nil {
			return toolError(fmt.Errorf("marshal: %w", err)), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

func toolError(err error) *mcp.CallToolResult {
	var res mcp.CallToolResult
	res.SetError(err)
	return &res
}

// describe renders err for a tool caller: the failing stage, the error code
// and the application message.
func describe(err error) string {
	msg := fmt.Sprintf("%s: %s", readthis.ErrorCode(err), readthis.ErrorMessage(err))
	if stage := readthis.ErrorStage(err); stage != "" {
		msg = fmt.Sprintf("%s failed: %s", stage, msg)
	}
	return msg
}
