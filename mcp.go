package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/Oloruntobi1/tui-flamegraph/internal/flamegraph"
)

const mcpVersion = "1.0.0"

type mcpCmd struct{}

func (c *mcpCmd) Run(loader *Loader, log *zap.Logger) error {
	log.Info("Serving MCP over stdio")
	return server.ServeStdio(newMCPServer(loader, log))
}

// newMCPServer exposes the table and the renderer as MCP tools.
func newMCPServer(loader *Loader, log *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		appName,
		mcpVersion,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)

	tableTool := mcp.NewTool("flamegraph_table",
		mcp.WithDescription("Summarise a profile per function: self and total time, sorted. Use it to find the hottest functions."),
		mcp.WithString("profile",
			mcp.Required(),
			mcp.Description("Path or http(s) URL of a flamebearer JSON, pprof or collapsed-stack profile"),
		),
		mcp.WithString("sort",
			mcp.Description("Column to sort by"),
			mcp.Enum("name", "self", "total"),
			mcp.DefaultString("self"),
		),
		mcp.WithString("order",
			mcp.Description("Sort direction, largest or last name first by default"),
			mcp.Enum("desc", "asc"),
			mcp.DefaultString("desc"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of rows"),
			mcp.DefaultNumber(20),
		),
	)
	s.AddTool(tableTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		source, err := request.RequireString("profile")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		p, err := loader.Load(ctx, source)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to load profile: %v", err)), nil
		}
		if p.Empty() {
			return mcp.NewToolResultText(noDataMessage), nil
		}

		key, ok := flamegraph.ParseSortKey(request.GetString("sort", "self"))
		if !ok {
			return mcp.NewToolResultError("sort must be one of name, self, total"), nil
		}
		s := flamegraph.TableSort{Key: key}
		switch request.GetString("order", "desc") {
		case "desc":
		case "asc":
			s.Direction = flamegraph.Ascending
		default:
			return mcp.NewToolResultError("order must be one of desc, asc"), nil
		}
		rows := tableRows(p, s, request.GetInt("limit", 20))
		return mcp.NewToolResultText(formatTable(p, rows)), nil
	})

	renderTool := mcp.NewTool("flamegraph_render",
		mcp.WithDescription("Render a profile as a flame graph PNG, optionally zoomed into one function and highlighting a search term."),
		mcp.WithString("profile",
			mcp.Required(),
			mcp.Description("Path or http(s) URL of a flamebearer JSON, pprof or collapsed-stack profile"),
		),
		mcp.WithString("query",
			mcp.Description("Highlight frames whose name contains this text"),
		),
		mcp.WithString("focus",
			mcp.Description("Zoom into the first frame with exactly this name"),
		),
		mcp.WithNumber("width",
			mcp.Description("Image width in pixels"),
			mcp.DefaultNumber(1200),
			mcp.Min(100),
		),
	)
	s.AddTool(renderTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		source, err := request.RequireString("profile")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		p, err := loader.Load(ctx, source)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to load profile: %v", err)), nil
		}

		img, err := renderImage(p, renderOptions{
			Width: request.GetFloat("width", 1200),
			Query: request.GetString("query", ""),
			Focus: request.GetString("focus", ""),
		}, log)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
		log.Debug("Rendered flame graph for MCP", zap.String("profile", source), zap.Int("bytes", buf.Len()))
		return mcp.NewToolResultImage(
			fmt.Sprintf("Flame graph of %s", source),
			base64.StdEncoding.EncodeToString(buf.Bytes()),
			"image/png",
		), nil
	})

	return s
}
