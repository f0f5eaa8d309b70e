package logs

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewQueryLokiLogsHandler creates a handler for the query_loki_logs tool.
// Error outcomes are returned as tool results flagged IsError rather than
// protocol errors, so the calling model can read and react to them.
func NewQueryLokiLogsHandler(client *Client) func(context.Context, *mcp.CallToolRequest, QueryRequest) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args QueryRequest) (*mcp.CallToolResult, any, error) {
		outcome := client.QueryLokiLogs(ctx, args)

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{
					Text: outcome.Text(),
				},
			},
			IsError: outcome.IsError(),
		}, nil, nil
	}
}
