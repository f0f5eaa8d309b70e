package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"loki-agent/internal/agent"
	"loki-agent/internal/telemetry/logs"

	last9mcp "github.com/last9/mcp-go-sdk/mcp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// registerAllTools registers all tools with the MCP server
func registerAllTools(server *last9mcp.Last9MCPServer, lokiClient *logs.Client) error {
	last9mcp.RegisterInstrumentedTool(server, &mcp.Tool{
		Name:        logs.QueryLokiLogsToolName,
		Description: logs.QueryLokiLogsDescription,
	}, logs.NewQueryLokiLogsHandler(lokiClient))

	return nil
}

// queryLokiLogsParameters is the argument schema advertised to the chat model.
var queryLokiLogsParameters = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"query": {
			Type:        jsonschema.String,
			Description: `The LogQL query string, e.g. {job="system_logs"} |= "error"`,
		},
		"time_range_minutes": {
			Type:        jsonschema.Integer,
			Description: "How many minutes back from now to query. Default is 60.",
		},
		"limit": {
			Type:        jsonschema.Integer,
			Description: "Maximum number of log lines to return. Default is 100.",
		},
		"direction": {
			Type:        jsonschema.String,
			Enum:        []string{"forward", "backward"},
			Description: `"forward" for oldest first, "backward" for newest first. Default is "backward".`,
		},
	},
	Required: []string{"query"},
}

// newAgentRegistry builds the tool table used by the interactive agent.
func newAgentRegistry(lokiClient *logs.Client) (*agent.Registry, error) {
	registry := agent.NewRegistry()
	err := registry.Register(agent.Tool{
		Name:        logs.QueryLokiLogsToolName,
		Description: logs.QueryLokiLogsDescription,
		Parameters:  queryLokiLogsParameters,
		Invoke: func(ctx context.Context, raw json.RawMessage) string {
			var args toolArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return fmt.Sprintf("Invalid query parameters: %v", err)
			}
			return lokiClient.QueryLokiLogs(ctx, args.request()).Text()
		},
	})
	if err != nil {
		return nil, err
	}
	return registry, nil
}

// toolArgs mirrors logs.QueryRequest but tolerates numbers sent as strings,
// which smaller local models often do.
type toolArgs struct {
	Query            string  `json:"query"`
	TimeRangeMinutes flexInt `json:"time_range_minutes"`
	Limit            flexInt `json:"limit"`
	Direction        string  `json:"direction"`
}

func (a toolArgs) request() logs.QueryRequest {
	return logs.QueryRequest{
		Query:            a.Query,
		TimeRangeMinutes: int(a.TimeRangeMinutes),
		Limit:            int(a.Limit),
		Direction:        a.Direction,
	}
}

type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("expected an integer, got %s", b)
	}
	if f != float64(int(f)) {
		return fmt.Errorf("expected an integer, got %s", b)
	}
	*n = flexInt(f)
	return nil
}
