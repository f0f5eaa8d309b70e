package main

import (
	"context"
	"strings"

	"loki-agent/internal/prompts"

	last9mcp "github.com/last9/mcp-go-sdk/mcp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// promptDef defines a prompt's metadata and the text it expands to.
type promptDef struct {
	prompt *mcp.Prompt
	body   string
}

var promptDefs = []promptDef{
	{
		prompt: &mcp.Prompt{
			Name:        "loki-log-analysis",
			Title:       "Loki Log Analysis",
			Description: "Answer a question about logs stored in Grafana Loki by translating it into LogQL and running it with the query_loki_logs tool.",
			Arguments: []*mcp.PromptArgument{
				{Name: "question", Description: "The question to answer, in natural language", Required: false},
			},
		},
		body: prompts.SystemPrompt,
	},
}

// registerAllPrompts registers all prompts with the MCP server.
func registerAllPrompts(server *last9mcp.Last9MCPServer) {
	for _, def := range promptDefs {
		server.Server.AddPrompt(def.prompt, makePromptHandler(def))
	}
}

// makePromptHandler returns a PromptHandler closure for the given prompt
// definition. A non-empty question argument is appended to the instructions.
func makePromptHandler(def promptDef) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		text := strings.TrimSpace(def.body)

		var args map[string]string
		if req.Params != nil {
			args = req.Params.Arguments
		}
		if question := strings.TrimSpace(args["question"]); question != "" {
			text += "\n\nQuestion: " + question
		}

		return &mcp.GetPromptResult{
			Description: def.prompt.Description,
			Messages: []*mcp.PromptMessage{
				{
					Role:    mcp.Role("user"),
					Content: &mcp.TextContent{Text: text},
				},
			},
		}, nil
	}
}
