package main

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// makeRequest constructs a GetPromptRequest with the given arguments.
func makeRequest(name string, args map[string]string) *mcp.GetPromptRequest {
	return &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestLokiLogAnalysisPrompt_NoArgs(t *testing.T) {
	handler := makePromptHandler(promptDefs[0])
	result, err := handler(context.Background(), makeRequest("loki-log-analysis", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(result.Messages))
	}
	if result.Messages[0].Role != mcp.Role("user") {
		t.Errorf("expected user role, got %s", result.Messages[0].Role)
	}
	text := result.Messages[0].Content.(*mcp.TextContent).Text
	for _, want := range []string{"Grafana Loki", "query_loki_logs", "count_over_time", "Markdown"} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt should mention %q", want)
		}
	}
	if strings.Contains(text, "Question:") {
		t.Error("prompt without question argument should not contain a question")
	}
}

func TestLokiLogAnalysisPrompt_WithQuestion(t *testing.T) {
	handler := makePromptHandler(promptDefs[0])
	result, err := handler(context.Background(), makeRequest("loki-log-analysis", map[string]string{
		"question": "  How many nginx errors in the last hour?  ",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := result.Messages[0].Content.(*mcp.TextContent).Text
	if !strings.HasSuffix(text, "\n\nQuestion: How many nginx errors in the last hour?") {
		t.Errorf("question not appended, got suffix %q", text[len(text)-60:])
	}
	if result.Description != promptDefs[0].prompt.Description {
		t.Errorf("Description = %q", result.Description)
	}
}
