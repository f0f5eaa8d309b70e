package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrMaxIterations is returned when the model keeps requesting tools past the
// iteration budget.
var ErrMaxIterations = errors.New("agent stopped after reaching the maximum number of iterations")

const (
	defaultMaxIterations = 8
	defaultTurnTimeout   = 5 * time.Minute
)

// Executor runs one agent turn: it sends the user input to the model,
// resolves every tool call the model makes and returns the final answer.
type Executor struct {
	model         ChatModel
	tools         *Registry
	systemPrompt  string
	maxIterations int
	turnTimeout   time.Duration
	logger        *slog.Logger
	verbose       bool
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithSystemPrompt sets the system message sent at the start of every turn.
func WithSystemPrompt(prompt string) ExecutorOption {
	return func(e *Executor) { e.systemPrompt = prompt }
}

// WithMaxIterations bounds the number of model calls per turn.
func WithMaxIterations(n int) ExecutorOption {
	return func(e *Executor) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// WithTurnTimeout bounds the wall time of a single turn.
func WithTurnTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		if d > 0 {
			e.turnTimeout = d
		}
	}
}

// WithExecutorLogger sets the logger for turn diagnostics.
func WithExecutorLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = logger }
}

// WithVerbose logs every tool call and its result at info level.
func WithVerbose(verbose bool) ExecutorOption {
	return func(e *Executor) { e.verbose = verbose }
}

// NewExecutor creates an Executor for the given model and tool table.
func NewExecutor(model ChatModel, tools *Registry, opts ...ExecutorOption) *Executor {
	e := &Executor{
		model:         model,
		tools:         tools,
		maxIterations: defaultMaxIterations,
		turnTimeout:   defaultTurnTimeout,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run answers a single user input. Each call starts a fresh transcript.
func (e *Executor) Run(ctx context.Context, input string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.turnTimeout)
	defer cancel()

	var messages []Message
	if e.systemPrompt != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: e.systemPrompt})
	}
	messages = append(messages, Message{Role: RoleUser, Content: input})

	tools := e.tools.Tools()
	for i := 0; i < e.maxIterations; i++ {
		reply, err := e.model.Complete(ctx, messages, tools)
		if err != nil {
			return "", fmt.Errorf("model call %d: %w", i+1, err)
		}

		if len(reply.ToolCalls) == 0 {
			return strings.TrimSpace(reply.Content), nil
		}

		for j := range reply.ToolCalls {
			if reply.ToolCalls[j].ID == "" {
				reply.ToolCalls[j].ID = "call_" + uuid.NewString()
			}
		}
		messages = append(messages, reply)

		for _, call := range reply.ToolCalls {
			result := e.tools.Call(ctx, call.Name, call.Arguments)
			if e.verbose {
				e.logger.Info("tool call", "tool", call.Name, "arguments", call.Arguments, "result_bytes", len(result))
			} else {
				e.logger.Debug("tool call", "tool", call.Name, "arguments", call.Arguments)
			}
			messages = append(messages, Message{
				Role:       RoleTool,
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}

	return "", ErrMaxIterations
}
