package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Tool is a named operation the model may call. Description and Parameters
// are metadata shown to the model; Invoke does the work and always answers
// with text the model can read.
type Tool struct {
	Name        string
	Description string
	Parameters  any // JSON schema of the arguments object
	Invoke      func(ctx context.Context, args json.RawMessage) string
}

// Registry is the tool table consulted when the model requests a call.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Names must be unique.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return errors.New("tool name is required")
	}
	if t.Invoke == nil {
		return fmt.Errorf("tool %q has no Invoke function", t.Name)
	}
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("tool %q already registered", t.Name)
	}
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
	return nil
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Call dispatches a tool call by name. Unknown names and malformed arguments
// are reported back to the model as text.
func (r *Registry) Call(ctx context.Context, name, arguments string) string {
	t, ok := r.tools[name]
	if !ok {
		return fmt.Sprintf("Error: tool %q does not exist. Available tools: %v", name, r.order)
	}
	if arguments == "" {
		arguments = "{}"
	}
	if !json.Valid([]byte(arguments)) {
		return fmt.Sprintf("Error: arguments for tool %q are not valid JSON: %s", name, arguments)
	}
	return t.Invoke(ctx, json.RawMessage(arguments))
}
