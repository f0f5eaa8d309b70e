package agent

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	noop := func(context.Context, json.RawMessage) string { return "ok" }

	require.NoError(t, r.Register(Tool{Name: "b", Invoke: noop}))
	require.NoError(t, r.Register(Tool{Name: "a", Invoke: noop}))

	assert.Error(t, r.Register(Tool{Name: "a", Invoke: noop}), "duplicate names are rejected")
	assert.Error(t, r.Register(Tool{Name: "", Invoke: noop}))
	assert.Error(t, r.Register(Tool{Name: "c"}))

	names := []string{}
	for _, tool := range r.Tools() {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"b", "a"}, names, "registration order is kept")

	_, ok := r.Lookup("a")
	assert.True(t, ok)
	_, ok = r.Lookup("zzz")
	assert.False(t, ok)
}

func TestRegistryCall(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Tool{
		Name: "echo",
		Invoke: func(_ context.Context, args json.RawMessage) string {
			return string(args)
		},
	}))

	ctx := context.Background()
	assert.Equal(t, `{"x":1}`, r.Call(ctx, "echo", `{"x":1}`))
	assert.Equal(t, `{}`, r.Call(ctx, "echo", ""))
	assert.Contains(t, r.Call(ctx, "echo", `{"x":`), "not valid JSON")
	assert.Contains(t, r.Call(ctx, "nope", `{}`), `tool "nope" does not exist`)
}
