package testutil

import (
	"context"
	"sync"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"rtconsole/provider"
)

// MockProvider implements provider.Provider for testing. Every call to
// ChatWithTools is recorded before ChatFunc runs.
type MockProvider struct {
	ChatFunc func(ctx context.Context, messages []provider.Message, tools []mcptypes.Tool, callback provider.StreamCallback) error
	PingFunc func(ctx context.Context) error

	mu    sync.Mutex
	calls []Call
	model string
}

// Call is one recorded ChatWithTools invocation.
type Call struct {
	Messages []provider.Message
	Tools    []mcptypes.Tool
}

// NewMockProvider creates a mock that answers every turn with "Mock response".
func NewMockProvider(modelName string) *MockProvider {
	return &MockProvider{
		model: modelName,
		ChatFunc: func(ctx context.Context, messages []provider.Message, tools []mcptypes.Tool, callback provider.StreamCallback) error {
			return callback("Mock response", nil)
		},
		PingFunc: func(ctx context.Context) error { return nil },
	}
}

// Replying makes every turn answer with text and calls.
func (m *MockProvider) Replying(text string, calls ...provider.ToolCall) *MockProvider {
	m.ChatFunc = func(ctx context.Context, messages []provider.Message, tools []mcptypes.Tool, callback provider.StreamCallback) error {
		if text != "" {
			if err := callback(text, nil); err != nil {
				return err
			}
		}
		if len(calls) > 0 {
			return callback("", calls)
		}
		return nil
	}
	return m
}

func (m *MockProvider) ChatWithTools(ctx context.Context, messages []provider.Message, tools []mcptypes.Tool, callback provider.StreamCallback) error {
	m.mu.Lock()
	m.calls = append(m.calls, Call{
		Messages: append([]provider.Message(nil), messages...),
		Tools:    append([]mcptypes.Tool(nil), tools...),
	})
	m.mu.Unlock()
	return m.ChatFunc(ctx, messages, tools, callback)
}

func (m *MockProvider) GetModel() string {
	return m.model
}

func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}

// Calls returns a copy of the recorded invocations.
func (m *MockProvider) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}
