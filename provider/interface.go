// Package provider runs the realtime event protocol over text chat APIs.
//
// The console is written against the realtime session events (session.created,
// response.done, ...). Not every account has realtime access, so this package
// offers a Bridge that accepts the same client commands and answers with the
// same server events, backed by a chat completion Provider:
//
//   - provider.OpenAIProvider uses openai-go chat completions
//   - provider.AnthropicProvider uses the Anthropic messages API
//   - provider.OllamaProvider uses a local Ollama server
//   - provider.Simulator answers from keyword rules, offline
//
// Tool calls returned by a provider become function_call output items, so the
// session controller and the widget renderer cannot tell the difference.
//
// # Usage
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:  provider.ProviderTypeOllama,
//	    Model: "llama3.1",
//	})
//	if err != nil {
//	    // handle error
//	}
//	bridge := provider.NewBridge(p, provider.BridgeOptions{})
//	defer bridge.Close()
package provider

import (
	"context"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama    ProviderType = "ollama"
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeAnthropic ProviderType = "anthropic"
	ProviderTypeSimulator ProviderType = "simulator"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // For OpenAI/Anthropic (unused for Ollama and the simulator)
}

// Message is one chat turn in provider-agnostic form.
type Message struct {
	Role    string
	Content string
}

// ToolCall is a function call requested by the model. Arguments is the JSON
// object text exactly as the provider produced it.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// StreamCallback receives text chunks and completed tool calls as they arrive.
// Returning an error aborts the turn.
type StreamCallback func(chunk string, toolCalls []ToolCall) error

// Provider is a chat completion backend.
type Provider interface {
	// ChatWithTools runs one turn. System messages in messages are passed the
	// way the backend expects them.
	ChatWithTools(ctx context.Context, messages []Message, tools []mcptypes.Tool, callback StreamCallback) error

	// GetModel returns the model name used for API calls.
	GetModel() string

	// Ping checks that the backend is reachable and the credentials work.
	Ping(ctx context.Context) error
}
