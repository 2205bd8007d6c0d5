package provider

import (
	"context"
	"fmt"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"

	"rtconsole/catalog"
	"rtconsole/config"
	"rtconsole/ollama"
)

// OllamaProvider wraps ollama.Client to implement Provider.
type OllamaProvider struct {
	client *ollama.Client
}

// NewOllamaProvider creates a new Ollama provider instance.
//
// Parameters:
//   - baseURL: The Ollama server URL (default: "http://localhost:11434")
//   - model: The model name to use (default: "llama3.1:latest")
func NewOllamaProvider(baseURL, model string) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, model)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &OllamaProvider{client: client}, nil
}

// ChatWithTools implements Provider.ChatWithTools. Tools are dropped for
// models that are known not to support tool calling; the turn still runs as
// plain chat.
func (p *OllamaProvider) ChatWithTools(ctx context.Context, messages []Message, tools []mcptypes.Tool, callback StreamCallback) error {
	var ollamaTools []api.Tool
	if len(tools) > 0 {
		if p.client.SupportsToolCalling() {
			messages = append([]Message{{Role: "system", Content: buildToolInstructions(tools)}}, messages...)
			ollamaTools = catalog.OllamaTools(tools)
		} else if config.DebugLog != nil {
			config.DebugLog.Printf("[Provider] %s does not support tool calling, sending plain chat", p.client.GetModel())
		}
	}

	return p.client.ChatWithTools(ctx, toOllamaMessages(messages), ollamaTools, func(chunk string, calls []api.ToolCall) error {
		if callback == nil {
			return nil
		}
		return callback(chunk, fromOllamaToolCalls(calls))
	})
}

func (p *OllamaProvider) GetModel() string {
	return p.client.GetModel()
}

func (p *OllamaProvider) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx); err != nil {
		return fmt.Errorf("Ollama ping failed: %w", err)
	}
	return nil
}
