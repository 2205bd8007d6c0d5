package provider

import (
	"encoding/json"

	"github.com/ollama/ollama/api"
)

func toOllamaMessages(messages []Message) []api.Message {
	result := make([]api.Message, len(messages))
	for i, msg := range messages {
		result[i] = api.Message{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}
	return result
}

// fromOllamaToolCalls re-encodes the decoded argument map. Ollama does not
// assign call ids, so ID is left empty.
func fromOllamaToolCalls(calls []api.ToolCall) []ToolCall {
	if len(calls) == 0 {
		return nil
	}

	result := make([]ToolCall, 0, len(calls))
	for _, call := range calls {
		args, err := json.Marshal(call.Function.Arguments)
		if err != nil {
			args = []byte("{}")
		}
		result = append(result, ToolCall{
			Name:      call.Function.Name,
			Arguments: normalizeArguments(string(args)),
		})
	}
	return result
}

// normalizeArguments maps empty or null arguments to "{}" so every emitted
// function_call carries a JSON object. Anything else is passed through, even
// if malformed; the renderer reports bad JSON per output.
func normalizeArguments(args string) string {
	switch args {
	case "", "null":
		return "{}"
	}
	return args
}
