package catalog

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
)

// RealtimeTool is the tool shape carried in a realtime session.update:
//
//	{"type": "function", "name": "...", "description": "...", "parameters": {...}}
//
// Unlike chat completions there is no nested "function" object.
type RealtimeTool struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// RealtimeTools converts MCP tools to the realtime session format.
func RealtimeTools(tools []mcptypes.Tool) []RealtimeTool {
	out := make([]RealtimeTool, 0, len(tools))
	for _, tool := range tools {
		out = append(out, RealtimeTool{
			Type:        "function",
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  schemaMap(tool.InputSchema),
		})
	}
	return out
}

func schemaMap(in mcptypes.ToolInputSchema) map[string]any {
	params := map[string]any{
		"type":       in.Type,
		"properties": in.Properties,
	}
	if len(in.Required) > 0 {
		params["required"] = in.Required
	}
	return params
}

// OpenAITools converts MCP tools to chat completion function tools.
func OpenAITools(tools []mcptypes.Tool) []openai.ChatCompletionToolUnionParam {
	if len(tools) == 0 {
		return nil
	}

	result := make([]openai.ChatCompletionToolUnionParam, len(tools))
	for i, tool := range tools {
		result[i] = openai.ChatCompletionFunctionTool(
			openai.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters:  openai.FunctionParameters(schemaMap(tool.InputSchema)),
			},
		)
	}
	return result
}

// AnthropicTools converts MCP tools to Anthropic tool params. The input
// schema type defaults to "object" when omitted.
func AnthropicTools(tools []mcptypes.Tool) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}

	result := make([]anthropic.ToolUnionParam, len(tools))
	for i, tool := range tools {
		inputSchema := anthropic.ToolInputSchemaParam{
			Properties: tool.InputSchema.Properties,
		}
		if len(tool.InputSchema.Required) > 0 {
			inputSchema.Required = tool.InputSchema.Required
		}

		result[i] = anthropic.ToolUnionParamOfTool(inputSchema, tool.Name)
		if tool.Description != "" {
			result[i].OfTool.Description = anthropic.String(tool.Description)
		}
	}
	return result
}

// OllamaTools converts MCP tools to Ollama API tools.
func OllamaTools(tools []mcptypes.Tool) []api.Tool {
	out := make([]api.Tool, 0, len(tools))
	for _, tool := range tools {
		params := api.ToolFunctionParameters{
			Type:       tool.InputSchema.Type,
			Required:   tool.InputSchema.Required,
			Properties: make(map[string]api.ToolProperty),
		}
		for name, prop := range tool.InputSchema.Properties {
			params.Properties[name] = ollamaProperty(prop)
		}

		out = append(out, api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  params,
			},
		})
	}
	return out
}

func ollamaProperty(value any) api.ToolProperty {
	prop := api.ToolProperty{}

	m, ok := value.(map[string]any)
	if !ok {
		raw, err := json.Marshal(value)
		if err != nil {
			return prop
		}
		if err := json.Unmarshal(raw, &m); err != nil {
			return prop
		}
	}

	if t, ok := m["type"].(string); ok {
		prop.Type = api.PropertyType{t}
	}
	if desc, ok := m["description"].(string); ok {
		prop.Description = desc
	}
	if enum, ok := m["enum"].([]any); ok {
		prop.Enum = enum
	}
	if items, ok := m["items"]; ok {
		prop.Items = items
	}
	return prop
}
