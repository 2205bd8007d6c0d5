package provider

import (
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// buildToolInstructions is the system preamble sent ahead of the session
// instructions whenever tools are advertised. The widgets only render tool
// calls, so the model is pushed to call rather than describe.
func buildToolInstructions(tools []mcptypes.Tool) string {
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
	}

	return strings.Join([]string{
		"TOOLS: " + strings.Join(names, ", "),
		"",
		"When a request matches a tool, call it with every required argument filled in.",
		"Compute values yourself (palette colors, weather figures, calculation results)",
		"and pass them as arguments. Several tools may be called in one turn.",
		"",
		"DO NOT:",
		"- List available tools",
		"- Describe the call instead of making it",
	}, "\n")
}
