// Package catalog declares the functions the model may call during a session.
//
// The set is closed: six functions, declared once, in a fixed order. Every
// other package refers to them through FunctionID, and an unrecognized name
// maps to FunctionUnknown instead of failing.
package catalog

import (
	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// FunctionID identifies a catalog function.
type FunctionID int

const (
	FunctionUnknown FunctionID = iota
	FunctionColorPalette
	FunctionWeather
	FunctionCalculate
	FunctionTodo
	FunctionQRCode
	FunctionSuggestCase
)

// Wire names, as the model sends them in function_call items.
const (
	NameColorPalette = "display_color_palette"
	NameWeather      = "get_weather"
	NameCalculate    = "calculate"
	NameTodo         = "create_todo"
	NameQRCode       = "generate_qr_code"
	NameSuggestCase  = "suggest_case"
)

func (id FunctionID) String() string {
	switch id {
	case FunctionColorPalette:
		return NameColorPalette
	case FunctionWeather:
		return NameWeather
	case FunctionCalculate:
		return NameCalculate
	case FunctionTodo:
		return NameTodo
	case FunctionQRCode:
		return NameQRCode
	case FunctionSuggestCase:
		return NameSuggestCase
	default:
		return "unknown"
	}
}

// Param describes one argument of a function.
type Param struct {
	Name        string
	Type        string // "string", "number" or "array"
	Description string
	Required    bool
	Enum        []string
	ItemType    string // element type when Type is "array"
}

// FunctionSpec is the declaration of one callable function.
type FunctionSpec struct {
	ID          FunctionID
	Name        string
	Description string
	Params      []Param
}

var specs = []FunctionSpec{
	{
		ID:          FunctionColorPalette,
		Name:        NameColorPalette,
		Description: "Call this function when a user asks for a color palette.",
		Params: []Param{
			{Name: "theme", Type: "string", Description: "Description of the theme for the color scheme.", Required: true},
			{Name: "colors", Type: "array", Description: "Array of five hex color codes based on the theme.", Required: true, ItemType: "string"},
		},
	},
	{
		ID:          FunctionWeather,
		Name:        NameWeather,
		Description: "Get current weather information for a location.",
		Params: []Param{
			{Name: "location", Type: "string", Description: "The city and state/country, e.g. 'San Francisco, CA'", Required: true},
			{Name: "temperature", Type: "number", Description: "Temperature in Fahrenheit", Required: true},
			{Name: "condition", Type: "string", Description: "Weather condition (e.g., sunny, cloudy, rainy)", Required: true},
			{Name: "humidity", Type: "number", Description: "Humidity percentage", Required: true},
		},
	},
	{
		ID:          FunctionCalculate,
		Name:        NameCalculate,
		Description: "Perform mathematical calculations.",
		Params: []Param{
			{Name: "expression", Type: "string", Description: "The mathematical expression to evaluate", Required: true},
			{Name: "result", Type: "number", Description: "The result of the calculation", Required: true},
		},
	},
	{
		ID:          FunctionTodo,
		Name:        NameTodo,
		Description: "Create a new todo item.",
		Params: []Param{
			{Name: "task", Type: "string", Description: "The task description", Required: true},
			{Name: "priority", Type: "string", Description: "Priority level of the task", Required: true, Enum: []string{"low", "medium", "high"}},
			{Name: "due_date", Type: "string", Description: "Due date in YYYY-MM-DD format"},
		},
	},
	{
		ID:          FunctionQRCode,
		Name:        NameQRCode,
		Description: "Generate a QR code for given text or URL.",
		Params: []Param{
			{Name: "content", Type: "string", Description: "The text or URL to encode in the QR code", Required: true},
			{Name: "size", Type: "number", Description: "Size of the QR code in pixels", Required: true},
		},
	},
	{
		ID:          FunctionSuggestCase,
		Name:        NameSuggestCase,
		Description: "Suggest a case to the customer based on their request.",
		Params: []Param{
			{Name: "case_name", Type: "string", Description: "The name of the case to suggest.", Required: true},
			{Name: "case_description", Type: "string", Description: "A brief description of the case.", Required: true},
		},
	},
}

// Lookup maps a wire name to its FunctionID. Unknown names yield FunctionUnknown.
func Lookup(name string) FunctionID {
	for _, s := range specs {
		if s.Name == name {
			return s.ID
		}
	}
	return FunctionUnknown
}

// Get returns a copy of the named spec.
func Get(name string) (FunctionSpec, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s.clone(), true
		}
	}
	return FunctionSpec{}, false
}

// All returns copies of every spec in declaration order.
func All() []FunctionSpec {
	out := make([]FunctionSpec, len(specs))
	for i, s := range specs {
		out[i] = s.clone()
	}
	return out
}

// Names returns the wire names in declaration order.
func Names() []string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}

func (s FunctionSpec) clone() FunctionSpec {
	params := make([]Param, len(s.Params))
	for i, p := range s.Params {
		if p.Enum != nil {
			p.Enum = append([]string(nil), p.Enum...)
		}
		params[i] = p
	}
	s.Params = params
	return s
}

// Param returns the named parameter.
func (s FunctionSpec) Param(name string) (Param, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Required lists required parameter names in declaration order.
func (s FunctionSpec) Required() []string {
	var req []string
	for _, p := range s.Params {
		if p.Required {
			req = append(req, p.Name)
		}
	}
	return req
}

// Tool expresses the spec as an MCP tool descriptor. Every outbound tool
// format is derived from this one value.
func (s FunctionSpec) Tool() mcptypes.Tool {
	props := make(map[string]any, len(s.Params))
	for _, p := range s.Params {
		props[p.Name] = p.schema()
	}
	return mcptypes.Tool{
		Name:        s.Name,
		Description: s.Description,
		InputSchema: mcptypes.ToolInputSchema{
			Type:       "object",
			Properties: props,
			Required:   s.Required(),
		},
	}
}

func (p Param) schema() map[string]any {
	m := map[string]any{
		"type":        p.Type,
		"description": p.Description,
	}
	if len(p.Enum) > 0 {
		enum := make([]any, len(p.Enum))
		for i, v := range p.Enum {
			enum[i] = v
		}
		m["enum"] = enum
	}
	if p.Type == "array" && p.ItemType != "" {
		m["items"] = map[string]any{"type": p.ItemType}
	}
	return m
}

// Tools returns the MCP descriptor for every spec in declaration order.
func Tools() []mcptypes.Tool {
	tools := make([]mcptypes.Tool, len(specs))
	for i, s := range specs {
		tools[i] = s.Tool()
	}
	return tools
}
