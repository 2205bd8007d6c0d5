package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError lists every problem found in one set of arguments.
type ValidationError struct {
	Function string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s arguments: %s", e.Function, strings.Join(e.Problems, "; "))
}

// PaletteSize is the number of colors a palette call must carry.
const PaletteSize = 5

// Validate checks decoded arguments against the named spec: required fields,
// JSON types, enum membership, and the palette size. It is advisory; callers
// still render what they can.
func Validate(name string, args map[string]any) error {
	spec, ok := Get(name)
	if !ok {
		return fmt.Errorf("unknown function %q", name)
	}

	var problems []string
	for _, p := range spec.Params {
		v, present := args[p.Name]
		if !present || v == nil {
			if p.Required {
				problems = append(problems, fmt.Sprintf("missing %s", p.Name))
			}
			continue
		}
		if !hasType(v, p.Type) {
			problems = append(problems, fmt.Sprintf("%s must be a %s", p.Name, p.Type))
			continue
		}
		if p.Required && p.Type == "string" && v.(string) == "" {
			problems = append(problems, fmt.Sprintf("%s is empty", p.Name))
		}
		if len(p.Enum) > 0 && !slices.Contains(p.Enum, v.(string)) {
			problems = append(problems, fmt.Sprintf("%s must be one of %s", p.Name, strings.Join(p.Enum, ", ")))
		}
	}

	if spec.ID == FunctionColorPalette {
		if colors, ok := args["colors"].([]any); ok && len(colors) != PaletteSize {
			problems = append(problems, fmt.Sprintf("expected %d colors, got %d", PaletteSize, len(colors)))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Function: name, Problems: problems}
	}
	return nil
}

func hasType(v any, typ string) bool {
	switch typ {
	case "string":
		_, ok := v.(string)
		return ok
	case "number":
		switch v.(type) {
		case float64, float32, int, int64:
			return true
		}
		return false
	case "array":
		_, ok := v.([]any)
		return ok
	default:
		return true
	}
}
