package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rtconsole/catalog"
	"rtconsole/config"
	"rtconsole/model"
)

// Widget is the rendered form of one function call output. A widget whose
// arguments could not be used carries Err and renders as an inline error;
// it never affects the widgets around it.
type Widget struct {
	Function catalog.FunctionID
	Name     string
	CallID   string
	Title    string
	Err      error
	Warning  string

	raw  string
	body func(width int) []string
}

var (
	widgetBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(dimColor).
				Padding(0, 1)

	widgetErrorBorderStyle = widgetBorderStyle.
				BorderForeground(dangerColor)

	labelStyle   = lipgloss.NewStyle().Foreground(dimColor)
	valueStyle   = lipgloss.NewStyle().Bold(true)
	resultStyle  = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(dangerColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	rawStyle     = lipgloss.NewStyle().Foreground(dimColor)

	priorityStyles = map[string]lipgloss.Style{
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("7")).Bold(true).Padding(0, 1),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(warningColor).Bold(true).Padding(0, 1),
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(dangerColor).Bold(true).Padding(0, 1),
	}
)

// RenderOutput builds the widget for out, choosing the renderer by the
// catalog function its name resolves to.
func RenderOutput(out model.FunctionCallOutput) Widget {
	w := Widget{
		Function: out.Function(),
		Name:     out.Name,
		CallID:   out.CallID,
		raw:      out.RawJSON(),
	}

	if w.Function == catalog.FunctionUnknown {
		raw := w.raw
		w.Title = "Unknown function: " + out.Name
		w.body = func(int) []string { return strings.Split(raw, "\n") }
		return w
	}

	args, err := decodeArguments(out.Arguments)
	if err != nil {
		return w.failed(err)
	}

	if verr := catalog.Validate(out.Name, args); verr != nil {
		var ve *catalog.ValidationError
		if errors.As(verr, &ve) {
			w.Warning = strings.Join(ve.Problems, "; ")
		} else {
			w.Warning = verr.Error()
		}
	}

	switch w.Function {
	case catalog.FunctionColorPalette:
		err = w.palette(args)
	case catalog.FunctionWeather:
		err = w.weather(args)
	case catalog.FunctionCalculate:
		err = w.calculation(args)
	case catalog.FunctionTodo:
		err = w.todo(args)
	case catalog.FunctionQRCode:
		err = w.qrCode(args)
	case catalog.FunctionSuggestCase:
		err = w.suggestCase(args)
	}
	if err != nil {
		return w.failed(err)
	}
	return w
}

func (w Widget) failed(err error) Widget {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[UI] cannot render %s (%s): %v", w.Name, w.CallID, err)
	}
	w.Err = err
	w.Title = "Could not render " + w.Name
	w.Warning = ""
	w.body = func(int) []string { return []string{errorStyle.Render(err.Error())} }
	return w
}

// Raw returns the indented output JSON.
func (w Widget) Raw() string {
	return w.raw
}

// View renders the widget in a bordered box width cells wide. The raw JSON
// is appended when showRaw is set; unknown functions always show it.
func (w Widget) View(width int, showRaw bool) string {
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	lines := []string{TitleStyle.Render(w.Title)}
	if w.body != nil {
		lines = append(lines, w.body(inner)...)
	}
	if w.Warning != "" {
		lines = append(lines, warningStyle.Render("⚠ "+w.Warning))
	}
	if showRaw && w.Function != catalog.FunctionUnknown {
		lines = append(lines, "", rawStyle.Render(w.raw))
	}

	box := widgetBorderStyle
	if w.Err != nil || w.Function == catalog.FunctionUnknown {
		box = widgetErrorBorderStyle
	}
	return box.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

func decodeArguments(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("arguments are empty")
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("arguments are not a JSON object: %w", err)
	}
	return args, nil
}

func requireString(args map[string]any, field string) (string, error) {
	v, ok := args[field]
	if !ok || v == nil {
		return "", fmt.Errorf("missing %s", field)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", field)
	}
	return s, nil
}

// requireValue accepts any present, non-null value and formats it for display.
func requireValue(args map[string]any, field string) (string, error) {
	v, ok := args[field]
	if !ok || v == nil {
		return "", fmt.Errorf("missing %s", field)
	}
	return formatValue(v), nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	}
}

func field(label, value string) string {
	return labelStyle.Render(label+": ") + valueStyle.Render(value)
}

func (w *Widget) palette(args map[string]any) error {
	theme, err := requireString(args, "theme")
	if err != nil {
		return err
	}
	rawColors, ok := args["colors"].([]any)
	if !ok {
		return errors.New("colors must be an array")
	}
	colors := make([]string, 0, len(rawColors))
	for i, c := range rawColors {
		s, ok := c.(string)
		if !ok {
			return fmt.Errorf("colors[%d] must be a string", i)
		}
		colors = append(colors, s)
	}

	w.Title = "Color Palette"
	w.body = func(width int) []string {
		lines := []string{field("Theme", theme)}
		for _, c := range colors {
			lines = append(lines, swatch(c, width))
		}
		return lines
	}
	return nil
}

func swatch(hex string, width int) string {
	label := lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1).
		Render(hex)

	return lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Width(width).
		Align(lipgloss.Center).
		Render(label)
}

func (w *Widget) weather(args map[string]any) error {
	location, err := requireString(args, "location")
	if err != nil {
		return err
	}
	temperature, err := requireValue(args, "temperature")
	if err != nil {
		return err
	}
	condition, err := requireString(args, "condition")
	if err != nil {
		return err
	}
	humidity, err := requireValue(args, "humidity")
	if err != nil {
		return err
	}

	w.Title = "Weather for " + location
	w.body = func(int) []string {
		return []string{
			field("Temperature", temperature+"°F"),
			field("Condition", condition),
			field("Humidity", humidity+"%"),
		}
	}
	return nil
}

// calculation shows the result exactly as reported by the model.
func (w *Widget) calculation(args map[string]any) error {
	expression, err := requireString(args, "expression")
	if err != nil {
		return err
	}
	result, err := requireValue(args, "result")
	if err != nil {
		return err
	}

	w.Title = "Calculator"
	w.body = func(int) []string {
		return []string{
			field("Expression", expression),
			labelStyle.Render("Result: ") + resultStyle.Render(result),
		}
	}
	return nil
}

func (w *Widget) todo(args map[string]any) error {
	task, err := requireString(args, "task")
	if err != nil {
		return err
	}
	priority, err := requireString(args, "priority")
	if err != nil {
		return err
	}
	due, _ := args["due_date"].(string)

	w.Title = "Todo Created"
	w.body = func(int) []string {
		lines := []string{
			field("Task", task),
			labelStyle.Render("Priority: ") + priorityBadge(priority),
		}
		if due != "" {
			lines = append(lines, field("Due", due))
		}
		return lines
	}
	return nil
}

func priorityBadge(priority string) string {
	style, ok := priorityStyles[strings.ToLower(priority)]
	if !ok {
		style = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	}
	return style.Render(strings.ToUpper(priority))
}

func (w *Widget) qrCode(args map[string]any) error {
	content, err := requireString(args, "content")
	if err != nil {
		return err
	}
	size, err := requireValue(args, "size")
	if err != nil {
		return err
	}
	dims := size + "x" + size

	w.Title = "QR Code Generated"
	w.body = func(width int) []string {
		placeholder := lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(dimColor).
			Foreground(dimColor).
			Align(lipgloss.Center).
			Width(min(width-2, 40)).
			Render("QR Code would appear here\n(" + dims + "px)")

		return []string{
			field("Content", content),
			field("Size", dims+" pixels"),
			placeholder,
		}
	}
	return nil
}

func (w *Widget) suggestCase(args map[string]any) error {
	name, err := requireString(args, "case_name")
	if err != nil {
		return err
	}
	description, err := requireString(args, "case_description")
	if err != nil {
		return err
	}

	w.Title = "Suggested Case"
	w.body = func(width int) []string {
		desc := lipgloss.NewStyle().Width(width).Render(labelStyle.Render("Description: ") + description)
		return []string{field("Case Name", name), desc}
	}
	return nil
}
