package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"rtconsole/calc"
	"rtconsole/cases"
	"rtconsole/catalog"
	"rtconsole/helpers"
	"rtconsole/model"
)

const simulatorModel = "simulator"

// SimulatorFallbackReply is the text reply when no rule matches.
const SimulatorFallbackReply = "I can make a color palette, look up the weather, calculate, create a todo or a QR code. What would you like?"

const simulatorFeedbackReply = "Those colors sit well together; the palette feels cohesive and balanced."

var (
	exprPattern    = regexp.MustCompile(`[-(]*\d[\d\s.+\-*/()]*`)
	opPattern      = regexp.MustCompile(`\d\)*\s+[-+*/]\s+\(*-?\d`)
	datePattern    = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	urlPattern     = regexp.MustCompile(`https?://[^\s'"]+`)
	emailPattern   = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.]+`)
	quotedPattern  = regexp.MustCompile(`'([^']+)'|"([^"]+)"`)
	pixelPattern   = regexp.MustCompile(`(\d+)\s*px`)
	trailingPunct  = ".?!,;"
	todoTaskCutoff = []string{" with ", ", due", " due "}
)

// Simulator is an offline Provider. It answers the last user message with
// function calls chosen by keyword rules, computing arguments with the mock
// helpers, and falls back to a case suggestion.
type Simulator struct {
	catalog   cases.Catalog
	direction cases.Direction
	now       func() time.Time
}

// NewSimulator creates a simulator that suggests cases from c.
func NewSimulator(c cases.Catalog, dir cases.Direction) *Simulator {
	return &Simulator{catalog: c, direction: dir, now: time.Now}
}

func (s *Simulator) GetModel() string {
	return simulatorModel
}

func (s *Simulator) Ping(ctx context.Context) error {
	return nil
}

// ChatWithTools only emits calls for functions present in tools. With no
// tools it always answers in text.
func (s *Simulator) ChatWithTools(ctx context.Context, messages []Message, tools []mcptypes.Tool, callback StreamCallback) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	prompt := lastUserMessage(messages)
	if strings.EqualFold(strings.TrimSpace(prompt), model.PaletteFeedbackInstructions) {
		return s.reply(callback, simulatorFeedbackReply, nil)
	}

	allowed := make(map[string]bool, len(tools))
	for _, t := range tools {
		allowed[t.Name] = true
	}

	calls, err := s.Respond(prompt)
	if err != nil {
		return err
	}

	filtered := calls[:0]
	for _, c := range calls {
		if allowed[c.Name] {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return s.reply(callback, SimulatorFallbackReply, nil)
	}
	return s.reply(callback, "", filtered)
}

func (s *Simulator) reply(callback StreamCallback, text string, calls []ToolCall) error {
	if callback == nil {
		return nil
	}
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

// Respond applies the keyword rules to prompt. Several rules may fire for
// one prompt, in catalog order. A case suggestion is only tried when no
// other rule fired.
func (s *Simulator) Respond(prompt string) ([]ToolCall, error) {
	lower := strings.ToLower(prompt)
	var calls []ToolCall

	add := func(name string, args any) error {
		raw, err := json.Marshal(args)
		if err != nil {
			return fmt.Errorf("failed to encode %s arguments: %w", name, err)
		}
		calls = append(calls, ToolCall{Name: name, Arguments: string(raw)})
		return nil
	}

	if strings.Contains(lower, "palette") || strings.Contains(lower, "color") || strings.Contains(lower, "colour") {
		if err := add(catalog.NameColorPalette, helpers.GeneratePalette(paletteTheme(lower))); err != nil {
			return nil, err
		}
	}

	if strings.Contains(lower, "weather") {
		if err := add(catalog.NameWeather, helpers.GetWeather(weatherLocation(prompt))); err != nil {
			return nil, err
		}
	}

	if expr, ok := arithmetic(prompt); ok {
		if err := add(catalog.NameCalculate, calc.Calculate(expr)); err != nil {
			return nil, err
		}
	}

	if strings.Contains(lower, "todo") || strings.Contains(lower, "task") {
		todo := helpers.CreateTodo(todoTask(prompt), todoPriority(lower), s.todoDue(prompt))
		args := map[string]string{"task": todo.Task, "priority": todo.Priority}
		if todo.DueDate != "" {
			args["due_date"] = todo.DueDate
		}
		if err := add(catalog.NameTodo, args); err != nil {
			return nil, err
		}
	}

	if strings.Contains(lower, "qr") {
		qr := helpers.GenerateQRCode(qrContent(prompt), qrSize(prompt))
		args := map[string]any{"content": qr.Content, "size": qr.Size}
		if err := add(catalog.NameQRCode, args); err != nil {
			return nil, err
		}
	}

	if len(calls) == 0 {
		if sug, ok := s.suggest(prompt); ok {
			if err := add(catalog.NameSuggestCase, sug); err != nil {
				return nil, err
			}
		}
	}

	return calls, nil
}

// suggest runs the case matcher, then looks for a case type label named
// outright in the prompt.
func (s *Simulator) suggest(prompt string) (cases.Suggestion, bool) {
	if strings.TrimSpace(prompt) == "" {
		return cases.Suggestion{}, false
	}
	if sug, ok := cases.Match(prompt, s.catalog, s.direction); ok {
		return sug, true
	}
	lower := strings.ToLower(prompt)
	for _, ct := range s.catalog {
		if ct.Label != "" && strings.Contains(lower, strings.ToLower(ct.Label)) {
			return cases.Suggestion{CaseName: ct.Label, CaseDescription: ct.Description}, true
		}
	}
	return cases.Suggestion{}, false
}

func lastUserMessage(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}

func paletteTheme(lower string) string {
	for _, theme := range helpers.PaletteThemes() {
		if strings.Contains(lower, theme) {
			return theme
		}
	}
	return "custom"
}

func weatherLocation(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, loc := range helpers.WeatherLocations() {
		city, _, _ := strings.Cut(loc, ",")
		if strings.Contains(lower, strings.ToLower(city)) {
			return loc
		}
	}
	for _, sep := range []string{" in ", " for "} {
		if i := strings.LastIndex(lower, sep); i >= 0 {
			loc := strings.TrimRight(strings.TrimSpace(prompt[i+len(sep):]), trailingPunct)
			loc = strings.TrimSuffix(loc, " today")
			if loc != "" {
				return loc
			}
		}
	}
	return helpers.WeatherLocations()[0]
}

// arithmetic finds the first run of numbers and operators that contains at
// least one binary operator.
func arithmetic(prompt string) (string, bool) {
	for _, m := range exprPattern.FindAllString(prompt, -1) {
		m = strings.TrimSpace(m)
		if opPattern.MatchString(m) {
			return m, true
		}
	}
	return "", false
}

func todoTask(prompt string) string {
	task := prompt
	if _, after, ok := strings.Cut(prompt, ":"); ok {
		task = after
	} else if i := strings.Index(strings.ToLower(prompt), "todo"); i >= 0 {
		task = prompt[i+len("todo"):]
		task = strings.TrimPrefix(strings.TrimSpace(task), "to ")
	}

	lower := strings.ToLower(task)
	for _, cut := range todoTaskCutoff {
		if i := strings.Index(lower, cut); i > 0 {
			task = task[:i]
			lower = lower[:i]
		}
	}
	return strings.TrimRight(strings.TrimSpace(task), trailingPunct)
}

func todoPriority(lower string) string {
	for _, p := range []string{"high", "low", "medium"} {
		if strings.Contains(lower, p+" priority") {
			return p
		}
	}
	return ""
}

func (s *Simulator) todoDue(prompt string) string {
	if d := datePattern.FindString(prompt); d != "" {
		return d
	}
	if strings.Contains(strings.ToLower(prompt), "tomorrow") {
		return s.now().AddDate(0, 0, 1).Format("2006-01-02")
	}
	return ""
}

func qrContent(prompt string) string {
	if u := urlPattern.FindString(prompt); u != "" {
		return strings.TrimRight(u, trailingPunct)
	}
	if m := quotedPattern.FindStringSubmatch(prompt); m != nil {
		if m[1] != "" {
			return m[1]
		}
		return m[2]
	}
	if e := emailPattern.FindString(prompt); e != "" {
		return strings.TrimRight(e, trailingPunct)
	}
	if _, after, ok := strings.Cut(prompt, ": "); ok {
		return strings.TrimSpace(after)
	}
	lower := strings.ToLower(prompt)
	if i := strings.LastIndex(lower, " for "); i >= 0 {
		return strings.TrimRight(strings.TrimSpace(prompt[i+len(" for "):]), trailingPunct)
	}
	return prompt
}

func qrSize(prompt string) int {
	if m := pixelPattern.FindStringSubmatch(prompt); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return helpers.DefaultQRSize
}
