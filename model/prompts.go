package model

import (
	"errors"
	"fmt"

	"github.com/sahilm/fuzzy"

	"rtconsole/config"
)

var ErrUnknownCategory = errors.New("unknown prompt category")

type PromptCategory struct {
	Key     string
	Label   string
	Phrases []string
}

var promptCategories = []PromptCategory{
	{
		Key:   "colorPalette",
		Label: "Color Palettes",
		Phrases: []string{
			"Can you create a color palette with an ocean theme?",
			"I need colors for a sunset design",
			"Generate a forest-inspired color scheme",
			"Create an autumn color palette",
			"I want winter colors for my website",
		},
	},
	{
		Key:   "weather",
		Label: "Weather",
		Phrases: []string{
			"What's the weather like in San Francisco?",
			"Tell me about the weather in New York",
			"How's the weather in London today?",
			"Get me weather information for Tokyo",
		},
	},
	{
		Key:   "calculation",
		Label: "Calculator",
		Phrases: []string{
			"What's 25 * 4 + 12?",
			"Calculate 150 / 3 - 20",
			"What's the result of (45 + 35) * 2?",
			"Calculate 234 + 567 - 123",
			"What's 15% of 200?",
		},
	},
	{
		Key:   "todo",
		Label: "Todo Items",
		Phrases: []string{
			"Create a todo item: Finish the project presentation with high priority, due tomorrow",
			"Add a medium priority task: Buy groceries",
			"Create a low priority todo: Organize desk",
			"Add a high priority task: Call dentist for appointment due on 2025-06-30",
		},
	},
	{
		Key:   "qrCode",
		Label: "QR Codes",
		Phrases: []string{
			"Generate a QR code for https://openai.com",
			"Create a QR code for my email: john@example.com",
			"Make a 300px QR code for 'Hello World!'",
			"Generate a QR code for my phone number: +1-555-123-4567",
		},
	},
	{
		Key:   "combined",
		Label: "Combined",
		Phrases: []string{
			"Create an ocean color palette and then generate a QR code for https://ocean-theme.com",
			"Calculate 45 * 12 and then create a todo to review the result",
			"Get weather for San Francisco and create a color palette inspired by the weather",
		},
	},
	{
		Key:   "caseSuggestion",
		Label: "Case Role-play",
		Phrases: []string{
			"Hi John, thanks for contacting Elevance Health. How can I help you today?",
			"I can help you with your date of birth change. Can you confirm your member ID?",
			"What is the corrected date of birth you would like on file?",
			"Is the address we have on file still 123 Main Street in Melrose?",
		},
	},
}

// PromptCategories returns the categories in display order.
func PromptCategories() []PromptCategory {
	out := make([]PromptCategory, len(promptCategories))
	for i, c := range promptCategories {
		c.Phrases = append([]string(nil), c.Phrases...)
		out[i] = c
	}
	return out
}

// PromptSubmitter is the part of the controller the browser needs.
type PromptSubmitter interface {
	Active() bool
	SubmitText(text string) error
}

// PromptBrowser tracks the selected category and filter of the example
// prompt list.
type PromptBrowser struct {
	submitter PromptSubmitter
	selected  int
	query     string
}

// NewPromptBrowser selects defaultCategory, or the first category when that
// key is unknown.
func NewPromptBrowser(submitter PromptSubmitter, defaultCategory string) *PromptBrowser {
	b := &PromptBrowser{submitter: submitter}
	if err := b.Select(defaultCategory); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] %v, falling back to %s", err, promptCategories[0].Key)
		}
		b.selected = 0
	}
	return b
}

func (b *PromptBrowser) Select(key string) error {
	for i, c := range promptCategories {
		if c.Key == key {
			b.selected = i
			b.query = ""
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownCategory, key)
}

// Cycle moves the selection by delta categories, wrapping around.
func (b *PromptBrowser) Cycle(delta int) {
	n := len(promptCategories)
	b.selected = ((b.selected+delta)%n + n) % n
	b.query = ""
}

func (b *PromptBrowser) Selected() PromptCategory {
	return promptCategories[b.selected]
}

// Phrases returns the selected category's phrases, narrowed by the filter.
func (b *PromptBrowser) Phrases() []string {
	phrases := promptCategories[b.selected].Phrases
	if b.query == "" {
		return append([]string(nil), phrases...)
	}

	matches := fuzzy.Find(b.query, phrases)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}
	return out
}

// Filter sets the fuzzy filter and returns the matching phrases.
func (b *PromptBrowser) Filter(query string) []string {
	b.query = query
	return b.Phrases()
}

func (b *PromptBrowser) Query() string {
	return b.query
}

// Enabled reports whether activating a phrase would send anything.
func (b *PromptBrowser) Enabled() bool {
	return b.submitter != nil && b.submitter.Active()
}

// Activate sends phrase as text when the session is active. With no active
// session it sends nothing and returns false.
func (b *PromptBrowser) Activate(phrase string) (bool, error) {
	if !b.Enabled() {
		return false, nil
	}
	if err := b.submitter.SubmitText(phrase); err != nil {
		return false, err
	}
	return true, nil
}
