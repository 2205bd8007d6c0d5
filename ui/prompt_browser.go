package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rtconsole/config"
	appmodel "rtconsole/model"
)

func (a *AppView) openPromptBrowser() {
	a.showPrompts = true
	a.promptIdx = 0
	a.promptFilterMode = false
	a.promptFilter.SetValue("")
	a.prompts.Filter("")
	a.input.Blur()
}

func (a AppView) handlePromptBrowserKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kb := a.keys
	key := msg.String()
	phrases := a.prompts.Phrases()

	if a.promptFilterMode {
		switch key {
		case "esc":
			a.promptFilterMode = false
			a.promptFilter.Blur()
			a.promptFilter.SetValue("")
			a.prompts.Filter("")
			a.promptIdx = 0
			return a, nil
		case "enter":
			a.promptFilterMode = false
			a.promptFilter.Blur()
			return a, nil
		case kb.GetActionKey("list_down"), kb.GetActionKey("list_down_arrow"):
			a.promptIdx = clampIndex(a.promptIdx+1, len(phrases))
			return a, nil
		case kb.GetActionKey("list_up"), kb.GetActionKey("list_up_arrow"):
			a.promptIdx = clampIndex(a.promptIdx-1, len(phrases))
			return a, nil
		}

		var cmd tea.Cmd
		a.promptFilter, cmd = a.promptFilter.Update(msg)
		a.prompts.Filter(a.promptFilter.Value())
		a.promptIdx = 0
		return a, cmd
	}

	switch key {
	case "esc":
		a.closeAllModals()
		return a, nil

	case "/":
		a.promptFilterMode = true
		return a, a.promptFilter.Focus()

	case kb.GetActionKey("next_category"):
		a.prompts.Cycle(1)
		a.promptFilter.SetValue("")
		a.promptIdx = 0
		return a, nil

	case kb.GetActionKey("prev_category"):
		a.prompts.Cycle(-1)
		a.promptFilter.SetValue("")
		a.promptIdx = 0
		return a, nil

	case "j", kb.GetActionKey("list_down"), kb.GetActionKey("list_down_arrow"):
		a.promptIdx = clampIndex(a.promptIdx+1, len(phrases))
		return a, nil

	case "k", kb.GetActionKey("list_up"), kb.GetActionKey("list_up_arrow"):
		a.promptIdx = clampIndex(a.promptIdx-1, len(phrases))
		return a, nil

	case "enter":
		if len(phrases) == 0 {
			return a, nil
		}
		return a, a.activatePrompt(phrases[a.promptIdx])
	}

	return a, nil
}

// activatePrompt sends phrase through the prompt browser. With no active
// session the browser stays open and nothing is sent.
func (a *AppView) activatePrompt(phrase string) tea.Cmd {
	sent, err := a.prompts.Activate(phrase)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] prompt send failed: %v", err)
		}
		return a.setFlash("Send failed: "+err.Error(), true)
	}
	if !sent {
		return a.setFlash("Start the session to send example prompts", true)
	}

	a.closeAllModals()
	return a.setFlash("Sent: "+phrase, false)
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (a AppView) renderPromptBrowser(width, height int) string {
	modalWidth := width - 10
	if modalWidth > 90 {
		modalWidth = 90
	}

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Example Prompts")

	// Category tabs
	selected := a.prompts.Selected()
	var tabs []string
	for _, c := range appmodel.PromptCategories() {
		if c.Key == selected.Key {
			tabs = append(tabs, SelectedStyle.Render("["+c.Label+"]"))
		} else {
			tabs = append(tabs, DimStyle.Render(c.Label))
		}
	}
	tabLine := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center).
		Render(wordWrap(strings.Join(tabs, "  "), modalWidth))

	phrases := a.prompts.Phrases()
	enabled := a.prompts.Enabled()

	var header string
	if a.promptFilterMode {
		header = a.promptFilter.View()
	} else {
		total := len(selected.Phrases)
		if len(phrases) == total {
			header = fmt.Sprintf("%d prompts", total)
		} else {
			header = fmt.Sprintf("%d of %d prompts", len(phrases), total)
		}
		if !enabled {
			header += " · start the session to send"
		}
	}

	headerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(header)

	emptyLine := strings.Repeat(" ", modalWidth)
	lines := []string{emptyLine}
	if len(phrases) == 0 {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true).
			Align(lipgloss.Center).
			Width(modalWidth).
			Render("No matches found"))
	}
	for i, phrase := range phrases {
		indicator := "  "
		lineStyle := lipgloss.NewStyle()
		if i == a.promptIdx {
			indicator = "▶ "
			lineStyle = lineStyle.Foreground(successColor).Bold(true)
		}
		if !enabled {
			lineStyle = DimStyle
		}
		line := indicator + truncate(phrase, modalWidth-len(indicator))
		lines = append(lines, lipgloss.NewStyle().Width(modalWidth).Render(lineStyle.Render(line)))
	}
	lines = append(lines, emptyLine)

	var footerText string
	if a.promptFilterMode {
		footerText = FormatFooter("Type", "to filter", a.keys.DisplayActionKey("list_down")+"/"+a.keys.DisplayActionKey("list_up"), "Navigate", "Enter", "Done", "Esc", "Clear")
	} else {
		footerText = FormatFooter("Tab", "Category", "/", "Filter", "j/k", "Navigate", "Enter", "Send", "Esc", "Close")
	}
	footerSection := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footerText)

	sections := []string{titleSection, tabLine, headerSection}
	sections = append(sections, lines...)
	sections = append(sections, footerSection)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
