package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rtconsole/catalog"
	"rtconsole/config"
)

var toolHints = []string{
	"A color palette (ocean theme, sunset, etc.)",
	"Weather information for a city",
	"Mathematical calculations",
	"Create a todo item",
	"Generate a QR code",
	"Suggest a case based on my request",
}

// refreshToolsPanel re-renders the function output panel into the viewport.
// Widgets are listed newest first.
func (a *AppView) refreshToolsPanel() {
	width := a.viewport.Width
	if width <= 0 {
		return
	}

	header := TitleStyle.Render("Function Calling Tools")

	var body string
	switch {
	case !a.controller.Active():
		body = DimStyle.Render("Start the session to use function calling") + "\n\n" + toolInstructions(width)
	case len(a.widgets) == 0:
		body = DimStyle.Render("Functions are ready! Try asking for something...") + "\n\n" + toolInstructions(width)
	default:
		views := make([]string, len(a.widgets))
		for i, w := range a.widgets {
			views[i] = w.View(width-1, a.showRaw)
		}
		body = strings.Join(views, "\n")
	}

	a.viewport.SetContent(header + "\n\n" + body)
}

func toolInstructions(width int) string {
	var sb strings.Builder
	sb.WriteString("Try asking for:\n")
	for _, hint := range toolHints {
		sb.WriteString("  • " + hint + "\n")
	}

	names := catalog.Names()
	available := fmt.Sprintf("%d functions available: %s", len(names), strings.Join(names, ", "))
	sb.WriteString("\n" + DimStyle.Render(wordWrap(available, width-2)))
	return sb.String()
}

func (a AppView) renderTitle() string {
	appText := AssistantStyle.Render("RTCONSOLE")

	transport := a.cfg.Transport.Kind
	if m := a.transportModel(); m != "" {
		transport += " (" + m + ")"
	}
	transportText := TitleStyle.Render(" - " + transport)

	var state string
	switch {
	case a.connecting:
		state = a.spinner.View() + " Connecting"
	case a.controller.Active():
		state = lipgloss.NewStyle().Foreground(successColor).Render("● Active")
	default:
		state = DimStyle.Render("○ Inactive")
	}

	title := appText + transportText + " - " + state
	if a.showRaw {
		title += DimStyle.Render(" | raw")
	}
	if a.lastSuggestion != "" {
		title += HighlightStyle.Render(" | case: " + a.lastSuggestion)
	}
	return title
}

func (a AppView) transportModel() string {
	if a.cfg.Transport.Kind == config.TransportRealtime {
		return a.cfg.Transport.RealtimeModel
	}
	return a.cfg.Transport.Model
}

// renderReplyLine shows the flash message if one is set, otherwise the
// latest model reply on one line.
func (a AppView) renderReplyLine() string {
	width := a.width - 2
	if a.flash != "" {
		style := lipgloss.NewStyle().Foreground(successColor)
		if a.flashIsErr {
			style = ErrorStyle
		}
		return style.Render(truncate(a.flash, width))
	}
	if a.lastReply == "" {
		return ""
	}
	reply := strings.Join(strings.Fields(a.lastReply), " ")
	return AssistantStyle.Render(truncate("◆ "+reply, width))
}

func (a AppView) renderStatusBar() string {
	kb := a.keys
	session := "Start"
	if a.controller.Active() {
		session = "Stop"
	}
	return formatStatusBar(
		kb.DisplayActionKey("toggle_session"), session,
		kb.DisplayActionKey("prompt_browser"), "Prompts",
		kb.DisplayActionKey("case_browser"), "Cases",
		kb.DisplayActionKey("toggle_raw"), "Raw",
		kb.DisplayActionKey("yank_output"), "Copy",
		kb.DisplayActionKey("session_info"), "Info",
		kb.DisplayActionKey("help"), "Help",
		kb.DisplayActionKey("quit"), "Quit",
	)
}
