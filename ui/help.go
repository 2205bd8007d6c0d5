package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (a AppView) renderHelpModal(width, height int) string {
	kb := a.keys

	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("rtconsole - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	sessionActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Session"),
		fmt.Sprintf("• %-13s Start/stop session", kb.DisplayActionKey("toggle_session")),
		"• Enter         Send message",
		fmt.Sprintf("• %-13s Clear input", kb.DisplayActionKey("clear_input")),
		fmt.Sprintf("• %-13s Example prompts", kb.DisplayActionKey("prompt_browser")),
		fmt.Sprintf("• %-13s Case browser", kb.DisplayActionKey("case_browser")),
		fmt.Sprintf("• %-13s Session info", kb.DisplayActionKey("session_info")),
		fmt.Sprintf("• %-13s Toggle this help", kb.DisplayActionKey("help")),
		fmt.Sprintf("• %-13s Quit", kb.DisplayActionKey("quit")),
	)

	outputActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Function Outputs"),
		fmt.Sprintf("• %-13s Toggle raw JSON", kb.DisplayActionKey("toggle_raw")),
		fmt.Sprintf("• %-13s Copy newest JSON", kb.DisplayActionKey("yank_output")),
	)

	navigation := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Navigation"),
		fmt.Sprintf("• %-13s Scroll down 1 line", kb.DisplayActionKey("scroll_down")),
		fmt.Sprintf("• %-13s Scroll up 1 line", kb.DisplayActionKey("scroll_up")),
		fmt.Sprintf("• %-13s Half page down", kb.DisplayActionKey("half_page_down")),
		fmt.Sprintf("• %-13s Half page up", kb.DisplayActionKey("half_page_up")),
		fmt.Sprintf("• %-13s Full page down", kb.DisplayActionKey("page_down")),
		fmt.Sprintf("• %-13s Full page up", kb.DisplayActionKey("page_up")),
		fmt.Sprintf("• %-13s Jump to top", kb.DisplayActionKey("scroll_to_top")),
		fmt.Sprintf("• %-13s Jump to bottom", kb.DisplayActionKey("scroll_to_bottom")),
	)

	tips := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Tips"),
		"• Newest function output is on top",
		"• Submitted text also runs the case matcher",
		fmt.Sprintf("• %s / %s switch prompt categories", kb.DisplayActionKey("next_category"), kb.DisplayActionKey("prev_category")),
	)

	column1 := lipgloss.JoinVertical(
		lipgloss.Left,
		sessionActions,
		"",
		outputActions,
	)

	column2 := lipgloss.JoinVertical(
		lipgloss.Left,
		navigation,
		"",
		tips,
	)

	columnStyle := lipgloss.NewStyle().Width(44).PaddingLeft(4)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(column1),
		"  ",
		columnStyle.Render(column2),
	)

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render(fmt.Sprintf("Press %s or Esc to close this help", kb.DisplayActionKey("help")))

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2).
		Width(min(width-4, 100))

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}
