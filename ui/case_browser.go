package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rtconsole/cases"
)

func (a *AppView) openCaseBrowser() tea.Cmd {
	a.showCases = true
	a.caseIdx = 0
	a.caseFilter.SetValue("")
	a.caseResults = a.caseTypes
	a.input.Blur()
	return a.caseFilter.Focus()
}

func (a AppView) handleCaseBrowserKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kb := a.keys

	switch msg.String() {
	case "esc":
		a.closeAllModals()
		return a, nil

	case kb.GetActionKey("list_down"), kb.GetActionKey("list_down_arrow"):
		a.caseIdx = clampIndex(a.caseIdx+1, len(a.caseResults))
		return a, nil

	case kb.GetActionKey("list_up"), kb.GetActionKey("list_up_arrow"):
		a.caseIdx = clampIndex(a.caseIdx-1, len(a.caseResults))
		return a, nil

	case "enter":
		// Put the case label in the input box for the agent to use
		if len(a.caseResults) == 0 {
			return a, nil
		}
		label := a.caseResults[a.caseIdx].Label
		a.closeAllModals()
		a.input.SetValue(label)
		a.input.CursorEnd()
		a.controller.SetPendingInput(label)
		return a, nil
	}

	var cmd tea.Cmd
	a.caseFilter, cmd = a.caseFilter.Update(msg)
	a.caseResults = cases.Search(a.caseFilter.Value(), a.caseTypes)
	a.caseIdx = 0
	return a, cmd
}

func (a AppView) renderCaseBrowser(width, height int) string {
	modalWidth := width - 4
	if modalWidth > 100 {
		modalWidth = 100
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2)

	title := TitleStyle.Render("Case Types")
	inner := modalWidth - 6

	var resultsView string
	switch {
	case len(a.caseTypes) == 0:
		resultsView = DimStyle.Render("The case catalog is empty")
	case len(a.caseResults) == 0:
		resultsView = DimStyle.Render("No matches found")
	default:
		// Border(2) + Padding(2) + title, search, count, detail, footer and blanks
		maxVisible := max(height-18, 3)
		start := 0
		if a.caseIdx >= maxVisible {
			start = a.caseIdx - maxVisible + 1
		}
		end := min(start+maxVisible, len(a.caseResults))

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%d of %d case types\n\n", len(a.caseResults), len(a.caseTypes)))
		if start > 0 {
			sb.WriteString(DimStyle.Render(fmt.Sprintf("↑ %d more above", start)) + "\n")
		}
		for i := start; i < end; i++ {
			label := truncate(a.caseResults[i].Label, inner-2)
			if i == a.caseIdx {
				sb.WriteString(SelectedStyle.Render("> "+label) + "\n")
			} else {
				sb.WriteString("  " + label + "\n")
			}
		}
		if end < len(a.caseResults) {
			sb.WriteString(DimStyle.Render(fmt.Sprintf("↓ %d more below", len(a.caseResults)-end)) + "\n")
		}

		sb.WriteString("\n" + renderCaseDetail(a.caseResults[a.caseIdx], inner))
		resultsView = sb.String()
	}

	footer := FormatFooter("Type", "to search", a.keys.DisplayActionKey("list_down")+"/"+a.keys.DisplayActionKey("list_up"), "Navigate", "Enter", "Use label", "Esc", "Close")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		a.caseFilter.View(),
		"",
		resultsView,
		"",
		footer,
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		modalStyle.Width(modalWidth).Render(content))
}

func renderCaseDetail(ct cases.CaseType, width int) string {
	lines := []string{AssistantStyle.Render(ct.Label)}
	if ct.Description != "" {
		lines = append(lines, wordWrap(ct.Description, width))
	}
	if len(ct.Fields) > 0 {
		labels := make([]string, len(ct.Fields))
		for i, f := range ct.Fields {
			labels[i] = f.Label
		}
		lines = append(lines, DimStyle.Render(wordWrap("Fields: "+strings.Join(labels, ", "), width)))
	}
	return strings.Join(lines, "\n")
}
