package ui

import (
	"fmt"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rtconsole/catalog"
	"rtconsole/config"
)

// sessionInfoMarkdown describes the configured session: transport, the
// session.update values, the persona and the advertised functions.
func sessionInfoMarkdown(cfg *config.Config, version string) string {
	s := cfg.Session
	var sb strings.Builder

	sb.WriteString("# Session\n\n")
	fmt.Fprintf(&sb, "- **Transport:** %s\n", cfg.Transport.Kind)
	switch cfg.Transport.Kind {
	case config.TransportRealtime:
		fmt.Fprintf(&sb, "- **Endpoint:** %s\n", cfg.Transport.RealtimeURL)
		fmt.Fprintf(&sb, "- **Model:** %s\n", cfg.Transport.RealtimeModel)
	case config.TransportSimulator:
	default:
		if cfg.Transport.Model != "" {
			fmt.Fprintf(&sb, "- **Model:** %s\n", cfg.Transport.Model)
		}
	}
	fmt.Fprintf(&sb, "- **Voice:** %s\n", s.Voice)
	fmt.Fprintf(&sb, "- **Temperature:** %g\n", s.Temperature)
	fmt.Fprintf(&sb, "- **Max output tokens:** %d\n", s.MaxOutputTokens)
	fmt.Fprintf(&sb, "- **Turn detection:** %s (threshold %g, silence %dms)\n",
		s.TurnDetection.Type, s.TurnDetection.Threshold, s.TurnDetection.SilenceDurationMS)
	fmt.Fprintf(&sb, "- **Case suggestions:** %s, %s\n", cfg.Cases.SuggestMode, cfg.Cases.MatchDirection)
	if version != "" {
		fmt.Fprintf(&sb, "- **Version:** %s\n", version)
	}

	sb.WriteString("\n## Persona\n\n")
	sb.WriteString(s.Instructions)
	sb.WriteString("\n\n## Functions\n\n")
	for _, spec := range catalog.All() {
		fmt.Fprintf(&sb, "- **%s** %s\n", spec.Name, spec.Description)
	}

	return sb.String()
}

func (a *AppView) loadSessionInfo() {
	width := min(a.width-6, 100)
	if width < 20 {
		width = 20
	}

	rendered := markdown.Render(sessionInfoMarkdown(a.cfg, a.version), width, 0)

	a.infoViewport.Width = width
	a.infoViewport.Height = max(a.height-8, 3)
	a.infoViewport.SetContent(string(rendered))
	a.infoViewport.GotoTop()
}

func (a AppView) handleSessionInfoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		a.closeAllModals()
		return a, nil
	case "j", "down", a.keys.GetActionKey("scroll_down"):
		a.infoViewport.ScrollDown(1)
	case "k", "up", a.keys.GetActionKey("scroll_up"):
		a.infoViewport.ScrollUp(1)
	case "pgdown", a.keys.GetActionKey("half_page_down"):
		a.infoViewport.HalfPageDown()
	case "pgup", a.keys.GetActionKey("half_page_up"):
		a.infoViewport.HalfPageUp()
	}
	return a, nil
}

func (a AppView) renderSessionInfo(width, height int) string {
	footer := DimStyle.Render(FormatFooter("j/k", "Scroll", "Esc", "Close"))

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		a.infoViewport.View(),
		"",
		footer,
	)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, boxStyle.Render(content))
}
