package ui

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"rtconsole/config"
	appmodel "rtconsole/model"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	if a.connecting {
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// Title (1), separator (1), reply line (1), input (1), status bar (1)
		a.viewport.Width = a.width
		a.viewport.Height = max(a.height-5, 1)
		a.input.Width = max(a.width-4, 10)

		a.ready = true
		a.refreshToolsPanel()
		if a.showSessionInfo {
			a.loadSessionInfo()
		}
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		model, cmd := a.handleKey(msg)
		return model, tea.Batch(append(cmds, cmd)...)

	case connectedMsg:
		cmds = append(cmds, a.handleConnected(msg))
		return a, tea.Batch(cmds...)

	case serverEventMsg:
		cmds = append(cmds, a.handleServerEvent(msg))
		return a, tea.Batch(cmds...)

	case transportClosedMsg:
		cmds = append(cmds, a.handleTransportClosed(msg))
		return a, tea.Batch(cmds...)

	case flashTickMsg:
		a.flash = ""
		a.flashIsErr = false
		return a, tea.Batch(cmds...)
	}

	// Everything else (cursor blink, spinner ticks) goes to the focused input
	if !a.showPrompts && !a.showCases {
		a.input, cmd = a.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Always-global
	if key == "ctrl+c" || key == a.keys.GetActionKey("quit") {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] quit requested")
		}
		return a, tea.Quit
	}

	if a.showErrorModal {
		if key == "enter" || key == "esc" {
			a.showErrorModal = false
		}
		return a, nil
	}

	if key == a.keys.GetActionKey("help") {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		if key == "esc" {
			a.showHelp = false
		}
		return a, nil
	}

	// Modal toggles close the current modal and open the next
	switch key {
	case a.keys.GetActionKey("prompt_browser"):
		open := !a.showPrompts
		a.closeAllModals()
		if open {
			a.openPromptBrowser()
		}
		return a, nil

	case a.keys.GetActionKey("case_browser"):
		open := !a.showCases
		a.closeAllModals()
		if open {
			return a, a.openCaseBrowser()
		}
		return a, nil

	case a.keys.GetActionKey("session_info"):
		open := !a.showSessionInfo
		a.closeAllModals()
		if open {
			a.showSessionInfo = true
			a.loadSessionInfo()
		}
		return a, nil
	}

	if a.showPrompts {
		return a.handlePromptBrowserKey(msg)
	}
	if a.showCases {
		return a.handleCaseBrowserKey(msg)
	}
	if a.showSessionInfo {
		return a.handleSessionInfoKey(msg)
	}

	return a.handleMainKey(msg)
}

func (a AppView) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kb := a.keys

	switch msg.String() {
	case kb.GetActionKey("toggle_session"):
		return a, a.toggleSession()

	case kb.GetActionKey("toggle_raw"):
		a.showRaw = !a.showRaw
		a.refreshToolsPanel()
		return a, nil

	case kb.GetActionKey("yank_output"):
		return a, a.yankOutput()

	case kb.GetActionKey("clear_input"):
		a.input.Reset()
		a.controller.SetPendingInput("")
		return a, nil

	case kb.GetActionKey("scroll_down"):
		a.viewport.ScrollDown(1)
		return a, nil
	case kb.GetActionKey("scroll_up"):
		a.viewport.ScrollUp(1)
		return a, nil
	case kb.GetActionKey("half_page_down"):
		a.viewport.HalfPageDown()
		return a, nil
	case kb.GetActionKey("half_page_up"):
		a.viewport.HalfPageUp()
		return a, nil
	case kb.GetActionKey("page_down"):
		a.viewport.PageDown()
		return a, nil
	case kb.GetActionKey("page_up"):
		a.viewport.PageUp()
		return a, nil
	case kb.GetActionKey("scroll_to_top"):
		a.viewport.GotoTop()
		return a, nil
	case kb.GetActionKey("scroll_to_bottom"):
		a.viewport.GotoBottom()
		return a, nil

	case "enter":
		return a, a.submitInput()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	a.controller.SetPendingInput(a.input.Value())
	return a, cmd
}

// submitInput sends the input box as text and runs the case suggestion flow.
// While inactive the text stays in the box.
func (a *AppView) submitInput() tea.Cmd {
	text := strings.TrimSpace(a.input.Value())
	if text == "" {
		return nil
	}

	suggestion, matched, err := a.controller.Submit(text)
	if errors.Is(err, appmodel.ErrSessionInactive) {
		return a.setFlash("Start the session first ("+a.keys.DisplayActionKey("toggle_session")+")", true)
	}
	if err != nil && !matched {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] submit failed: %v", err)
		}
		return a.setFlash("Send failed: "+err.Error(), true)
	}

	a.input.Reset()
	a.controller.SetPendingInput("")
	if matched {
		a.lastSuggestion = suggestion.CaseName
		return a.setFlash("Suggested case: "+suggestion.CaseName, false)
	}
	return a.setFlash("Sent", false)
}

func (a *AppView) yankOutput() tea.Cmd {
	if len(a.widgets) == 0 {
		return a.setFlash("No function output to copy", true)
	}
	if err := clipboard.WriteAll(a.widgets[0].Raw()); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] clipboard write failed: %v", err)
		}
		return a.setFlash("Clipboard unavailable: "+err.Error(), true)
	}
	return a.setFlash("Copied "+a.widgets[0].Name+" JSON", false)
}

func (a *AppView) setFlash(text string, isErr bool) tea.Cmd {
	a.flash = text
	a.flashIsErr = isErr
	return appmodel.FlashTick()
}

func (a *AppView) showError(title, message string) {
	a.showErrorModal = true
	a.errorTitle = title
	a.errorMsg = message
}
