package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"rtconsole/config"
	appmodel "rtconsole/model"
)

// toggleSession connects when idle and disconnects when a transport is open.
// Presses while a dial is in flight are ignored.
func (a *AppView) toggleSession() tea.Cmd {
	if a.connecting {
		return nil
	}

	if a.transport == nil {
		if a.dial == nil {
			a.showError("No Transport", "No transport is configured.")
			return nil
		}
		a.connecting = true
		a.lastReply = ""
		a.lastSuggestion = ""
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] connecting (%s)", a.cfg.Transport.Kind)
		}
		return tea.Batch(a.spinner.Tick, appmodel.Connect(a.dial))
	}

	t := a.transport
	a.transport = nil
	a.controller.Deactivate()
	a.widgets = nil
	a.refreshToolsPanel()
	return tea.Batch(appmodel.Disconnect(t), a.setFlash("Session stopped", false))
}

func (a *AppView) handleConnected(msg connectedMsg) tea.Cmd {
	a.connecting = false
	if msg.Err != nil {
		a.showError("Connection Failed", msg.Err.Error())
		return nil
	}

	a.transport = msg.Transport
	a.controller.Activate(msg.Transport)
	a.widgets = nil
	a.refreshToolsPanel()
	return tea.Batch(appmodel.WaitForEvent(msg.Transport), a.setFlash("Session started", false))
}

func (a *AppView) handleServerEvent(msg serverEventMsg) tea.Cmd {
	if !a.isCurrent(msg.Transport) {
		// Late event from a transport that was already stopped
		return nil
	}
	ev := msg.Event

	if a.controller.HandleEvent(ev) {
		a.rebuildWidgets()
		a.refreshToolsPanel()
		a.viewport.GotoTop()
	}

	var flash tea.Cmd
	switch ev.Type {
	case appmodel.EventTextDone:
		a.lastReply = ev.Text
	case appmodel.EventTranscriptDone:
		a.lastReply = ev.Transcript
	case appmodel.EventError:
		if ev.Error != nil {
			flash = a.setFlash("Server error: "+ev.Error.Message, true)
		}
	}

	return tea.Batch(appmodel.WaitForEvent(a.transport), flash)
}

// handleTransportClosed covers the remote end going away. A close we asked
// for has already cleared or replaced a.transport.
func (a *AppView) handleTransportClosed(msg transportClosedMsg) tea.Cmd {
	if !a.isCurrent(msg.Transport) {
		return nil
	}

	message := "The connection was closed."
	if errTransport, ok := a.transport.(interface{ Err() error }); ok && errTransport.Err() != nil {
		message = errTransport.Err().Error()
	}
	if config.DebugLog != nil {
		config.DebugLog.Printf("[UI] transport closed: %s", message)
	}

	t := a.transport
	a.transport = nil
	a.controller.Deactivate()
	a.widgets = nil
	a.refreshToolsPanel()
	a.showError("Session Ended", message)
	return appmodel.Disconnect(t)
}

// isCurrent reports whether t is the open session's transport. Reads still
// pending on a stopped transport deliver their messages after a new session
// may have started.
func (a *AppView) isCurrent(t appmodel.Transport) bool {
	return a.transport != nil && t == a.transport
}

func (a *AppView) rebuildWidgets() {
	outputs := a.controller.Outputs()
	a.widgets = make([]Widget, len(outputs))
	for i, out := range outputs {
		a.widgets[i] = RenderOutput(out)
	}
}
