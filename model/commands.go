package model

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"rtconsole/config"
)

// DialFunc opens a transport.
type DialFunc func(ctx context.Context) (Transport, error)

const connectTimeout = 15 * time.Second

// Connect dials in the background and reports a ConnectedMsg.
func Connect(dial DialFunc) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		t, err := dial(ctx)
		if err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Model] connect failed: %v", err)
			}
			return ConnectedMsg{Err: err}
		}
		return ConnectedMsg{Transport: t}
	}
}

// WaitForEvent blocks on the next inbound event. The update loop re-issues
// it after every ServerEventMsg.
func WaitForEvent(t Transport) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-t.Events()
		if !ok {
			return TransportClosedMsg{Transport: t}
		}
		return ServerEventMsg{Transport: t, Event: ev}
	}
}

// Disconnect closes t in the background.
func Disconnect(t Transport) tea.Cmd {
	return func() tea.Msg {
		if err := t.Close(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Model] close failed: %v", err)
		}
		return nil
	}
}

func FlashTick() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return FlashTickMsg{}
	})
}
