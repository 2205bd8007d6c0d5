package testutil

import (
	"testing"
	"time"

	"rtconsole/catalog"
	"rtconsole/config"
	"rtconsole/model"
	"rtconsole/provider"
)

// OceanPaletteCall is a palette tool call without a provider-assigned id.
func OceanPaletteCall() provider.ToolCall {
	return provider.ToolCall{
		Name:      catalog.NameColorPalette,
		Arguments: `{"theme":"ocean","colors":["#006994","#4A90E2","#87CEEB","#E0F6FF","#B8E6FF"]}`,
	}
}

// SessionUpdate is the session.update the controller would send, with every
// catalog tool advertised.
func SessionUpdate(instructions string) model.ClientCommand {
	cmd := model.NewSessionUpdate(config.DefaultSessionConfig(), catalog.RealtimeTools(catalog.Tools()))
	cmd.Session.Instructions = instructions
	return cmd
}

// NextEvent waits up to two seconds for the next event on ch.
func NextEvent(t *testing.T, ch <-chan model.ServerEvent) model.ServerEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("event channel closed")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return model.ServerEvent{}
}
