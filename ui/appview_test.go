package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"rtconsole/cases"
	"rtconsole/catalog"
	"rtconsole/config"
	"rtconsole/model"
	"rtconsole/model/testutil"
)

var testCases = cases.Catalog{
	{Label: "Address Change", Description: "Update a member's mailing address", Fields: []cases.Field{{Label: "new street address"}}},
	{Label: "Date of Birth Change", Description: "Correct a member's date of birth", Fields: []cases.Field{{Label: "corrected date of birth"}}},
}

func newTestView(t *testing.T, fake *testutil.FakeTransport, sched *testutil.ManualScheduler) AppView {
	t.Helper()
	cfg := &config.Config{
		Transport: config.TransportConfig{Kind: config.TransportSimulator},
		Session:   config.DefaultSessionConfig(),
		Cases: config.CasesConfig{
			MatchDirection: config.MatchLabelContainsRequest,
			SuggestMode:    config.SuggestOnSubmit,
		},
	}
	a := NewAppView(Options{
		Config:    cfg,
		Cases:     testCases,
		Dial:      func(context.Context) (model.Transport, error) { return fake, nil },
		Scheduler: sched,
		Version:   "test",
	})
	return update(a, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func update(a AppView, msg tea.Msg) AppView {
	m, _ := a.Update(msg)
	return m.(AppView)
}

func altKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

func typeText(a AppView, s string) AppView {
	return update(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func enter(a AppView) AppView {
	return update(a, tea.KeyMsg{Type: tea.KeyEnter})
}

func connect(a AppView, fake *testutil.FakeTransport) AppView {
	a = update(a, altKey('c'))
	return update(a, model.ConnectedMsg{Transport: fake})
}

func screen(a AppView) string {
	return ansi.Strip(a.View())
}

func TestSessionLifecycle(t *testing.T) {
	fake := testutil.NewFakeTransport()
	sched := &testutil.ManualScheduler{}
	a := newTestView(t, fake, sched)

	if !strings.Contains(screen(a), "Start the session to use function calling") {
		t.Fatalf("inactive panel missing:\n%s", screen(a))
	}

	a = update(a, altKey('c'))
	if !a.connecting {
		t.Fatal("expected connecting after toggle")
	}
	a = update(a, model.ConnectedMsg{Transport: fake})
	if !a.Controller().Active() || a.connecting {
		t.Fatal("expected an active session after connect")
	}
	if !strings.Contains(screen(a), "Functions are ready!") {
		t.Errorf("ready panel missing:\n%s", screen(a))
	}

	a = update(a, model.ServerEventMsg{Transport: fake, Event: testutil.SessionCreated()})
	if got := fake.SentTypes(); len(got) != 1 || got[0] != model.CommandSessionUpdate {
		t.Fatalf("sent = %v, want [session.update]", got)
	}

	done := testutil.ResponseDone(testutil.FunctionCall(catalog.NameColorPalette, "call_1", testutil.OceanPaletteArgs))
	a = update(a, model.ServerEventMsg{Transport: fake, Event: done})
	if len(a.widgets) != 1 {
		t.Fatalf("widgets = %d, want 1", len(a.widgets))
	}
	if !strings.Contains(screen(a), "Theme: ocean") {
		t.Errorf("palette widget missing:\n%s", screen(a))
	}
	if sched.Pending() != 1 {
		t.Errorf("palette follow-up pending = %d, want 1", sched.Pending())
	}

	a = update(a, altKey('c'))
	if a.Controller().Active() || len(a.widgets) != 0 {
		t.Error("expected session stopped and outputs cleared")
	}

	// Events arriving after the stop are dropped
	a = update(a, model.ServerEventMsg{Transport: fake, Event: done})
	if len(a.widgets) != 0 || len(a.Controller().Outputs()) != 0 {
		t.Error("late event changed the outputs")
	}
}

func TestSubmitWhileInactiveKeepsText(t *testing.T) {
	fake := testutil.NewFakeTransport()
	a := newTestView(t, fake, &testutil.ManualScheduler{})

	a = enter(typeText(a, "hello"))

	if !strings.Contains(a.flash, "Start the session first") {
		t.Errorf("flash = %q", a.flash)
	}
	if a.input.Value() != "hello" {
		t.Errorf("input = %q, want text kept", a.input.Value())
	}
	if len(fake.Sent()) != 0 {
		t.Errorf("sent %v while inactive", fake.SentTypes())
	}
}

func TestSubmitSendsTextAndSuggestion(t *testing.T) {
	fake := testutil.NewFakeTransport()
	a := connect(newTestView(t, fake, &testutil.ManualScheduler{}), fake)

	a = enter(typeText(a, "date of birth"))

	want := []string{model.CommandSendText, model.CommandSuggestCase, model.CommandMapEntity}
	got := fake.SentTypes()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("sent = %v, want %v", got, want)
	}
	if fake.Sent()[0].Text != "date of birth" {
		t.Errorf("send_text text = %q", fake.Sent()[0].Text)
	}
	if a.lastSuggestion != "Date of Birth Change" {
		t.Errorf("lastSuggestion = %q", a.lastSuggestion)
	}
	if a.input.Value() != "" {
		t.Errorf("input not cleared: %q", a.input.Value())
	}
	if !strings.Contains(screen(a), "case: Date of Birth Change") {
		t.Errorf("title missing suggestion:\n%s", screen(a))
	}
}

func TestPromptBrowserNeedsActiveSession(t *testing.T) {
	fake := testutil.NewFakeTransport()
	a := newTestView(t, fake, &testutil.ManualScheduler{})

	a = update(a, altKey('p'))
	if !a.showPrompts {
		t.Fatal("prompt browser not open")
	}
	if !strings.Contains(screen(a), "start the session to send") {
		t.Errorf("disabled hint missing:\n%s", screen(a))
	}

	a = enter(a)
	if !a.showPrompts || len(fake.Sent()) != 0 {
		t.Fatal("inactive prompt should not send or close the browser")
	}

	a = update(a, model.ConnectedMsg{Transport: fake})
	a = enter(a)

	first := model.PromptCategories()[0].Phrases[0]
	sent := fake.Sent()
	if len(sent) != 1 || sent[0].Type != model.CommandSendText || sent[0].Text != first {
		t.Fatalf("sent = %+v, want send_text %q", sent, first)
	}
	if a.showPrompts {
		t.Error("browser should close after sending")
	}
}

func TestPromptBrowserCycleCategories(t *testing.T) {
	a := newTestView(t, testutil.NewFakeTransport(), &testutil.ManualScheduler{})
	a = update(a, altKey('p'))

	a = update(a, tea.KeyMsg{Type: tea.KeyTab})
	if got := a.prompts.Selected().Key; got != model.PromptCategories()[1].Key {
		t.Errorf("after tab selected = %s", got)
	}
	a = update(a, tea.KeyMsg{Type: tea.KeyShiftTab})
	a = update(a, tea.KeyMsg{Type: tea.KeyShiftTab})
	categories := model.PromptCategories()
	if got := a.prompts.Selected().Key; got != categories[len(categories)-1].Key {
		t.Errorf("after wrap selected = %s", got)
	}

	a = update(a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.showPrompts {
		t.Error("esc should close the browser")
	}
}

func TestToggleRawShowsJSON(t *testing.T) {
	fake := testutil.NewFakeTransport()
	a := connect(newTestView(t, fake, &testutil.ManualScheduler{}), fake)

	done := testutil.ResponseDone(testutil.FunctionCall(catalog.NameCalculate, "call_9", `{"expression":"2 + 2","result":4}`))
	a = update(a, model.ServerEventMsg{Transport: fake, Event: done})

	if strings.Contains(screen(a), `"call_id"`) {
		t.Error("raw JSON visible before toggle")
	}
	a = update(a, altKey('r'))
	if !strings.Contains(screen(a), `"call_id": "call_9"`) {
		t.Errorf("raw JSON missing after toggle:\n%s", screen(a))
	}
}

func TestTransportClosedEndsSession(t *testing.T) {
	fake := testutil.NewFakeTransport()
	a := connect(newTestView(t, fake, &testutil.ManualScheduler{}), fake)

	a = update(a, model.TransportClosedMsg{Transport: fake})
	if a.Controller().Active() {
		t.Error("session still active after transport closed")
	}
	if !strings.Contains(screen(a), "Session Ended") {
		t.Errorf("error modal missing:\n%s", screen(a))
	}

	a = enter(a)
	if a.showErrorModal {
		t.Error("enter should dismiss the modal")
	}
}

func TestStoppedTransportMessagesIgnored(t *testing.T) {
	first := testutil.NewFakeTransport()
	second := testutil.NewFakeTransport()
	a := connect(newTestView(t, first, &testutil.ManualScheduler{}), first)

	a = update(a, altKey('c'))
	a = update(a, altKey('c'))
	a = update(a, model.ConnectedMsg{Transport: second})
	if !a.Controller().Active() {
		t.Fatal("expected the second session to be active")
	}

	weather := testutil.ResponseDone(testutil.FunctionCall(catalog.NameWeather, "call_w", `{"location":"Paris"}`))
	tests := []struct {
		name string
		msg  tea.Msg
	}{
		{"event", model.ServerEventMsg{Transport: first, Event: weather}},
		{"session created", model.ServerEventMsg{Transport: first, Event: testutil.SessionCreated()}},
		{"closed", model.TransportClosedMsg{Transport: first}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a = update(a, tt.msg)
			if !a.Controller().Active() || a.showErrorModal {
				t.Error("message from the stopped transport ended the new session")
			}
			if len(a.Controller().Outputs()) != 0 || len(a.widgets) != 0 {
				t.Errorf("outputs = %d, want 0", len(a.Controller().Outputs()))
			}
			if len(second.Sent()) != 0 {
				t.Errorf("sent %v on the new transport", second.SentTypes())
			}
		})
	}

	a = update(a, model.ServerEventMsg{Transport: second, Event: weather})
	if len(a.Controller().Outputs()) != 1 {
		t.Errorf("outputs = %d, want 1 from the current transport", len(a.Controller().Outputs()))
	}
}

func TestConnectFailureShowsError(t *testing.T) {
	a := newTestView(t, testutil.NewFakeTransport(), &testutil.ManualScheduler{})
	a = update(a, altKey('c'))
	a = update(a, model.ConnectedMsg{Err: errors.New("dial refused")})

	if a.connecting || a.Controller().Active() {
		t.Error("expected idle after failed connect")
	}
	view := screen(a)
	if !strings.Contains(view, "Connection Failed") || !strings.Contains(view, "dial refused") {
		t.Errorf("error modal missing:\n%s", view)
	}
}

func TestCaseBrowserSearchFillsInput(t *testing.T) {
	a := newTestView(t, testutil.NewFakeTransport(), &testutil.ManualScheduler{})

	a = update(a, altKey('f'))
	if !a.showCases || len(a.caseResults) != len(testCases) {
		t.Fatalf("case browser not open with full catalog")
	}

	a = typeText(a, "birth")
	if len(a.caseResults) != 1 || a.caseResults[0].Label != "Date of Birth Change" {
		t.Fatalf("results = %+v", a.caseResults)
	}
	if !strings.Contains(screen(a), "Correct a member's date of birth") {
		t.Errorf("detail missing:\n%s", screen(a))
	}

	a = enter(a)
	if a.showCases {
		t.Error("browser should close on enter")
	}
	if a.input.Value() != "Date of Birth Change" {
		t.Errorf("input = %q", a.input.Value())
	}
}

func TestHelpAndSessionInfo(t *testing.T) {
	a := newTestView(t, testutil.NewFakeTransport(), &testutil.ManualScheduler{})

	a = update(a, altKey('h'))
	if !strings.Contains(screen(a), "Keyboard Shortcuts") {
		t.Errorf("help missing:\n%s", screen(a))
	}
	a = update(a, tea.KeyMsg{Type: tea.KeyEsc})

	a = update(a, altKey('i'))
	view := screen(a)
	if !strings.Contains(view, "Transport") || !strings.Contains(view, config.TransportSimulator) {
		t.Errorf("session info missing transport:\n%s", view)
	}
}
