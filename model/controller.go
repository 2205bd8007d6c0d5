package model

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"rtconsole/cases"
	"rtconsole/catalog"
	"rtconsole/config"
)

// ErrSessionInactive is returned by submissions made with no active session.
var ErrSessionInactive = errors.New("session is not active")

const (
	PaletteFeedbackDelay        = 500 * time.Millisecond
	PaletteFeedbackInstructions = "Ask for feedback about the color palette - don't repeat the colors, just ask if they like the colors."
)

// Scheduler runs f once after d. The controller uses it for the palette
// follow-up only.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Journal persists function call outputs. It is optional.
type Journal interface {
	StartSession(id, transport string) error
	RecordOutput(sessionID string, out FunctionCallOutput) error
	EndSession(id string) error
}

// SessionState is a snapshot of the controller.
type SessionState struct {
	Active       bool
	ConfigSent   bool
	Outputs      []FunctionCallOutput
	PendingInput string
}

type ControllerOptions struct {
	Session       config.SessionConfig
	Cases         cases.Catalog
	Direction     cases.Direction
	SuggestMode   string
	TransportName string
	Scheduler     Scheduler
	Journal       Journal
}

// Controller owns the session state. It is driven from a single goroutine
// (the UI update loop); the palette follow-up fires on a timer goroutine but
// only calls Sender.Send, which is goroutine safe.
type Controller struct {
	sessionUpdate ClientCommand
	catalog       cases.Catalog
	direction     cases.Direction
	suggestMode   string
	transportName string
	scheduler     Scheduler
	journal       Journal

	sender    Sender
	sessionID string
	state     SessionState
}

// NewController builds the session.update command once from opts.Session;
// it does not change for the controller's lifetime.
func NewController(opts ControllerOptions) *Controller {
	if opts.Scheduler == nil {
		opts.Scheduler = timerScheduler{}
	}
	if opts.Direction == "" {
		opts.Direction = cases.LabelContainsRequest
	}
	if opts.SuggestMode == "" {
		opts.SuggestMode = config.SuggestOnSubmit
	}

	return &Controller{
		sessionUpdate: NewSessionUpdate(opts.Session, catalog.RealtimeTools(catalog.Tools())),
		catalog:       opts.Cases,
		direction:     opts.Direction,
		suggestMode:   opts.SuggestMode,
		transportName: opts.TransportName,
		scheduler:     opts.Scheduler,
		journal:       opts.Journal,
	}
}

// Activate starts a session that sends through sender. Outputs are cleared
// and the session config may be sent again.
func (c *Controller) Activate(sender Sender) {
	c.sender = sender
	c.sessionID = uuid.NewString()
	c.state = SessionState{Active: true, PendingInput: c.state.PendingInput}

	if c.journal != nil {
		if err := c.journal.StartSession(c.sessionID, c.transportName); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Controller] journal start failed: %v", err)
		}
	}
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Controller] session %s active (transport=%s)", c.sessionID, c.transportName)
	}
}

// Deactivate ends the session, clearing outputs and the config-sent flag.
func (c *Controller) Deactivate() {
	if c.state.Active && c.journal != nil {
		if err := c.journal.EndSession(c.sessionID); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Controller] journal end failed: %v", err)
		}
	}
	if config.DebugLog != nil && c.state.Active {
		config.DebugLog.Printf("[Controller] session %s inactive", c.sessionID)
	}

	c.sender = nil
	c.state = SessionState{PendingInput: c.state.PendingInput}
}

func (c *Controller) Active() bool {
	return c.state.Active
}

func (c *Controller) SessionID() string {
	return c.sessionID
}

// State returns a copy of the current state.
func (c *Controller) State() SessionState {
	s := c.state
	s.Outputs = c.Outputs()
	return s
}

// Outputs returns a copy of the outputs, newest first.
func (c *Controller) Outputs() []FunctionCallOutput {
	return append([]FunctionCallOutput(nil), c.state.Outputs...)
}

func (c *Controller) SetPendingInput(text string) {
	c.state.PendingInput = text
}

// SessionUpdate returns the session.update command sent on session.created.
func (c *Controller) SessionUpdate() ClientCommand {
	return c.sessionUpdate
}

// HandleEvent folds one server event into the state and reports whether the
// outputs changed. Events are ignored while inactive.
func (c *Controller) HandleEvent(ev ServerEvent) bool {
	if !c.state.Active {
		return false
	}

	switch ev.Type {
	case EventSessionCreated:
		c.handleSessionCreated()
		return false

	case EventResponseDone:
		return c.handleResponseDone(ev)

	case EventTranscriptDone, EventTextDone:
		if c.suggestMode == config.SuggestOnTranscript {
			text := ev.Transcript
			if text == "" {
				text = ev.Text
			}
			if text != "" {
				c.suggestAndMap(text, EntityModelResponse)
			}
		}
		return false

	case EventError:
		if config.DebugLog != nil && ev.Error != nil {
			config.DebugLog.Printf("[Controller] server error: %v", ev.Error)
		}
		return false

	default:
		return false
	}
}

func (c *Controller) handleSessionCreated() {
	if c.state.ConfigSent {
		return
	}
	c.state.ConfigSent = true
	c.send(c.sessionUpdate)
}

func (c *Controller) handleResponseDone(ev ServerEvent) bool {
	if ev.Response == nil {
		return false
	}

	changed := false
	for _, item := range ev.Response.Output {
		if item.Type != ItemFunctionCall {
			continue
		}
		id := catalog.Lookup(item.Name)
		if id == catalog.FunctionUnknown {
			continue
		}

		out := outputFromItem(item)
		c.state.Outputs = upsertOutput(c.state.Outputs, out)
		changed = true

		if c.journal != nil {
			if err := c.journal.RecordOutput(c.sessionID, out); err != nil && config.DebugLog != nil {
				config.DebugLog.Printf("[Controller] journal record failed: %v", err)
			}
		}

		if id == catalog.FunctionColorPalette {
			c.schedulePaletteFeedback()
		}
	}
	return changed
}

// schedulePaletteFeedback is fire-and-forget: no cancellation, no retry.
func (c *Controller) schedulePaletteFeedback() {
	sender := c.sender
	c.scheduler.AfterFunc(PaletteFeedbackDelay, func() {
		if sender == nil {
			return
		}
		if err := sender.Send(NewResponseCreate(PaletteFeedbackInstructions)); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Controller] palette follow-up failed: %v", err)
		}
	})
}

// SubmitText forwards text unchanged as a send_text command.
func (c *Controller) SubmitText(text string) error {
	if !c.state.Active || c.sender == nil {
		return ErrSessionInactive
	}
	return c.sender.Send(NewSendText(text))
}

// SubmitStructuredInput runs the case matcher on text, sends suggest_case on
// a match, then always sends map_entity tagged as a customer request. Both
// sends are attempted even if the first fails.
func (c *Controller) SubmitStructuredInput(text string) (cases.Suggestion, bool, error) {
	if !c.state.Active || c.sender == nil {
		return cases.Suggestion{}, false, ErrSessionInactive
	}
	return c.suggestAndMap(text, EntityCustomerRequest)
}

// Submit is what the input box does on enter: send the text, then run the
// case suggestion flow unless suggestions are off.
func (c *Controller) Submit(text string) (cases.Suggestion, bool, error) {
	if err := c.SubmitText(text); err != nil {
		return cases.Suggestion{}, false, err
	}
	if c.suggestMode == config.SuggestOff {
		return cases.Suggestion{}, false, nil
	}
	return c.SubmitStructuredInput(text)
}

func (c *Controller) suggestAndMap(text, entity string) (cases.Suggestion, bool, error) {
	if c.sender == nil {
		return cases.Suggestion{}, false, ErrSessionInactive
	}

	var errs []error

	suggestion, ok := cases.Match(text, c.catalog, c.direction)
	if ok {
		if err := c.sender.Send(NewSuggestCase(suggestion)); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.sender.Send(NewMapEntity(entity, text)); err != nil {
		errs = append(errs, err)
	}

	err := errors.Join(errs...)
	if err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Controller] %s suggestion send failed: %v", entity, err)
	}
	return suggestion, ok, err
}

func (c *Controller) send(cmd ClientCommand) {
	if c.sender == nil {
		return
	}
	if err := c.sender.Send(cmd); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Controller] send %s failed: %v", cmd.Type, err)
	}
}
