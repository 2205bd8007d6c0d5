package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"rtconsole/catalog"
	"rtconsole/config"
	"rtconsole/model"
)

const (
	defaultBridgeQueue = 32
	bridgeEventBuffer  = 64
	defaultTurnTimeout = 2 * time.Minute
)

// BridgeOptions configures a Bridge. Zero values pick defaults.
type BridgeOptions struct {
	QueueSize   int
	TurnTimeout time.Duration
}

// Bridge is a model.Transport backed by a chat Provider. Commands are handled
// one at a time on a single goroutine, so turns never overlap.
type Bridge struct {
	provider    Provider
	turnTimeout time.Duration

	events chan model.ServerEvent
	queue  chan model.ClientCommand

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeOnce sync.Once
	closed    atomic.Bool

	// owned by run
	sessionID    string
	instructions string
	tools        []mcptypes.Tool
	history      []Message
}

var _ model.Transport = (*Bridge)(nil)

// NewBridge starts the bridge. The first event is always session.created.
func NewBridge(p Provider, opts BridgeOptions) *Bridge {
	queueSize := opts.QueueSize
	if queueSize <= 0 {
		queueSize = defaultBridgeQueue
	}
	turnTimeout := opts.TurnTimeout
	if turnTimeout <= 0 {
		turnTimeout = defaultTurnTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &Bridge{
		provider:    p,
		turnTimeout: turnTimeout,
		events:      make(chan model.ServerEvent, bridgeEventBuffer),
		queue:       make(chan model.ClientCommand, queueSize),
		ctx:         ctx,
		cancel:      cancel,
		sessionID:   "sess_" + uuid.NewString(),
	}

	b.wg.Add(1)
	go b.run()
	return b
}

func (b *Bridge) Events() <-chan model.ServerEvent {
	return b.events
}

// Send queues cmd without blocking.
func (b *Bridge) Send(cmd model.ClientCommand) error {
	if b.closed.Load() {
		return model.ErrClosed
	}
	select {
	case b.queue <- cmd:
		return nil
	default:
		return model.ErrQueueFull
	}
}

// Close cancels any running turn and waits for the bridge goroutine to exit.
// Events is closed afterwards.
func (b *Bridge) Close() error {
	b.closeOnce.Do(func() {
		b.closed.Store(true)
		b.cancel()
		b.wg.Wait()
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Bridge] closed session %s", b.sessionID)
		}
	})
	return nil
}

func (b *Bridge) run() {
	defer b.wg.Done()
	defer close(b.events)

	session, _ := json.Marshal(map[string]string{
		"id":     b.sessionID,
		"object": "realtime.session",
		"model":  b.provider.GetModel(),
	})
	if !b.emit(model.ServerEvent{Type: model.EventSessionCreated, Session: session}) {
		return
	}

	for {
		select {
		case <-b.ctx.Done():
			return
		case cmd := <-b.queue:
			if !b.handle(cmd) {
				return
			}
		}
	}
}

// handle processes one command. It returns false once the bridge is closing.
func (b *Bridge) handle(cmd model.ClientCommand) bool {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Bridge] command %s", cmd.Type)
	}

	switch cmd.Type {
	case model.CommandSessionUpdate:
		if cmd.Session != nil {
			b.instructions = cmd.Session.Instructions
			b.tools = toolsByName(cmd.Session.Tools)
		}
		session, _ := json.Marshal(map[string]any{
			"id":           b.sessionID,
			"object":       "realtime.session",
			"model":        b.provider.GetModel(),
			"instructions": b.instructions,
			"tools":        len(b.tools),
		})
		return b.emit(model.ServerEvent{Type: model.EventSessionUpdated, Session: session})

	case model.CommandSendText:
		b.history = append(b.history, Message{Role: "user", Content: cmd.Text})
		return b.turn("")

	case model.CommandConversationCreate:
		if cmd.Item != nil {
			b.history = append(b.history, Message{Role: cmd.Item.Role, Content: itemText(cmd.Item)})
		}
		return true

	case model.CommandResponseCreate:
		var instructions string
		if cmd.Response != nil {
			instructions = cmd.Response.Instructions
		}
		return b.turn(instructions)

	case model.CommandSuggestCase, model.CommandMapEntity:
		// Side-channel commands have no chat equivalent.
		if config.DebugLog != nil {
			raw, _ := json.Marshal(cmd)
			config.DebugLog.Printf("[Bridge] acknowledged %s", raw)
		}
		return true

	default:
		return b.emit(errorEvent("invalid_request_error", fmt.Sprintf("unsupported command type %q", cmd.Type)))
	}
}

// turn runs one chat completion and reports it as response.done. Extra
// instructions apply to this turn only.
func (b *Bridge) turn(extra string) bool {
	messages := make([]Message, 0, len(b.history)+2)
	if b.instructions != "" {
		messages = append(messages, Message{Role: "system", Content: b.instructions})
	}
	messages = append(messages, b.history...)
	if extra != "" {
		messages = append(messages, Message{Role: "user", Content: extra})
	}

	ctx, cancel := context.WithTimeout(b.ctx, b.turnTimeout)
	defer cancel()

	var text strings.Builder
	var calls []ToolCall
	err := b.provider.ChatWithTools(ctx, messages, b.tools, func(chunk string, toolCalls []ToolCall) error {
		text.WriteString(chunk)
		calls = append(calls, toolCalls...)
		return nil
	})
	if b.ctx.Err() != nil {
		return false
	}
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Bridge] turn failed: %v", err)
		}
		return b.emit(errorEvent("provider_error", err.Error()))
	}

	reply := strings.TrimSpace(text.String())
	resp := &model.Response{
		ID:     "resp_" + uuid.NewString(),
		Status: "completed",
		Output: make([]model.OutputItem, 0, len(calls)+1),
	}
	for _, call := range calls {
		callID := call.ID
		if callID == "" {
			callID = "call_" + uuid.NewString()
		}
		resp.Output = append(resp.Output, model.OutputItem{
			Type:      model.ItemFunctionCall,
			ID:        "item_" + uuid.NewString(),
			Status:    "completed",
			Name:      call.Name,
			CallID:    callID,
			Arguments: call.Arguments,
		})
	}
	if reply != "" {
		resp.Output = append(resp.Output, model.OutputItem{
			Type:    model.ItemMessage,
			ID:      "item_" + uuid.NewString(),
			Status:  "completed",
			Role:    "assistant",
			Content: []model.ContentPart{{Type: "text", Text: reply}},
		})
	}

	if note := historyNote(reply, calls); note != "" {
		b.history = append(b.history, Message{Role: "assistant", Content: note})
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Bridge] turn done: %d tool calls, %d chars", len(calls), len(reply))
	}

	if !b.emit(model.ServerEvent{Type: model.EventResponseDone, Response: resp}) {
		return false
	}
	if reply != "" {
		return b.emit(model.ServerEvent{Type: model.EventTextDone, Text: reply})
	}
	return true
}

// emit delivers ev with its Raw frame filled in. It returns false if the
// bridge closed while waiting.
func (b *Bridge) emit(ev model.ServerEvent) bool {
	ev.EventID = "event_" + uuid.NewString()
	if raw, err := json.Marshal(ev); err == nil {
		ev.Raw = raw
	}

	select {
	case b.events <- ev:
		return true
	case <-b.ctx.Done():
		return false
	}
}

func errorEvent(kind, message string) model.ServerEvent {
	return model.ServerEvent{
		Type:  model.EventError,
		Error: &model.ErrorDetail{Type: kind, Message: message},
	}
}

// toolsByName resolves advertised realtime tools against the catalog.
// Names the catalog does not know are skipped.
func toolsByName(advertised []catalog.RealtimeTool) []mcptypes.Tool {
	tools := make([]mcptypes.Tool, 0, len(advertised))
	for _, t := range advertised {
		spec, ok := catalog.Get(t.Name)
		if !ok {
			continue
		}
		tools = append(tools, spec.Tool())
	}
	return tools
}

func itemText(item *model.ConversationItem) string {
	var parts []string
	for _, c := range item.Content {
		switch {
		case c.Text != "":
			parts = append(parts, c.Text)
		case c.Transcript != "":
			parts = append(parts, c.Transcript)
		}
	}
	return strings.Join(parts, "\n")
}

// historyNote keeps the conversation alternating when a turn produced only
// tool calls.
func historyNote(reply string, calls []ToolCall) string {
	if len(calls) == 0 {
		return reply
	}
	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.Name
	}
	note := "[called " + strings.Join(names, ", ") + "]"
	if reply == "" {
		return note
	}
	return reply + "\n" + note
}
