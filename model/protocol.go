package model

import (
	"encoding/json"
	"fmt"

	"rtconsole/cases"
	"rtconsole/catalog"
	"rtconsole/config"
)

// Server event types the console reacts to. Anything else is passed through
// with its raw JSON and only shows up in the event log.
const (
	EventSessionCreated  = "session.created"
	EventSessionUpdated  = "session.updated"
	EventResponseDone    = "response.done"
	EventTranscriptDone  = "response.audio_transcript.done"
	EventTextDone        = "response.text.done"
	EventError           = "error"
	EventInputTranscript = "conversation.item.input_audio_transcription.completed"
)

// Client command types.
const (
	CommandSessionUpdate      = "session.update"
	CommandSendText           = "send_text"
	CommandResponseCreate     = "response.create"
	CommandSuggestCase        = "suggest_case"
	CommandMapEntity          = "map_entity"
	CommandConversationCreate = "conversation.item.create"
)

// Output item types inside response.done.
const (
	ItemFunctionCall = "function_call"
	ItemMessage      = "message"
)

// Entity names carried by map_entity.
const (
	EntityCustomerRequest = "customer_request"
	EntityModelResponse   = "model_response"
)

// ServerEvent is one inbound event. Only the fields the console reads are
// decoded; Raw keeps the full frame.
type ServerEvent struct {
	Type       string          `json:"type"`
	EventID    string          `json:"event_id,omitempty"`
	Session    json.RawMessage `json:"session,omitempty"`
	Response   *Response       `json:"response,omitempty"`
	Transcript string          `json:"transcript,omitempty"`
	Text       string          `json:"text,omitempty"`
	Error      *ErrorDetail    `json:"error,omitempty"`

	Raw json.RawMessage `json:"-"`
}

type Response struct {
	ID     string       `json:"id,omitempty"`
	Status string       `json:"status,omitempty"`
	Output []OutputItem `json:"output"`
}

// OutputItem is an entry of response.output: a function_call or a message.
type OutputItem struct {
	Type      string        `json:"type"`
	ID        string        `json:"id,omitempty"`
	Status    string        `json:"status,omitempty"`
	Name      string        `json:"name,omitempty"`
	CallID    string        `json:"call_id,omitempty"`
	Arguments string        `json:"arguments,omitempty"`
	Role      string        `json:"role,omitempty"`
	Content   []ContentPart `json:"content,omitempty"`
}

type ContentPart struct {
	Type       string `json:"type"`
	Text       string `json:"text,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

// ErrorDetail is the payload of an error event.
type ErrorDetail struct {
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *ErrorDetail) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// ParseServerEvent decodes one frame and keeps the bytes in Raw.
func ParseServerEvent(data []byte) (ServerEvent, error) {
	var ev ServerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return ServerEvent{}, fmt.Errorf("failed to decode server event: %w", err)
	}
	if ev.Type == "" {
		return ServerEvent{}, fmt.Errorf("server event has no type")
	}
	ev.Raw = append(json.RawMessage(nil), data...)
	return ev, nil
}

// ClientCommand is one outbound command. Exactly the fields that belong to
// Type are set.
type ClientCommand struct {
	Type     string            `json:"type"`
	EventID  string            `json:"event_id,omitempty"`
	Session  *SessionUpdate    `json:"session,omitempty"`
	Text     string            `json:"text,omitempty"`
	Response *ResponseRequest  `json:"response,omitempty"`
	Case     *cases.Suggestion `json:"case,omitempty"`
	Entity   *Entity           `json:"entity,omitempty"`
	Item     *ConversationItem `json:"item,omitempty"`
}

type SessionUpdate struct {
	Tools                   []catalog.RealtimeTool `json:"tools"`
	ToolChoice              string                 `json:"tool_choice"`
	Voice                   string                 `json:"voice"`
	Instructions            string                 `json:"instructions"`
	InputAudioFormat        string                 `json:"input_audio_format,omitempty"`
	OutputAudioFormat       string                 `json:"output_audio_format,omitempty"`
	InputAudioTranscription *Transcription         `json:"input_audio_transcription,omitempty"`
	TurnDetection           *config.TurnDetection  `json:"turn_detection,omitempty"`
	Temperature             float64                `json:"temperature"`
	MaxResponseOutputTokens int                    `json:"max_response_output_tokens"`
}

type Transcription struct {
	Model string `json:"model"`
}

type ResponseRequest struct {
	Instructions string `json:"instructions,omitempty"`
}

type Entity struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ConversationItem struct {
	Type    string        `json:"type"`
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// NewSessionUpdate builds the session.update command from the session config
// and the advertised tools.
func NewSessionUpdate(cfg config.SessionConfig, tools []catalog.RealtimeTool) ClientCommand {
	s := &SessionUpdate{
		Tools:                   tools,
		ToolChoice:              cfg.ToolChoice,
		Voice:                   cfg.Voice,
		Instructions:            cfg.Instructions,
		InputAudioFormat:        cfg.InputAudioFormat,
		OutputAudioFormat:       cfg.OutputAudioFormat,
		Temperature:             cfg.Temperature,
		MaxResponseOutputTokens: cfg.MaxOutputTokens,
	}
	if cfg.TranscriptionModel != "" {
		s.InputAudioTranscription = &Transcription{Model: cfg.TranscriptionModel}
	}
	if cfg.TurnDetection.Type != "" {
		td := cfg.TurnDetection
		s.TurnDetection = &td
	}
	return ClientCommand{Type: CommandSessionUpdate, Session: s}
}

func NewSendText(text string) ClientCommand {
	return ClientCommand{Type: CommandSendText, Text: text}
}

func NewResponseCreate(instructions string) ClientCommand {
	return ClientCommand{Type: CommandResponseCreate, Response: &ResponseRequest{Instructions: instructions}}
}

func NewSuggestCase(s cases.Suggestion) ClientCommand {
	return ClientCommand{Type: CommandSuggestCase, Case: &s}
}

func NewMapEntity(name, value string) ClientCommand {
	return ClientCommand{Type: CommandMapEntity, Entity: &Entity{Name: name, Value: value}}
}

// NewUserText is the conversation.item.create a send_text expands to on the
// realtime wire.
func NewUserText(text string) ClientCommand {
	return ClientCommand{
		Type: CommandConversationCreate,
		Item: &ConversationItem{
			Type:    ItemMessage,
			Role:    "user",
			Content: []ContentPart{{Type: "input_text", Text: text}},
		},
	}
}
