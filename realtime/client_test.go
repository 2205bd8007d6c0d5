package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"rtconsole/model"
)

type handshake struct {
	auth  string
	beta  string
	model string
}

func newTestServer(t *testing.T, handler func(conn *websocket.Conn)) (string, <-chan handshake) {
	t.Helper()

	seen := make(chan handshake, 1)
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- handshake{
			auth:  r.Header.Get("Authorization"),
			beta:  r.Header.Get("OpenAI-Beta"),
			model: r.URL.Query().Get("model"),
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http"), seen
}

func nextEvent(t *testing.T, c *Client) model.ServerEvent {
	t.Helper()
	select {
	case ev, ok := <-c.Events():
		if !ok {
			t.Fatal("events closed")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return model.ServerEvent{}
}

func TestDialHeadersAndEvents(t *testing.T) {
	url, seen := newTestServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteJSON(map[string]any{"type": "session.created", "event_id": "event_1", "session": map[string]any{"id": "sess_1"}})
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		_ = conn.WriteJSON(map[string]any{"type": "rate_limits.updated"})
		_ = conn.WriteJSON(map[string]any{"type": "error", "error": map[string]any{"type": "invalid_request_error", "message": "bad"}})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	c, err := Dial(context.Background(), Options{URL: url, Model: "gpt-test", APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	hs := <-seen
	if hs.auth != "Bearer sk-test" || hs.beta != "realtime=v1" || hs.model != "gpt-test" {
		t.Errorf("handshake = %+v", hs)
	}

	if ev := nextEvent(t, c); ev.Type != model.EventSessionCreated || ev.EventID != "event_1" {
		t.Errorf("event 1 = %+v", ev)
	}
	// The malformed frame is dropped; unknown types pass through with Raw.
	ev := nextEvent(t, c)
	if ev.Type != "rate_limits.updated" || !strings.Contains(string(ev.Raw), "rate_limits.updated") {
		t.Errorf("event 2 = %+v", ev)
	}
	ev = nextEvent(t, c)
	if ev.Type != model.EventError || ev.Error == nil || ev.Error.Message != "bad" {
		t.Errorf("event 3 = %+v", ev)
	}
}

func TestSendTextExpands(t *testing.T) {
	frames := make(chan map[string]any, 8)
	url, _ := newTestServer(t, func(conn *websocket.Conn) {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var m map[string]any
			if json.Unmarshal(data, &m) == nil {
				frames <- m
			}
		}
	})

	c, err := Dial(context.Background(), Options{URL: url, APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	if err := c.Send(model.NewSendText("hello")); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if err := c.Send(model.NewMapEntity(model.EntityCustomerRequest, "hello")); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	want := []string{model.CommandConversationCreate, model.CommandResponseCreate, model.CommandMapEntity}
	for i, typ := range want {
		select {
		case f := <-frames:
			if f["type"] != typ {
				t.Errorf("frame %d type = %v, want %s", i, f["type"], typ)
			}
			if id, _ := f["event_id"].(string); !strings.HasPrefix(id, "evt_") {
				t.Errorf("frame %d event_id = %v", i, f["event_id"])
			}
			if typ == model.CommandConversationCreate {
				item := f["item"].(map[string]any)
				content := item["content"].([]any)[0].(map[string]any)
				if item["role"] != "user" || content["type"] != "input_text" || content["text"] != "hello" {
					t.Errorf("item = %v", item)
				}
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for frame %d", i)
		}
	}
}

func TestSendAfterClose(t *testing.T) {
	url, _ := newTestServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	c, err := Dial(context.Background(), Options{URL: url, APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if err := c.Send(model.NewSendText("late")); !errors.Is(err, model.ErrClosed) {
		t.Errorf("Send after Close = %v, want ErrClosed", err)
	}
	if _, ok := <-c.Events(); ok {
		t.Error("expected events to be closed")
	}
}

func TestServerCloseEndsEvents(t *testing.T) {
	url, _ := newTestServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	})

	c, err := Dial(context.Background(), Options{URL: url, APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	select {
	case _, ok := <-c.Events():
		if ok {
			t.Error("expected no events before close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("events not closed after server close")
	}
	if c.Err() != nil {
		t.Errorf("Err() = %v, want nil on normal closure", c.Err())
	}
}

func TestDialRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"missing key", Options{URL: "wss://example.com/v1/realtime"}},
		{"empty url", Options{APIKey: "sk"}},
		{"http scheme", Options{URL: "https://example.com/v1/realtime", APIKey: "sk"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Dial(context.Background(), tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDialHandshakeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := Dial(context.Background(), Options{URL: "ws" + strings.TrimPrefix(server.URL, "http"), APIKey: "bad"})
	if err == nil || !strings.Contains(err.Error(), "status 401") {
		t.Errorf("Dial() error = %v, want status 401", err)
	}
}

func TestEndpointURL(t *testing.T) {
	got, err := endpointURL("wss://api.openai.com/v1/realtime", "gpt-4o-realtime-preview")
	if err != nil {
		t.Fatal(err)
	}
	if got != "wss://api.openai.com/v1/realtime?model=gpt-4o-realtime-preview" {
		t.Errorf("endpointURL() = %s", got)
	}
}

func TestRESTBaseURL(t *testing.T) {
	tests := map[string]string{
		"wss://api.openai.com/v1/realtime":        "https://api.openai.com/v1",
		"wss://api.openai.com/v1/realtime/?x=1":   "https://api.openai.com/v1",
		"ws://localhost:8080/v1/realtime?model=m": "http://localhost:8080/v1",
	}
	for in, want := range tests {
		got, err := RESTBaseURL(in)
		if err != nil {
			t.Errorf("RESTBaseURL(%q) error = %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("RESTBaseURL(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := RESTBaseURL("https://api.openai.com/v1"); err == nil {
		t.Error("expected error for non-websocket scheme")
	}
}
