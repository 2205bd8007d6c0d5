package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"rtconsole/config"
	"rtconsole/model"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultPingInterval   = 20 * time.Second
	defaultWriteTimeout   = 5 * time.Second
	defaultQueueSize      = 64
	eventBufferSize       = 256
	closeGrace            = 2 * time.Second
)

// Options configures a realtime connection.
type Options struct {
	URL    string
	Model  string
	APIKey string

	PingInterval time.Duration
	WriteTimeout time.Duration
	QueueSize    int

	// Dialer defaults to websocket.DefaultDialer.
	Dialer *websocket.Dialer
}

// Client is a model.Transport over the realtime websocket. Inbound frames are
// decoded on a read goroutine; outbound commands go through a bounded queue
// drained by a single writer goroutine.
type Client struct {
	conn   *websocket.Conn
	events chan model.ServerEvent
	queue  chan []byte

	done     chan struct{}
	readDone chan struct{}
	wg       sync.WaitGroup

	writeMu      sync.Mutex
	writeTimeout time.Duration

	closeOnce sync.Once
	closed    atomic.Bool

	errMu sync.Mutex
	err   error
}

var _ model.Transport = (*Client)(nil)

// Dial opens the socket and starts the read and write loops.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("realtime transport requires an API key")
	}
	endpoint, err := endpointURL(opts.URL, opts.Model)
	if err != nil {
		return nil, err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultConnectTimeout)
		defer cancel()
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+opts.APIKey)
	headers.Set("OpenAI-Beta", "realtime=v1")

	dialer := opts.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Realtime] dialing %s", redact(endpoint))
	}

	conn, resp, err := dialer.DialContext(ctx, endpoint, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect to realtime endpoint (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("failed to connect to realtime endpoint: %w", err)
	}

	c := newClient(conn, opts)
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Realtime] connected")
	}
	return c, nil
}

func newClient(conn *websocket.Conn, opts Options) *Client {
	queueSize := opts.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	ping := opts.PingInterval
	if ping <= 0 {
		ping = defaultPingInterval
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}

	c := &Client{
		conn:         conn,
		events:       make(chan model.ServerEvent, eventBufferSize),
		queue:        make(chan []byte, queueSize),
		done:         make(chan struct{}),
		readDone:     make(chan struct{}),
		writeTimeout: writeTimeout,
	}

	go c.readLoop()
	c.wg.Add(1)
	go c.writeLoop(ping)
	return c
}

func (c *Client) Events() <-chan model.ServerEvent {
	return c.events
}

// Err reports the error that ended the read loop, if any.
func (c *Client) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

func (c *Client) setErr(err error) {
	if err == nil {
		return
	}
	c.errMu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.errMu.Unlock()
}

// Send queues cmd without blocking. send_text is expanded into the
// conversation item plus a response.create, since the wire has no such event.
func (c *Client) Send(cmd model.ClientCommand) error {
	if c.closed.Load() {
		return model.ErrClosed
	}

	var cmds []model.ClientCommand
	if cmd.Type == model.CommandSendText {
		cmds = []model.ClientCommand{model.NewUserText(cmd.Text), model.NewResponseCreate("")}
	} else {
		cmds = []model.ClientCommand{cmd}
	}

	frames := make([][]byte, 0, len(cmds))
	for _, cc := range cmds {
		if cc.EventID == "" {
			cc.EventID = "evt_" + uuid.NewString()
		}
		data, err := json.Marshal(cc)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", cc.Type, err)
		}
		frames = append(frames, data)
	}

	if cap(c.queue)-len(c.queue) < len(frames) {
		return model.ErrQueueFull
	}
	for _, data := range frames {
		select {
		case c.queue <- data:
		default:
			return model.ErrQueueFull
		}
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Realtime] queued %s", cmd.Type)
	}
	return nil
}

func (c *Client) readLoop() {
	defer close(c.readDone)
	defer close(c.events)

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if c.closed.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			c.setErr(err)
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Realtime] read failed: %v", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		ev, err := model.ParseServerEvent(data)
		if err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Realtime] dropping frame: %v", err)
			}
			continue
		}
		if ev.Type == model.EventError && ev.Error != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Realtime] server error: %v", ev.Error)
		}

		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}

func (c *Client) writeLoop(pingInterval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.writeControl(websocket.PingMessage, []byte("ping")); err != nil {
				c.setErr(err)
				if config.DebugLog != nil {
					config.DebugLog.Printf("[Realtime] ping failed: %v", err)
				}
				return
			}
		case data := <-c.queue:
			if err := c.writeText(data); err != nil {
				c.setErr(err)
				if config.DebugLog != nil {
					config.DebugLog.Printf("[Realtime] write failed: %v", err)
				}
				return
			}
		}
	}
}

func (c *Client) writeText(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) writeControl(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(messageType, data, time.Now().Add(c.writeTimeout))
}

// Close sends a normal close frame, tears down the socket, and waits for both
// loops to exit. It is safe to call more than once.
func (c *Client) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)
		c.wg.Wait()

		c.writeMu.Lock()
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeGrace),
		)
		c.writeMu.Unlock()

		if err := c.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			closeErr = err
		}
		<-c.readDone

		if config.DebugLog != nil {
			config.DebugLog.Printf("[Realtime] closed")
		}
	})
	return closeErr
}

func endpointURL(raw, modelName string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("realtime URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid realtime URL: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	default:
		return "", fmt.Errorf("realtime URL must use ws or wss, got %q", u.Scheme)
	}
	if modelName != "" {
		q := u.Query()
		q.Set("model", modelName)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func redact(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	u.User = nil
	return u.String()
}
