package model

import "errors"

var (
	// ErrClosed is returned by Send after Close.
	ErrClosed = errors.New("transport closed")
	// ErrQueueFull is returned when a command cannot be queued without blocking.
	ErrQueueFull = errors.New("outbound queue full")
)

// Sender accepts outbound commands. Send must not block and must be safe to
// call from any goroutine; delivery is not acknowledged.
type Sender interface {
	Send(cmd ClientCommand) error
}

// Transport is a live connection to something that speaks the realtime event
// protocol: the realtime websocket, a chat bridge, or the simulator.
type Transport interface {
	Sender
	// Events is closed when the transport shuts down.
	Events() <-chan ServerEvent
	Close() error
}
