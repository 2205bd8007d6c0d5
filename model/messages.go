package model

// ConnectedMsg reports the result of opening a transport.
type ConnectedMsg struct {
	Transport Transport
	Err       error
}

// ServerEventMsg carries one inbound event into the update loop. Transport is
// the connection the event was read from.
type ServerEventMsg struct {
	Transport Transport
	Event     ServerEvent
}

// TransportClosedMsg is sent once the event channel of Transport is closed.
type TransportClosedMsg struct {
	Transport Transport
}

type FlashTickMsg struct{}
