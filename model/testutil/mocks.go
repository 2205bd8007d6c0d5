package testutil

import (
	"sync"
	"time"

	"rtconsole/model"
)

// FakeTransport records every command sent through it. Tests push inbound
// events with Emit.
type FakeTransport struct {
	mu      sync.Mutex
	sent    []model.ClientCommand
	events  chan model.ServerEvent
	closed  bool
	SendErr error
}

func NewFakeTransport() *FakeTransport {
	return &FakeTransport{events: make(chan model.ServerEvent, 64)}
}

func (f *FakeTransport) Send(cmd model.ClientCommand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return model.ErrClosed
	}
	if f.SendErr != nil {
		return f.SendErr
	}
	f.sent = append(f.sent, cmd)
	return nil
}

func (f *FakeTransport) Events() <-chan model.ServerEvent {
	return f.events
}

func (f *FakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.events)
	}
	return nil
}

func (f *FakeTransport) Emit(ev model.ServerEvent) {
	f.events <- ev
}

// Sent returns a copy of the recorded commands.
func (f *FakeTransport) Sent() []model.ClientCommand {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ClientCommand(nil), f.sent...)
}

// SentTypes returns the Type of every recorded command, in order.
func (f *FakeTransport) SentTypes() []string {
	sent := f.Sent()
	types := make([]string, len(sent))
	for i, c := range sent {
		types[i] = c.Type
	}
	return types
}

func (f *FakeTransport) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}

// ManualScheduler holds scheduled functions until Fire is called.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []func()
	Delays  []time.Duration
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, f)
	s.Delays = append(s.Delays, d)
}

func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Fire runs and clears every pending function.
func (s *ManualScheduler) Fire() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, f := range pending {
		f()
	}
}

// MemoryJournal is an in-memory model.Journal.
type MemoryJournal struct {
	Started  []string
	Ended    []string
	Recorded map[string][]model.FunctionCallOutput
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{Recorded: make(map[string][]model.FunctionCallOutput)}
}

func (j *MemoryJournal) StartSession(id, transport string) error {
	j.Started = append(j.Started, id)
	return nil
}

func (j *MemoryJournal) RecordOutput(sessionID string, out model.FunctionCallOutput) error {
	j.Recorded[sessionID] = append(j.Recorded[sessionID], out)
	return nil
}

func (j *MemoryJournal) EndSession(id string) error {
	j.Ended = append(j.Ended, id)
	return nil
}
