// Package notify defines the one-way notification port through which the
// engine hands serialized drawings to the hosting platform. Delivery is
// fire-and-forget: single target, no acknowledgment, no retry. The engine
// never depends on delivery confirmation and has no failure path if the
// recipient is absent.
package notify

import (
	"context"
	"sync"
)

// EventData is the event name the hosting platform listens for.
const EventData = "interomap_data"

// Message is the outbound payload. Variable is the routing token supplied in
// the launch parameters; Output is the wire-encoded Drawing.
type Message struct {
	Event    string `json:"event"`
	Variable string `json:"variable"`
	Output   string `json:"output"`
}

// NewMessage builds a data message for the given routing variable.
func NewMessage(variable, output string) Message {
	return Message{Event: EventData, Variable: variable, Output: output}
}

// Notifier is the one-way port to the host context.
type Notifier interface {
	// Send delivers the message best-effort. It must not block on the
	// recipient and has no error to report: a disconnected host is
	// indistinguishable from a silent one.
	Send(ctx context.Context, msg Message)
}

// NullNotifier discards every message.
type NullNotifier struct{}

// Send does nothing.
func (NullNotifier) Send(context.Context, Message) {}

// Recorder captures sent messages for tests and the demo command.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Send records the message.
func (r *Recorder) Send(_ context.Context, msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Messages returns a copy of all recorded messages in send order.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Last returns the most recently sent message.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}

// Len returns the number of recorded messages.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

// Ensure implementations satisfy the port.
var (
	_ Notifier = NullNotifier{}
	_ Notifier = (*Recorder)(nil)
)
