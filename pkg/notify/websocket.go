package notify

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Hub fans notification messages out to websocket connections, one topic per
// session. The embedding page opens the session's event socket and receives
// every interomap_data payload pushed through the bound notifier.
//
// Delivery stays best-effort: a write failure detaches and closes the
// connection without surfacing an error to the engine.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]map[*websocket.Conn]struct{}
	logger *log.Logger
}

// NewHub creates an empty hub. A nil logger falls back to log.Default().
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		conns:  make(map[string]map[*websocket.Conn]struct{}),
		logger: logger,
	}
}

// Attach registers a connection for the given topic.
func (h *Hub) Attach(topic string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.conns[topic]
	if !ok {
		set = make(map[*websocket.Conn]struct{})
		h.conns[topic] = set
	}
	set[conn] = struct{}{}
}

// Detach removes a connection from the topic and closes it.
func (h *Hub) Detach(topic string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(topic, conn)
}

func (h *Hub) detachLocked(topic string, conn *websocket.Conn) {
	if set, ok := h.conns[topic]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.conns, topic)
		}
	}
	_ = conn.Close()
}

// Listeners returns the number of connections attached to the topic.
func (h *Hub) Listeners(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[topic])
}

// Notifier returns a Notifier bound to the given topic.
func (h *Hub) Notifier(topic string) Notifier {
	return &topicNotifier{hub: h, topic: topic}
}

// writeWait bounds each connection write. A host that stops reading gets its
// connection dropped instead of stalling the sender.
const writeWait = 5 * time.Second

// send pushes the message to every connection on the topic. Writes happen
// outside the hub lock so one stalled connection cannot wedge other topics;
// per-connection write ordering is still serialized because each topic is fed
// by a single session.
func (h *Hub) send(topic string, msg Message) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns[topic]))
	for conn := range h.conns[topic] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			h.logger.Debug("dropping host connection", "topic", topic, "err", err)
			h.Detach(topic, conn)
		}
	}
}

// topicNotifier adapts the hub to the Notifier port for one session.
type topicNotifier struct {
	hub   *Hub
	topic string
}

// Send delivers the message to all attached host connections.
func (n *topicNotifier) Send(_ context.Context, msg Message) {
	n.hub.send(n.topic, msg)
}

var _ Notifier = (*topicNotifier)(nil)
