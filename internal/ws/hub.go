package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Event names pushed to owners.
const (
	MaterialCreated      = "material_created"
	MaterialUpdated      = "material_updated"
	MaterialDeleted      = "material_deleted"
	ConfigurationUpdated = "configuration_updated"
	ProductSaved         = "product_saved"
	ProductDeleted       = "product_deleted"
)

// Conn is the part of *websocket.Conn the hub needs.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type message struct {
	owner uuid.UUID
	data  []byte
}

// Event is the JSON envelope every notification is wrapped in.
type Event struct {
	Type    string    `json:"type"`
	Data    any       `json:"data,omitempty"`
	SentAt  time.Time `json:"sent_at"`
	OwnerID uuid.UUID `json:"owner_id"`
}

// Hub fans events out to the websocket connections of a single owner.
// Connections of other owners never see them.
type Hub struct {
	clients   map[uuid.UUID]map[Conn]bool
	broadcast chan message
	done      chan struct{}
	stopped   bool
	log       *slog.Logger
	mutex     sync.Mutex
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:   make(map[uuid.UUID]map[Conn]bool),
		broadcast: make(chan message, 64),
		done:      make(chan struct{}),
		log:       log,
	}
}

// Run serves the hub until ctx is cancelled, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer h.closeAll()
	for {
		select {
		case <-ctx.Done():
			return

		case m := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients[m.owner] {
				if err := conn.WriteMessage(websocket.TextMessage, m.data); err != nil {
					h.log.Warn("ws write failed", "owner_id", m.owner, "error", err)
					h.remove(m.owner, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// remove must be called with the mutex held.
func (h *Hub) remove(owner uuid.UUID, conn Conn) {
	conns, ok := h.clients[owner]
	if !ok || !conns[conn] {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.clients, owner)
	}
	_ = conn.Close()
}

func (h *Hub) closeAll() {
	close(h.done)
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.stopped = true
	for owner, conns := range h.clients {
		for conn := range conns {
			_ = conn.Close()
		}
		delete(h.clients, owner)
	}
}

// Register adds conn to owner's connections. On a stopped hub the
// connection is closed instead.
func (h *Hub) Register(owner uuid.UUID, conn Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.stopped {
		_ = conn.Close()
		return
	}
	if h.clients[owner] == nil {
		h.clients[owner] = make(map[Conn]bool)
	}
	h.clients[owner][conn] = true
	h.log.Debug("ws client connected", "owner_id", owner)
}

// Unregister removes and closes conn. Once it returns the hub never
// touches conn again, so the caller may hand it back to its pool.
func (h *Hub) Unregister(owner uuid.UUID, conn Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.remove(owner, conn)
}

// Connections returns how many connections owner currently has.
func (h *Hub) Connections(owner uuid.UUID) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients[owner])
}

// Notify queues event for owner. It never blocks the caller: when the queue
// is full or the hub has stopped the event is dropped.
func (h *Hub) Notify(owner uuid.UUID, event string, payload any) {
	data, err := json.Marshal(Event{Type: event, Data: payload, SentAt: time.Now().UTC(), OwnerID: owner})
	if err != nil {
		h.log.Error("ws encode event", "event", event, "error", err)
		return
	}
	select {
	case h.broadcast <- message{owner, data}:
	case <-h.done:
	default:
		h.log.Warn("ws queue full, event dropped", "owner_id", owner, "event", event)
	}
}
