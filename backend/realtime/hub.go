package realtime

import (
	"context"

	"go.uber.org/zap"
)

// Hub fans events out to connected clients. A single run loop owns
// the client map; every mutation and delivery funnels through it, so
// events from one caller reach each recipient in the order they were
// published. Delivery is best effort: no acknowledgement, no retry,
// and a client that cannot keep up is dropped.
type Hub struct {
	ops     chan func()
	clients map[string]*Client
	log     *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		ops:     make(chan func()),
		clients: make(map[string]*Client),
		log:     log,
	}
}

// Run processes hub operations until ctx is cancelled, then closes
// every remaining client queue.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for id, c := range h.clients {
				close(c.Send)
				delete(h.clients, id)
			}
			return
		case fn := <-h.ops:
			fn()
		}
	}
}

func (h *Hub) Register(c *Client) {
	h.ops <- func() {
		h.clients[c.ConnID] = c
	}
}

func (h *Hub) Unregister(c *Client) {
	h.ops <- func() {
		if cur, ok := h.clients[c.ConnID]; ok && cur == c {
			delete(h.clients, c.ConnID)
			close(cur.Send)
		}
	}
}

// Publish sends an event to every connected client.
func (h *Hub) Publish(kind string, data any) {
	message, err := encode(kind, data)
	if err != nil {
		h.log.Errorw("encode event", "type", kind, "error", err)
		return
	}
	h.ops <- func() {
		for id, c := range h.clients {
			h.deliver(id, c, message)
		}
	}
}

// SendTo delivers an event to exactly one connection. Unknown
// connections are a no-op.
func (h *Hub) SendTo(connID, kind string, data any) {
	message, err := encode(kind, data)
	if err != nil {
		h.log.Errorw("encode event", "type", kind, "error", err)
		return
	}
	h.ops <- func() {
		if c, ok := h.clients[connID]; ok {
			h.deliver(connID, c, message)
		}
	}
}

// deliver runs on the hub loop only.
func (h *Hub) deliver(id string, c *Client, message []byte) {
	select {
	case c.Send <- message:
	default:
		h.log.Warnw("dropping slow client", "conn", id)
		close(c.Send)
		delete(h.clients, id)
	}
}
