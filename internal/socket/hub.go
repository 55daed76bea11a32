// server/internal/socket/hub.go
package socket

import (
	"sync"
	"time"

	"school-supply-tracker-api-server/internal/logger"
)

// Conn is the part of *websocket.Conn the hub writes through.
type Conn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Event is the frame pushed to clients.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
	At   time.Time   `json:"at"`
}

const (
	EventInventoryUpdated = "inventory.updated"
	EventPickupRecorded   = "pickup.recorded"
)

const (
	// writeWait bounds a single frame write to a client.
	writeWait = 10 * time.Second
	// sendBuffer is how many events may queue for a client before it is dropped.
	sendBuffer = 256
)

// client owns one socket. Only its write loop touches conn for data frames,
// so publishers never wait on the network.
type client struct {
	uid  string
	conn Conn
	send chan Event
	quit chan struct{}
	once sync.Once
}

func (c *client) stop() {
	c.once.Do(func() { close(c.quit) })
}

// enqueue hands ev to the write loop. It reports false when the queue is full.
func (c *client) enqueue(ev Event) bool {
	select {
	case <-c.quit:
		return true
	case c.send <- ev:
		return true
	default:
		return false
	}
}

// Hub tracks open sockets per user uid. A user may have several tabs open.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
	now     func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		now:     time.Now,
	}
}

// Subscribe registers conn for uid. The returned func unregisters it and is safe to call twice.
func (h *Hub) Subscribe(uid string, conn Conn) (unsubscribe func()) {
	c := &client{
		uid:  uid,
		conn: conn,
		send: make(chan Event, sendBuffer),
		quit: make(chan struct{}),
	}
	h.mu.Lock()
	if h.clients[uid] == nil {
		h.clients[uid] = make(map[*client]struct{})
	}
	h.clients[uid][c] = struct{}{}
	h.mu.Unlock()
	logger.Debug("websocket client registered", "uid", uid)

	go h.writeLoop(c)

	return func() {
		h.remove(c)
		c.stop()
	}
}

func (h *Hub) writeLoop(c *client) {
	for {
		select {
		case <-c.quit:
			return
		case ev := <-c.send:
			_ = c.conn.SetWriteDeadline(h.now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				logger.Warn("websocket send failed", "uid", c.uid, "type", ev.Type, "error", err)
				h.drop(c)
				return
			}
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.uid]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.uid)
	}
	logger.Debug("websocket client unregistered", "uid", c.uid)
}

// drop disconnects a client that failed a write or fell too far behind.
// Closing the conn ends the handler's read loop, which unsubscribes again harmlessly.
func (h *Hub) drop(c *client) {
	h.remove(c)
	c.stop()
	_ = c.conn.Close()
}

// Connected counts open sockets for uid.
func (h *Hub) Connected(uid string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[uid])
}

// PublishTo queues an event for every socket of uid. Offline users are skipped.
func (h *Hub) PublishTo(uid string, eventType string, data interface{}) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients[uid]))
	for c := range h.clients[uid] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	h.deliver(targets, Event{Type: eventType, Data: data, At: h.now().UTC()})
}

// Broadcast queues an event for every connected socket.
func (h *Hub) Broadcast(eventType string, data interface{}) {
	h.mu.RLock()
	var targets []*client
	for _, set := range h.clients {
		for c := range set {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()
	h.deliver(targets, Event{Type: eventType, Data: data, At: h.now().UTC()})
}

func (h *Hub) deliver(targets []*client, ev Event) {
	for _, c := range targets {
		if !c.enqueue(ev) {
			logger.Warn("websocket client too slow, dropping", "uid", c.uid, "type", ev.Type)
			h.drop(c)
		}
	}
}
