package ws

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
	readWait       = 60 * time.Second
	readLimit      = 64 * 1024
	sendBufferSize = 256
)

// Envelope is the framing for every socket event in both directions.
type Envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan Envelope
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub owns the live connections and implements Transport over the registry.
// Sends are non-blocking; a client with a full buffer loses the event, which
// matches the at-most-once delivery the engine promises.
type Hub struct {
	reg     *Registry
	mu      sync.RWMutex
	clients map[string]*client
	log     *zap.Logger
}

func NewHub(reg *Registry, log *zap.Logger) *Hub {
	return &Hub{reg: reg, clients: make(map[string]*client), log: log}
}

func (h *Hub) Registry() *Registry { return h.reg }

// add registers a raw websocket connection and starts its write pump.
func (h *Hub) add(conn *websocket.Conn) *client {
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan Envelope, sendBufferSize)}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	connectionsGauge.Inc()
	go c.writePump()
	return c
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
	connectionsGauge.Dec()
	c.close()
}

func (h *Hub) Emit(key, event string, payload any) {
	h.emit(key, "", event, payload)
}

func (h *Hub) EmitExcept(key, exceptConn, event string, payload any) {
	h.emit(key, exceptConn, event, payload)
}

func (h *Hub) emit(key, exceptConn, event string, payload any) {
	conns := h.reg.Conns(key)
	if len(conns) == 0 {
		return
	}
	env := Envelope{Event: event, Payload: payload}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range conns {
		if id == exceptConn {
			continue
		}
		if c, ok := h.clients[id]; ok {
			c.trySend(env, event)
		}
	}
}

func (h *Hub) EmitConn(connID, event string, payload any) {
	h.mu.RLock()
	c, ok := h.clients[connID]
	h.mu.RUnlock()
	if ok {
		c.trySend(Envelope{Event: event, Payload: payload}, event)
	}
}

func (h *Hub) BroadcastAll(event string, payload any) {
	env := Envelope{Event: event, Payload: payload}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		c.trySend(env, event)
	}
}

func (c *client) trySend(env Envelope, event string) {
	select {
	case c.send <- env:
		eventsDelivered.WithLabelValues(event).Inc()
	default:
		eventsDropped.WithLabelValues("slow_client").Inc()
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case env, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(time.Second))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(time.Second)); err != nil {
				return
			}
		}
	}
}
