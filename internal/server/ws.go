package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/groblegark/fleetboard/internal/idgen"
	"github.com/groblegark/fleetboard/internal/metrics"
	"github.com/groblegark/fleetboard/internal/model"
)

const (
	// clientSendBuffer is the per-subscriber outbound queue depth. A full
	// queue drops the snapshot for that subscriber rather than blocking the
	// broadcast; the next snapshot resynchronizes it.
	clientSendBuffer = 16

	// wsWriteTimeout bounds each frame write to a subscriber.
	wsWriteTimeout = 10 * time.Second
)

// wsHub tracks connected dashboard subscribers and fans snapshots out to
// them. The snapshot cache is injected so registration can replay the last
// known state to late joiners.
type wsHub struct {
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	cache   *snapshotCache
}

// wsClient is a single connected dashboard. The send channel preserves
// per-subscriber ordering; a dedicated writer goroutine drains it.
type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan *model.Snapshot
}

func newWSHub(cache *snapshotCache) *wsHub {
	return &wsHub{
		clients: make(map[*wsClient]struct{}),
		cache:   cache,
	}
}

// register adds the client to the active set and queues the cached snapshot,
// if any, for that client alone.
func (h *wsHub) register(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	if snap := h.cache.get(); snap != nil {
		c.send <- snap
	}
	metrics.Subscribers.Inc()
}

// unregister removes the client and closes its send channel, stopping the
// writer goroutine. Idempotent; safe to call from both the read and write side.
func (h *wsHub) unregister(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		metrics.Subscribers.Dec()
	}
}

// broadcast queues the snapshot for every connected subscriber. A slow
// subscriber misses this snapshot rather than blocking delivery to others;
// per-subscriber ordering is never violated.
func (h *wsHub) broadcast(snap *model.Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- snap:
		default:
			slog.Warn("dropping snapshot for slow subscriber", "client", c.id, "plate", snap.Name)
		}
	}
	metrics.BroadcastsTotal.Inc()
}

// count returns the number of connected subscribers.
func (h *wsHub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// writePump drains the send channel onto the wire. A write failure
// deregisters this client only; remaining subscribers are unaffected.
func (c *wsClient) writePump(h *wsHub) {
	defer c.conn.Close()
	for snap := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)) //nolint:errcheck
		if err := c.conn.WriteJSON(snap); err != nil {
			slog.Warn("failed to deliver snapshot", "client", c.id, "error", err)
			h.unregister(c)
			return
		}
	}
}

// upgrader converts HTTP requests to WebSocket connections. Dashboards are
// served from arbitrary origins, so the origin check is open.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleSocket handles GET /ws, the dashboard subscription channel.
func (s *FleetServer) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	id, err := idgen.GenerateWithPrefix("ws-")
	if err != nil {
		id = r.RemoteAddr
	}
	c := &wsClient{
		id:   id,
		conn: conn,
		send: make(chan *model.Snapshot, clientSendBuffer),
	}
	s.hub.register(c)
	go c.writePump(s.hub)
	slog.Info("dashboard connected", "client", c.id, "remote", conn.RemoteAddr())

	// The read loop exists only to detect disconnects; inbound frames are
	// ignored.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.hub.unregister(c)
	slog.Info("dashboard disconnected", "client", c.id)
}
