package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ayusman/cyberpuppet/internal/app"
)

const (
	// DefaultLiveInterval caps how often snapshots go out per client.
	DefaultLiveInterval = 33 * time.Millisecond

	clientBuffer = 8
	writeTimeout = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the viewer runs on localhost
	},
}

// Hub fans render snapshots out to websocket clients. Publish never blocks
// the render loop: a client that cannot keep up misses frames.
type Hub struct {
	log      zerolog.Logger
	interval time.Duration

	mu        sync.Mutex
	clients   map[*liveClient]struct{}
	last      time.Time
	lastLabel string
	closed    bool
}

type liveClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a Hub sending at most one snapshot per interval, except
// that a gesture change always goes out.
func NewHub(interval time.Duration, log zerolog.Logger) *Hub {
	if interval <= 0 {
		interval = DefaultLiveInterval
	}
	return &Hub{
		log:      log,
		interval: interval,
		clients:  make(map[*liveClient]struct{}),
	}
}

// Publish queues s for every client. It is meant to be an app subscriber.
func (h *Hub) Publish(s app.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.clients) == 0 || h.closed {
		return
	}
	label := string(s.Confirmed)
	if label == h.lastLabel && s.At.Sub(h.last) < h.interval {
		return
	}

	msg, err := json.Marshal(s)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to encode snapshot")
		return
	}
	edge := label != h.lastLabel
	h.last = s.At
	h.lastLabel = label

	for c := range h.clients {
		select {
		case c.send <- msg:
			continue
		default:
		}
		if !edge {
			continue
		}
		// a gesture change replaces the oldest queued frame
		select {
		case <-c.send:
		default:
		}
		select {
		case c.send <- msg:
		default:
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client. Later connections are refused.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.drop(c)
	}
}

// register adds c unless the hub has been closed since the upgrade began.
func (h *Hub) register(c *liveClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

// drop must be called with h.mu held.
func (h *Hub) drop(c *liveClient) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// ServeHTTP upgrades to a websocket and streams snapshots until the client
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	c := &liveClient{conn: conn, send: make(chan []byte, clientBuffer)}
	if !h.register(c) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeTimeout))
		return
	}
	h.log.Debug().Str("remote", r.RemoteAddr).Msg("live client connected")

	go h.readPump(c)
	h.writePump(c)

	h.mu.Lock()
	h.drop(c)
	h.mu.Unlock()
	h.log.Debug().Str("remote", r.RemoteAddr).Msg("live client gone")
}

// readPump discards client messages and unregisters the client once the
// connection fails, which ends writePump.
func (h *Hub) readPump(c *liveClient) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
	h.mu.Lock()
	h.drop(c)
	h.mu.Unlock()
}

func (h *Hub) writePump(c *liveClient) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout))
}
