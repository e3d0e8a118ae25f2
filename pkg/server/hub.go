package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/toast/pkg/toast"
)

const (
	// clientBuffer is the number of pending snapshots per client.
	// A client that falls further behind is disconnected.
	clientBuffer = 64

	writeTimeout = 10 * time.Second
)

// Command is a message sent by a stream client.
type Command struct {
	Op string `json:"op"` // pause, resume or dismiss
	ID string `json:"id"`
}

// HubConfig configures a Hub.
type HubConfig struct {
	// AllowedOrigins lists origins accepted for upgrades.
	// Empty means same-origin only; "*" accepts any origin.
	AllowedOrigins []string

	// Logger receives connection logs.
	Logger *slog.Logger
}

// Hub streams manager snapshots to WebSocket clients and applies their
// pause, resume and dismiss commands.
type Hub struct {
	manager     *toast.Manager
	upgrader    websocket.Upgrader
	logger      *slog.Logger
	unsubscribe func()

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

type message struct {
	version uint64
	data    []byte
}

type client struct {
	conn *websocket.Conn
	send chan message
}

// NewHub creates a hub subscribed to m.
func NewHub(m *toast.Manager, config HubConfig) *Hub {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	h := &Hub{
		manager: m,
		logger:  logger,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(config.AllowedOrigins),
		},
	}
	h.unsubscribe = m.Subscribe(h.onEvent)
	return h
}

// originChecker returns a CheckOrigin func for the allow list.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil // gorilla default: same origin
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

// onEvent runs with the manager locked; it only queues bytes.
func (h *Hub) onEvent(ev toast.Event) {
	data, err := json.Marshal(toast.Payload(ev))
	if err != nil {
		h.logger.Error("encode toast event", "error", err)
		return
	}
	h.broadcast(message{version: ev.Snapshot.Version, data: data})
}

// broadcast queues msg for every client, dropping clients that are too
// far behind.
func (h *Hub) broadcast(msg message) {
	var slow []*client

	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow stream client", "remote", c.conn.RemoteAddr().String())
		h.remove(c)
	}
}

// ServeHTTP upgrades the request and streams snapshots until the client
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan message, clientBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	// Registered first, so no change after this snapshot is missed; older
	// events still in flight are dropped by version in writeLoop.
	snap := h.manager.Snapshot()
	initial, err := json.Marshal(snapshotPayload(snap))
	if err == nil {
		h.mu.RLock()
		if _, ok := h.clients[c]; ok {
			select {
			case c.send <- message{version: snap.Version, data: initial}:
			default:
			}
		}
		h.mu.RUnlock()
	}

	go h.writeLoop(c)
	h.readLoop(c)
	h.remove(c)
}

// snapshotPayload is the first message a client receives.
func snapshotPayload(s toast.Snapshot) map[string]any {
	data := toast.Payload(toast.Event{Snapshot: s})
	data["kind"] = "snapshot"
	return data
}

func (h *Hub) writeLoop(c *client) {
	var last uint64
	sent := false

	for msg := range c.send {
		if sent && msg.version <= last {
			continue
		}
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg.data); err != nil {
			h.remove(c)
			return
		}
		last, sent = msg.version, true
	}
}

func (h *Hub) readLoop(c *client) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			h.logger.Debug("ignoring malformed command", "error", err)
			continue
		}
		h.apply(cmd)
	}
}

// apply runs a client command. Clients act for the end user, so dismiss
// honours the dismissible flag.
func (h *Hub) apply(cmd Command) {
	switch cmd.Op {
	case "pause":
		h.manager.Pause(cmd.ID)
	case "resume":
		h.manager.Resume(cmd.ID)
	case "dismiss":
		if n, ok := h.manager.Get(cmd.ID); ok && n.Dismissible {
			h.manager.Dismiss(cmd.ID)
		}
	default:
		h.logger.Debug("ignoring unknown command", "op", cmd.Op)
	}
}

// remove disconnects c. Safe to call more than once.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.mu.Unlock()

	c.conn.Close()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close unsubscribes from the manager and closes all client connections.
func (h *Hub) Close() {
	h.unsubscribe()

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = make(map[*client]struct{})
	for c := range clients {
		close(c.send)
	}
	h.mu.Unlock()

	for c := range clients {
		c.conn.Close()
	}
}
