package sse

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

type outbound struct {
	data []byte
	// last closes every client stream once delivered
	last bool
}

// Hub fans countdown events out to every connected stream client
type Hub struct {
	clients map[*Client]struct{}
	mu      sync.RWMutex
	logger  *slog.Logger
	onCount func(int)

	register   chan *Client
	unregister chan *Client
	broadcast  chan outbound
	done       chan struct{}
	stopped    chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a Hub. onCount, if non-nil, is told the client count on every change.
func NewHub(logger *slog.Logger, onCount func(int)) *Hub {
	if onCount == nil {
		onCount = func(int) {}
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		logger:     logger.With(slog.String("component", "sse")),
		onCount:    onCount,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan outbound, 256),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
}

// Run starts the hub's event loop. It returns after Close or after the
// final event has been delivered.
func (h *Hub) Run() {
	defer close(h.stopped)
	h.logger.Info("sse hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.onCount(clientCount)
			h.logger.Debug("sse client registered",
				slog.String("client_id", client.clientID),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				h.onCount(clientCount)
				h.logger.Debug("sse client unregistered",
					slog.String("client_id", client.clientID),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case msg := <-h.broadcast:
			h.deliver(msg.data)
			if msg.last {
				h.disconnectAll("final event delivered")
				return
			}

		case <-h.done:
			h.disconnectAll("hub closed")
			return
		}
	}
}

func (h *Hub) deliver(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	dropped := 0
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("sse broadcast partial failure - client buffers full",
			slog.Int("sent", len(h.clients)-dropped),
			slog.Int("dropped", dropped))
	}
}

func (h *Hub) disconnectAll(reason string) {
	h.mu.Lock()
	clientCount := len(h.clients)
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()
	h.onCount(0)
	h.logger.Info("sse hub stopped",
		slog.String("reason", reason),
		slog.Int("disconnected_clients", clientCount))
}

// Register adds a client to the hub. It reports false when the hub has
// already stopped and the client should not wait for events.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.stopped:
		return false
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stopped:
	}
}

// BroadcastEvent sends an SSE event with a name and data to all clients
func (h *Hub) BroadcastEvent(eventName, data string) {
	h.send(outbound{data: FormatEvent(eventName, data)})
}

// BroadcastFinal sends a last event, then closes every stream and stops the hub
func (h *Hub) BroadcastFinal(eventName, data string) {
	h.send(outbound{data: FormatEvent(eventName, data), last: true})
}

func (h *Hub) send(msg outbound) {
	select {
	case h.broadcast <- msg:
	case <-h.stopped:
	default:
		h.logger.Warn("sse broadcast dropped - hub buffer full")
	}
}

// Close shuts down the hub
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Stopped is closed once the hub's event loop has returned
func (h *Hub) Stopped() <-chan struct{} {
	return h.stopped
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatEvent formats an SSE message with event name and data.
// Each line of multi-line data gets its own "data: " prefix.
func FormatEvent(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + eventName + "\n")
	data = strings.ReplaceAll(data, "\r\n", "\n")
	for _, line := range strings.Split(data, "\n") {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}
