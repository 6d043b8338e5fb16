package ws

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
)

// EventPublisher, what services use to push feed events.
// Services depend on this interface, not on *Hub, so tests can pass a recorder.
type EventPublisher interface {
	BroadcastToServer(serverID string, event Event)
}

// Hub, tracks feed subscribers per server.
//
// One user may hold several connections (two dashboards open), and one
// connection watches exactly one server.
type Hub struct {
	// serverID → set of clients
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client

	seq atomic.Int64
}

// NewHub, creates an empty hub. Run must be started in its own goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run, processes register/unregister until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.serverID]; !ok {
		h.clients[client.serverID] = make(map[*Client]bool)
	}
	h.clients[client.serverID][client] = true

	log.Printf("[ws] subscriber connected: server=%s user=%s (subscribers: %d)",
		client.serverID, client.userID, len(h.clients[client.serverID]))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.serverID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}

	delete(clients, client)
	client.closeSend()

	if len(clients) == 0 {
		delete(h.clients, client.serverID)
	}
	log.Printf("[ws] subscriber disconnected: server=%s user=%s (remaining: %d)",
		client.serverID, client.userID, len(clients))
}

// BroadcastToServer, sends event to every subscriber of serverID.
//
// Slow clients whose buffer is full are dropped rather than blocking the
// command that produced the event.
func (h *Hub) BroadcastToServer(serverID string, event Event) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal broadcast event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[serverID] {
		if !client.enqueue(data) {
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

// SubscriberCount, number of open connections watching serverID.
func (h *Hub) SubscriberCount(serverID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[serverID])
}

// Shutdown, closes every connection. Called on graceful shutdown.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			close(client.send)
		}
	}
	h.clients = make(map[string]map[*Client]bool)
	log.Println("[ws] hub shut down, all subscriptions closed")
}
