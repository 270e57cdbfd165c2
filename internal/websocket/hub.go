package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Event is one process notification pushed to connected sessions.
type Event struct {
	Type      string      `json:"type"` // MESSAGE_NEW, STATUS_CHANGED, PROCESS_CREATED, PROCESS_DELETED
	ProcessID string      `json:"processId"`
	Payload   interface{} `json:"payload,omitempty"`
}

// Hub maintains the set of active clients and broadcasts process
// events to them. A client subscribed to a process only receives that
// process's events; unsubscribed clients receive everything.
type Hub struct {
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]*Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.SessionID]; ok {
				close(old.send)
				delete(h.clients, client.SessionID)
			}
			h.clients[client.SessionID] = client
			log.Printf("🔌 Session connected: %s", client.SessionID)
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.SessionID]; ok {
				delete(h.clients, client.SessionID)
				close(client.send)
				log.Printf("🔌 Session disconnected: %s", client.SessionID)
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends an event to every client interested in its process.
func (h *Hub) Broadcast(event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if !client.wants(event.ProcessID) {
			continue
		}
		select {
		case client.send <- msg:
		default:
			// Buffer full or client dead; drop rather than block
		}
	}
}
