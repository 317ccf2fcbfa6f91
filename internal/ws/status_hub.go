package ws

import (
	"encoding/json"
	"sync"
)

// Client is one WebSocket connection waiting on a charge.
type Client struct {
	TransactionID string
	Send          chan []byte
	hub           *StatusHub
	mu            sync.Mutex
	closed        bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// StatusHub fans out charge status changes to the sockets watching each
// transaction. The database remains the source of truth; this is a push-side
// shortcut for the polling page.
type StatusHub struct {
	mu            sync.RWMutex
	byTransaction map[string]map[*Client]struct{}
}

func NewStatusHub() *StatusHub {
	return &StatusHub{byTransaction: make(map[string]map[*Client]struct{})}
}

func (h *StatusHub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	if h.byTransaction[c.TransactionID] == nil {
		h.byTransaction[c.TransactionID] = make(map[*Client]struct{})
	}
	h.byTransaction[c.TransactionID][c] = struct{}{}
}

func (h *StatusHub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.byTransaction[c.TransactionID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byTransaction, c.TransactionID)
		}
	}
}

// StatusEvent is the message pushed to watchers on every applied update.
type StatusEvent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Broadcast sends the new status to every socket watching transactionID.
// Slow clients are skipped rather than blocking the webhook path.
func (h *StatusHub) Broadcast(transactionID, status string) {
	data, _ := json.Marshal(StatusEvent{ID: transactionID, Status: status})
	h.mu.RLock()
	m := h.byTransaction[transactionID]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

func (h *StatusHub) WatcherCount(transactionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byTransaction[transactionID])
}
