package web

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Message types sent to the page.
const (
	MsgState     = "state"
	MsgRender    = "render"
	MsgHighlight = "highlight"
	MsgClear     = "clear"
	MsgSelect    = "select"
	MsgMove      = "move"
	MsgCapture   = "capture"
	MsgWinner    = "winner"
	MsgPing      = "ping"

	// MsgActivate is the only message the page sends.
	MsgActivate = "activate"
)

const clientSendBuffer = 64

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub fans presentation events out to every connected page.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	log     *zap.Logger
}

// Client is one connected page. A page that falls a full buffer behind is
// disconnected and gets a fresh state when it reconnects.
type Client struct {
	id   string
	send chan []byte
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients: make(map[*Client]struct{}),
		log:     log,
	}
}

func newClient() *Client {
	return &Client{
		id:   uuid.NewString(),
		send: make(chan []byte, clientSendBuffer),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	h.removeLocked(c)
	h.mu.Unlock()
}

func (h *Hub) removeLocked(c *Client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Broadcast sends a message to every registered client in call order.
func (h *Hub) Broadcast(msgType string, payload any) {
	data, err := json.Marshal(wsMessage{Type: msgType, Payload: mustMarshal(payload)})
	if err != nil {
		return
	}
	h.mu.Lock()
	for client := range h.clients {
		if !client.sendRaw(data) {
			h.log.Warn("page send buffer full, disconnecting",
				zap.String("client", client.id), zap.String("type", msgType))
			h.removeLocked(client)
		}
	}
	h.mu.Unlock()
}

func (c *Client) sendJSON(msgType string, payload any) {
	data, err := json.Marshal(wsMessage{Type: msgType, Payload: mustMarshal(payload)})
	if err != nil {
		return
	}
	c.sendRaw(data)
}

func (c *Client) sendRaw(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func mustMarshal(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	data, _ := json.Marshal(v)
	return data
}
