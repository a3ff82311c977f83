package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// Notification types pushed to connected dashboard clients
const (
	NotificationTypeMessage     = "message"
	NotificationTypeTicketReply = "ticket_reply"
	NotificationTypeSystemAlert = "system_alert"
	NotificationTypeBooking     = "booking"
)

// Notification represents a message sent over WebSocket
type Notification struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	UserUID string      `json:"userUID,omitempty"`
}

// Client represents a connected WebSocket client, keyed by the
// external-auth subject id
type Client struct {
	UserUID string
	Conn    *websocket.Conn
}

// Hub maintains the set of active clients and delivers notifications
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserUID] = client
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.clients[client.UserUID]; ok && existing == client {
				delete(h.clients, client.UserUID)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToUser sends a notification to a specific connected user
func (h *Hub) SendToUser(userUID string, notification Notification) error {
	h.mu.RLock()
	client, ok := h.clients[userUID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user not connected")
	}
	return client.Conn.WriteJSON(notification)
}

// Broadcast sends a notification to every connected client
func (h *Hub) Broadcast(notification Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		client.Conn.WriteJSON(notification)
	}
}

// NotifyMessage tells a recipient a new message or reply arrived. Delivery
// is best-effort: an offline recipient simply sees the thread later.
func (h *Hub) NotifyMessage(toUID string, data interface{}) {
	h.SendToUser(toUID, Notification{
		Type:    NotificationTypeMessage,
		Message: "New message received",
		Data:    data,
	})
}

// NotifyBooking tells a hotel owner a booking was created or changed
func (h *Hub) NotifyBooking(ownerUID string, data interface{}) {
	h.SendToUser(ownerUID, Notification{
		Type:    NotificationTypeBooking,
		Message: "Booking update",
		Data:    data,
	})
}

// BroadcastAlert pushes an active system alert to everyone connected
func (h *Hub) BroadcastAlert(data interface{}) {
	h.Broadcast(Notification{
		Type:    NotificationTypeSystemAlert,
		Message: "System alert",
		Data:    data,
	})
}
