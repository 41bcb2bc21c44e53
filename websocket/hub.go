package websocket

import (
	"context"
	"log"
	"sync"

	"github.com/anjiri1684/tutor_scheduler/models"
	"github.com/google/uuid"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Client is one live connection. The socket allows a single writer, so the
// hub and the connection's own handler both write through Send.
type Client struct {
	UserID uuid.UUID
	Conn   Conn

	writeMu sync.Mutex
}

func (c *Client) Send(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(v)
}

// Delivery is a stored session message and the users it should reach.
type Delivery struct {
	Message    *models.SessionMessage
	Recipients []uuid.UUID
}

type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan Delivery

	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
	done    chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan Delivery, 64),
		clients:    make(map[uuid.UUID]*Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.Register:
			log.Printf("Client registered: %s", client.UserID)
			h.mu.Lock()
			h.clients[client.UserID] = client
			h.mu.Unlock()
		case client := <-h.Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			h.mu.Lock()
			if current, ok := h.clients[client.UserID]; ok && current == client {
				delete(h.clients, client.UserID)
			}
			h.mu.Unlock()
		case d := <-h.Broadcast:
			h.deliver(d)
		}
	}
}

// Join registers client and reports false once the hub has stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Leave unregisters client. It returns at once when the hub has stopped.
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) deliver(d Delivery) {
	var dead []*Client
	h.mu.RLock()
	for _, id := range d.Recipients {
		if id == d.Message.SenderID {
			continue
		}
		client, ok := h.clients[id]
		if !ok {
			continue
		}
		if err := client.Send(d.Message); err != nil {
			log.Printf("Error sending message to client %s: %v", id, err)
			client.Conn.Close()
			dead = append(dead, client)
		}
	}
	h.mu.RUnlock()

	if len(dead) > 0 {
		h.mu.Lock()
		for _, client := range dead {
			if h.clients[client.UserID] == client {
				delete(h.clients, client.UserID)
			}
		}
		h.mu.Unlock()
	}
}

// Online reports whether the user has a live connection.
func (h *Hub) Online(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// Publish queues a delivery without blocking the caller when the hub is
// backed up.
func (h *Hub) Publish(msg *models.SessionMessage, booking *models.Booking) {
	d := Delivery{Message: msg, Recipients: []uuid.UUID{booking.StudentID, booking.TutorID}}
	select {
	case h.Broadcast <- d:
	default:
		log.Printf("⚠️ Websocket hub busy, dropping push for message %s", msg.ID)
	}
}
