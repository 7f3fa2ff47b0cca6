package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// EventClient is one websocket connection subscribed to a user's feed
type EventClient struct {
	hub    *EventHub
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

// EventHub fans order events out to connected vendor dashboards. A
// user may hold several connections; events go to all of them.
type EventHub struct {
	mu         sync.RWMutex
	clients    map[string]map[*EventClient]bool
	register   chan *EventClient
	unregister chan *EventClient
}

// NewEventHub creates an event hub; call Run in a goroutine
func NewEventHub() *EventHub {
	return &EventHub{
		clients:    make(map[string]map[*EventClient]bool),
		register:   make(chan *EventClient),
		unregister: make(chan *EventClient),
	}
}

// Run processes client registration until the process exits
func (h *EventHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*EventClient]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.userID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(h.clients, client.userID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// Subscribe attaches a websocket connection to the user's feed and
// starts its read and write pumps
func (h *EventHub) Subscribe(userID string, conn *websocket.Conn) {
	client := &EventClient{
		hub:    h,
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 16),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// PublishOrderEvent delivers an event to every connection the user
// holds. Slow consumers are dropped rather than blocking checkout.
func (h *EventHub) PublishOrderEvent(userID string, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal order event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			go func(c *EventClient) { h.unregister <- c }(client)
		}
	}
}

func (c *EventClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read error: %v", err)
			}
			return
		}
	}
}

func (c *EventClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
