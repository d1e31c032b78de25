package api

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking in production
		return true
	},
}

// ProgressEvent is one pipeline stage update pushed to connected clients
type ProgressEvent struct {
	AnalysisID string    `json:"analysis_id"`
	Stage      string    `json:"stage"`
	Timestamp  time.Time `json:"timestamp"`
}

// wsClient represents one WebSocket client connection
type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan ProgressEvent
	hub  *ProgressHub
}

// ProgressHub fans analysis progress events out to WebSocket clients
type ProgressHub struct {
	clients    map[string]*wsClient
	events     chan ProgressEvent
	register   chan *wsClient
	unregister chan *wsClient
	mu         sync.RWMutex
}

// NewProgressHub creates a new ProgressHub instance
func NewProgressHub() *ProgressHub {
	return &ProgressHub{
		clients:    make(map[string]*wsClient),
		events:     make(chan ProgressEvent, 64),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
	}
}

// Notify implements the analysis progress notifier. It never blocks the
// pipeline; events are dropped when the hub is saturated.
func (h *ProgressHub) Notify(analysisID, stage string) {
	event := ProgressEvent{
		AnalysisID: analysisID,
		Stage:      stage,
		Timestamp:  time.Now(),
	}
	select {
	case h.events <- event:
	default:
		log.Printf("Progress hub saturated, dropping event %s/%s", analysisID, stage)
	}
}

// Run starts the hub's main loop
func (h *ProgressHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.RLock()
			for _, client := range h.clients {
				close(client.send)
			}
			h.mu.RUnlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			log.Printf("Client %s connected", client.id)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
				h.mu.Unlock()
				log.Printf("Client %s disconnected", client.id)
			} else {
				h.mu.Unlock()
			}

		case event := <-h.events:
			h.mu.Lock()
			for _, client := range h.clients {
				select {
				case client.send <- event:
				default:
					// Client's send channel is full, close it
					close(client.send)
					delete(h.clients, client.id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ServeWS handles WebSocket requests from clients
func (h *ProgressHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &wsClient{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan ProgressEvent, 256),
		hub:  h,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so close frames and pongs are processed
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump writes events to the WebSocket connection
func (c *wsClient) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
