package websocket

import (
	"context"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents one authenticated WebSocket connection.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	// Done is closed when the connection is torn down, so per-connection
	// workers (the feed poller) stop with the view that owns them.
	Done chan struct{}
}

// Manager tracks active connections keyed by user id. It is the push half
// of the freshness strategy: message and feed updates are delivered here
// when the counterpart is connected, with interval polling as the fallback.
type Manager struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				if prev, ok := m.clients[client.UserID]; ok {
					close(prev.Send)
					close(prev.Done)
				}
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				log.Printf("Client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if current, ok := m.clients[client.UserID]; ok && current == client {
					delete(m.clients, client.UserID)
					close(client.Send)
					close(client.Done)
				}
				m.mutex.Unlock()
				log.Printf("Client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// SendToUser delivers a frame to a connected user. Users without an open
// connection are skipped; they catch up from the store on next fetch.
func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()

	if !ok {
		return
	}

	select {
	case client.Send <- message:
	default:
		log.Printf("Dropping frame for slow client %s", userID)
	}
}

func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket read error: %v", err)
			}
			break
		}
	}
}

func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("websocket write error: %v", err)
			return
		}
	}
}
