package websocket

import (
	"sync"

	"photobooth/internal/logger"

	"github.com/gorilla/websocket"
)

// client tracks one viewer connection and the session it watches.
type client struct {
	conn    *websocket.Conn
	session string
}

// HubService fans gallery events out to the browser tabs watching a session.
type HubService struct {
	clients    map[*websocket.Conn]string
	broadcast  chan envelope
	register   chan client
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
	logger     *logger.Logger
}

type envelope struct {
	session string
	message []byte
}

func NewHubService(logger *logger.Logger) *HubService {
	return &HubService{
		clients:    make(map[*websocket.Conn]string),
		broadcast:  make(chan envelope),
		register:   make(chan client),
		unregister: make(chan *websocket.Conn),
		logger:     logger,
	}
}

func (h *HubService) Run() {
	for {
		select {
		case c := <-h.register:
			h.mutex.Lock()
			h.clients[c.conn] = c.session
			h.mutex.Unlock()
			h.logger.Info("Viewer connected. Total: %d", h.GetClientCount())

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()
			h.logger.Info("Viewer disconnected. Total: %d", h.GetClientCount())

		case env := <-h.broadcast:
			h.mutex.Lock()
			for conn, session := range h.clients {
				if env.session != "" && session != env.session {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, env.message); err != nil {
					h.logger.Error("Error sending message: %v", err)
					delete(h.clients, conn)
					conn.Close()
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Register adds a viewer connection scoped to a session id.
func (h *HubService) Register(conn *websocket.Conn, session string) {
	h.register <- client{conn: conn, session: session}
}

func (h *HubService) Unregister(conn *websocket.Conn) {
	h.unregister <- conn
}

// Broadcast sends message to every viewer of the given session. An empty
// session id reaches all viewers.
func (h *HubService) Broadcast(message []byte, session string) {
	h.broadcast <- envelope{session: session, message: message}
}

func (h *HubService) GetClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
