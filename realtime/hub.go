package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/opsportal/utils"
)

// Event types
const (
	EventTaskAssigned      = "task_assigned"
	EventTaskUpdated       = "task_updated"
	EventAttendanceUpdated = "attendance_updated"
	EventTicketUpdated     = "ticket_updated"
	EventInventoryUpdated  = "inventory_updated"
	EventLoanOverdue       = "loan_overdue"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub tracks connected dashboard clients and the role each one joined as.
type Hub struct {
	clients map[*websocket.Conn]string
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]string)}
}

// Register -> adds a connection under role
func (h *Hub) Register(conn *websocket.Conn, role string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = role
}

// Unregister -> drops and closes a connection
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast sends msg to every client. Clients that fail a write are dropped.
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling %s message: %v", event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, role := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.ErrorLogger.Printf("Dropping %s client after write error: %v", role, err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
	utils.InfoLogger.WithField("event", event).Debugf("broadcast to %d clients", len(h.clients))
}

// Publisher is what services need from the hub.
type Publisher interface {
	Broadcast(event string, data interface{})
}

// Discard is a Publisher that drops everything.
type Discard struct{}

func (Discard) Broadcast(string, interface{}) {}
