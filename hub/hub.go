// Package hub fans floor plan changes out to the websocket clients of a restaurant.
package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AliAmzai/Tablr/observability"
	"github.com/AliAmzai/Tablr/utils"
)

// Event types
const (
	EventTableCreate = "table_create"
	EventTableUpdate = "table_update"
	EventTableDelete = "table_delete"
	EventFloorCreate = "floor_create"
	EventFloorUpdate = "floor_update"
	EventFloorDelete = "floor_delete"
)

const writeWait = 10 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	conn         *websocket.Conn
	restaurantID uint
	writeMu      sync.Mutex
}

func (c *client) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub holds the connected clients, keyed by connection.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

func New() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

func (h *Hub) Register(conn *websocket.Conn, restaurantID uint) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = &client{conn: conn, restaurantID: restaurantID}
	observability.WebsocketConnected()
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mutex.Unlock()

	if ok {
		observability.WebsocketDisconnected()
		conn.Close()
	}
}

// Serve registers conn and blocks reading until the client goes away.
func (h *Hub) Serve(conn *websocket.Conn, restaurantID uint) {
	h.Register(conn, restaurantID)
	defer h.Unregister(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Count returns the number of clients listening to a restaurant.
func (h *Hub) Count(restaurantID uint) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	n := 0
	for _, c := range h.clients {
		if c.restaurantID == restaurantID {
			n++
		}
	}
	return n
}

// Broadcast sends msg to every client of the restaurant. Clients that fail the write are dropped.
func (h *Hub) Broadcast(restaurantID uint, msg Message) {
	if h == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("Error marshaling hub message")
		return
	}

	h.mutex.Lock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		if c.restaurantID == restaurantID {
			targets = append(targets, c)
		}
	}
	h.mutex.Unlock()

	for _, c := range targets {
		if err := c.write(data); err != nil {
			utils.ErrorLogger.WithError(err).Warn("Dropping websocket client")
			h.Unregister(c.conn)
		}
	}
	utils.InfoLogger.Debugf("Broadcast %s to %d clients of restaurant %d", msg.Event, len(targets), restaurantID)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mutex.Unlock()
	for _, conn := range conns {
		h.Unregister(conn)
	}
}
