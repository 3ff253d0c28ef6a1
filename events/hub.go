package events

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/food-order-app/models"
	"github.com/yeremiapane/food-order-app/utils"
)

// Event types
const (
	EventOrderCreated   = "order_created"
	EventOrderStatus    = "order_status"
	EventOrderCancelled = "order_cancelled"
	EventOrderRated     = "order_rated"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	userID uint
	role   string
}

// Hub keeps the live status-tracking connections: customers following
// their own orders and admin dashboards watching everything.
type Hub struct {
	clients map[*websocket.Conn]client
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]client),
}

func RegisterClient(conn *websocket.Conn, userID uint, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = client{userID: userID, role: role}
}

func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

func BroadcastOrderCreated(order models.Order) {
	broadcast(order.CustomerID, Message{Event: EventOrderCreated, Data: order})
}

func BroadcastOrderStatus(order models.Order) {
	broadcast(order.CustomerID, Message{Event: EventOrderStatus, Data: order})
}

func BroadcastOrderCancelled(order models.Order) {
	broadcast(order.CustomerID, Message{Event: EventOrderCancelled, Data: order})
}

func BroadcastOrderRated(order models.Order) {
	broadcast(order.CustomerID, Message{Event: EventOrderRated, Data: order})
}

// broadcast sends to the owning customer and every admin connection.
func broadcast(customerID uint, msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("events: marshal failed: %v", err)
		return
	}

	for conn, cl := range hub.clients {
		if cl.role != models.RoleAdmin && cl.userID != customerID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("events: send failed for user %d: %v", cl.userID, err)
		}
	}
}
