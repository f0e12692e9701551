package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog/log"
)

// Hub fans stock-change events out to connected admin panel clients so the
// inventory view updates live while checkouts and top-ups mutate stock.
type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.Debug().Msg("admin ws client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// StockChanged broadcasts a stock mutation. Fire-and-forget; callers invoke
// it after their transaction has committed.
func (h *Hub) StockChanged(productID uint, name string, newStock int, reason string) {
	go func() {
		payload := map[string]interface{}{
			"type":       "stock_update",
			"reason":     reason, // "checkout" | "inventory_topup" | "product_edited"
			"product_id": productID,
			"name":       name,
			"new_stock":  newStock,
		}
		msg, _ := json.Marshal(payload)
		h.Broadcast <- msg
	}()
}
