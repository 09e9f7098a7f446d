package orderControllers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/amasood-dev/shopcart-api/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	wsMu      sync.Mutex
	wsClients = make(map[*websocket.Conn]bool)
)

type orderEventMessage struct {
	OrderID   uint               `json:"order_id"`
	OrderRef  string             `json:"order_ref"`
	Status    models.OrderStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

// GET /admin/orders/ws — pushes every appended order event to connected clients.
func OrderWebSocketHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	wsMu.Lock()
	wsClients[conn] = true
	wsMu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			wsMu.Lock()
			delete(wsClients, conn)
			wsMu.Unlock()
			break
		}
	}
}

func broadcastOrderEvent(order *models.Order, status models.OrderStatus) {
	data, err := json.Marshal(orderEventMessage{
		OrderID:   order.ID,
		OrderRef:  order.OrderRef,
		Status:    status,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return
	}

	wsMu.Lock()
	defer wsMu.Unlock()
	for client := range wsClients {
		client.WriteMessage(websocket.TextMessage, data)
	}
}
