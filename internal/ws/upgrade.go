package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// UpgradeStatusWS upgrades the connection and streams status events for the
// transaction named in the query string until the client hangs up.
func UpgradeStatusWS(hub *StatusHub) gin.HandlerFunc {
	return func(c *gin.Context) {
		transactionID := c.Query("transaction_id")
		if transactionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "transaction_id is required"})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		client := &Client{
			TransactionID: transactionID,
			Send:          make(chan []byte, 16),
		}
		hub.Register(client)
		defer client.Close()

		// Reader drains control frames and detects disconnect.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case msg, ok := <-client.Send:
				if !ok {
					return
				}
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}
}
