// server/internal/api/handlers/websocket_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"school-supply-tracker-api-server/internal/auth"
	"school-supply-tracker-api-server/internal/logger"
	"school-supply-tracker-api-server/internal/socket"
)

// Maximum wait for the next client frame (ping) before the socket is dropped.
const pongWait = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Hub      *socket.Hub
	Identity *auth.Identity
}

// ServeWs subscribes the socket to the token owner's session events until
// the client goes away.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
		return
	}
	sess, err := h.Identity.Authenticate(c.Request.Context(), tokenString)
	if err != nil {
		respondError(c, err)
		return
	}
	uid := sess.User.UID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("failed to upgrade connection", "uid", uid, "error", err)
		return
	}

	unsubscribe := h.Hub.Subscribe(uid, conn)
	defer func() {
		unsubscribe()
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	// Each client ping extends the deadline.
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("unexpected websocket close", "uid", uid, "error", err)
			}
			break
		}
	}
}
