package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/techagentng/messaging/services/jwt"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleWebsocket attaches a client to the notification hub. Browsers
// cannot set the Authorization header on websocket connects, so the
// token travels as a query param.
func (s *Server) handleWebsocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"errors": "missing token"})
			return
		}

		claims, err := jwt.ValidateAndGetClaims(tokenString, s.Config.JWTSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"errors": "invalid token"})
			return
		}
		userID, err := jwt.UserIDFromClaims(claims)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"errors": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		client := s.Hub.AddClient(userID, conn)
		defer s.Hub.RemoveClient(client)

		// Push-only connection; reading drains control frames and
		// detects disconnects.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
