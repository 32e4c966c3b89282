package sessions

import (
	"fmt"
	"log"
	"net/http"
	"os"

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

// handleWatch upgrades the request to a WebSocket and streams conversation
// list snapshots for the signed-in user until the client disconnects. Each
// frame carries the full current list, mirroring the store subscription.
func (a *ChatAPI) handleWatch(c *gin.Context) {
	userID := a.userID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in to watch conversations"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		a.Logger.Printf("Error upgrading watch connection for %s: %v", userID, err)
		return
	}
	defer conn.Close()

	writer := &WebSocketWriter{
		Conn:   conn,
		Logger: log.New(os.Stdout, fmt.Sprintf("[WATCH %s] ", userID), log.LstdFlags),
	}

	sub, err := a.Store.Subscribe(userID)
	if err != nil {
		a.Logger.Printf("Error subscribing to conversations for %s: %v", userID, err)
		feedErr := &SessionError{Message: "conversation feed unavailable", Fatal: true}
		if werr := writer.WriteError(feedErr.Error()); werr != nil {
			writer.Logger.Printf("Error reporting feed failure: %v", werr)
		}
		return
	}
	defer sub.Cancel()

	// Reads are only used to notice the client going away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				sub.Cancel()
				return
			}
		}
	}()

	for snapshot := range sub.Updates() {
		payload := gin.H{
			"type":          "conversations",
			"conversations": snapshot,
		}
		if err := writer.WriteJSON(payload); err != nil {
			writer.Logger.Printf("Error writing snapshot: %v", err)
			return
		}
	}

	// The feed closed on the store side; the client may already be gone.
	if err := writer.WriteDone(); err != nil {
		writer.Logger.Printf("Error writing done frame: %v", err)
	}
}
