package realtime

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is consumed by browser dashboards on other origins; access
	// control happens at the HTTP layer before the upgrade.
	CheckOrigin: func(*http.Request) bool { return true },
}

type wsSink struct {
	conn *websocket.Conn
}

func (s *wsSink) Send(data []byte) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *wsSink) Close() error {
	return s.conn.Close()
}

// WebsocketHandler upgrades the connection and streams hub events to it until
// the client goes away.
func WebsocketHandler(hub *Hub, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
			return
		}

		sub := hub.Subscribe(&wsSink{conn: conn})
		defer func() {
			hub.Unsubscribe(sub)
			_ = conn.Close()
		}()

		// Inbound frames are discarded; the read loop only notices when
		// the peer disconnects.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
