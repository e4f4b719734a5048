package recommender

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"orderbot/internal/chat"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 512 * 1024

	maxQueuedRequests = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsConnection carries one chat request per frame and answers each with one frame
type wsConnection struct {
	conn   *websocket.Conn
	send   chan []byte
	server *Server
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	wsConn := &wsConnection{
		conn:   conn,
		send:   make(chan []byte, 256),
		server: s,
	}

	go wsConn.writePump()
	go wsConn.readPump()
}

// readPump reads requests and hands them to a single worker so they are
// answered in arrival order. A closed connection cancels the request in
// flight.
func (c *wsConnection) readPump() {
	ctx, cancel := context.WithCancel(context.Background())
	requests := make(chan []byte, maxQueuedRequests)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for message := range requests {
			c.handleMessage(ctx, message)
		}
	}()

	defer func() {
		cancel()
		close(requests)
		<-done
		close(c.send)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.server.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		select {
		case requests <- message:
		default:
			c.sendError("too many pending requests")
		}
	}
}

// writePump pumps frames from the send queue to the connection
func (c *wsConnection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage decodes one request frame and queues the answer
func (c *wsConnection) handleMessage(ctx context.Context, message []byte) {
	var req chat.Request
	if err := json.Unmarshal(message, &req); err != nil {
		c.sendError("invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.sendError("message is required")
		return
	}

	resp, err := c.server.recommend(ctx, req)
	if err != nil {
		c.sendError("failed to generate recommendations")
		return
	}
	c.sendJSON(resp)
}

func (c *wsConnection) sendJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		c.server.logger.Error("marshal websocket frame", zap.Error(err))
		return
	}

	select {
	case c.send <- data:
	default:
		c.server.logger.Warn("websocket buffer full, dropping frame")
	}
}

func (c *wsConnection) sendError(message string) {
	c.sendJSON(map[string]string{"error": message})
}
