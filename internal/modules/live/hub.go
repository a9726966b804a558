// Package live pushes persistence events to connected gallery clients over
// WebSocket, so a camera's gallery updates without waiting for the poll.
package live

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"dispocam/internal/domain/photo"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // CORS middleware gates the handshake
}

const (
	EventPhotoSubmitted = "photo_submitted"
	EventPhotoSynced    = "photo_synced"
)

// Event is pushed to every client watching the photo's camera. The payload
// never includes hidden photo URLs; clients refetch the gallery on receipt.
type Event struct {
	Type     string `json:"type"`
	CameraID string `json:"camera_id"`
	PhotoID  string `json:"photo_id"`
}

type connection struct {
	cameraID string
	conn     *websocket.Conn
	send     chan []byte
}

// Hub manages watchers per camera. It implements the sync module's EventSink.
type Hub struct {
	mu    sync.RWMutex
	conns map[*connection]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*connection]struct{})}
}

// PhotoStored implements EventSink.
func (h *Hub) PhotoStored(p *photo.Photo) {
	h.broadcast(&Event{Type: EventPhotoSubmitted, CameraID: p.CameraID, PhotoID: p.ID})
}

// PhotoSynced implements EventSink.
func (h *Hub) PhotoSynced(p *photo.Photo) {
	h.broadcast(&Event{Type: EventPhotoSynced, CameraID: p.CameraID, PhotoID: p.ID})
}

func (h *Hub) broadcast(e *Event) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		if c.cameraID != e.CameraID {
			continue
		}
		select {
		case c.send <- data:
		default:
			// Slow consumer; it will catch up on the next gallery poll.
		}
	}
}

// Serve upgrades GET /ws/cameras/:id to a WebSocket watching that camera.
func (h *Hub) Serve(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("live: upgrade failed: %v", err)
		return
	}

	conn := &connection{
		cameraID: c.Param("id"),
		conn:     ws,
		send:     make(chan []byte, 32),
	}
	h.register(conn)

	go h.writeLoop(conn)
	h.readLoop(conn)
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; ok {
		delete(h.conns, c)
		close(c.send)
	}
}

func (h *Hub) readLoop(c *connection) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
