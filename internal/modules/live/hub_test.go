package live

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispocam/internal/domain/photo"
)

func dialHub(t *testing.T, hub *Hub, cameraID string) (*websocket.Conn, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws/cameras/:id", hub.Serve)
	srv := httptest.NewServer(r)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/cameras/" + cameraID
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	return ws, func() {
		_ = ws.Close()
		srv.Close()
	}
}

func TestHub_BroadcastsToMatchingCamera(t *testing.T) {
	hub := NewHub()
	ws, done := dialHub(t, hub, "cam-1")
	defer done()

	// Give the server a moment to register the connection.
	time.Sleep(50 * time.Millisecond)

	hub.PhotoStored(&photo.Photo{ID: "p-1", CameraID: "cam-1"})

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, EventPhotoSubmitted, ev.Type)
	assert.Equal(t, "cam-1", ev.CameraID)
	assert.Equal(t, "p-1", ev.PhotoID)
}

func TestHub_IgnoresOtherCameras(t *testing.T) {
	hub := NewHub()
	ws, done := dialHub(t, hub, "cam-1")
	defer done()

	time.Sleep(50 * time.Millisecond)

	hub.PhotoSynced(&photo.Photo{ID: "p-2", CameraID: "cam-2"})
	hub.PhotoSynced(&photo.Photo{ID: "p-3", CameraID: "cam-1"})

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, "p-3", ev.PhotoID)
	assert.Equal(t, EventPhotoSynced, ev.Type)
}
