package hub

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, h *Hub) *httptest.Server {
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.URL.Query().Get("restaurantId"))
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Serve(conn, uint(id))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, restaurantID int) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?restaurantId=" + strconv.Itoa(restaurantID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, h *Hub, restaurantID uint, n int) {
	require.Eventually(t, func() bool { return h.Count(restaurantID) == n }, 2*time.Second, 10*time.Millisecond)
}

func TestBroadcastIsScopedToRestaurant(t *testing.T) {
	h := New()
	srv := newTestServer(t, h)

	mine := dial(t, srv, 1)
	other := dial(t, srv, 2)
	waitForClients(t, h, 1, 1)
	waitForClients(t, h, 2, 1)

	h.Broadcast(1, Message{Event: EventTableUpdate, Data: map[string]interface{}{"id": 9}})

	var got Message
	require.NoError(t, mine.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, mine.ReadJSON(&got))
	assert.Equal(t, EventTableUpdate, got.Event)
	assert.Equal(t, map[string]interface{}{"id": float64(9)}, got.Data)

	require.NoError(t, other.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err, "client of another restaurant must not receive the event")
}

func TestUnregisterOnDisconnect(t *testing.T) {
	h := New()
	srv := newTestServer(t, h)

	conn := dial(t, srv, 3)
	waitForClients(t, h, 3, 1)

	conn.Close()
	waitForClients(t, h, 3, 0)
}

func TestBroadcastOnNilHub(t *testing.T) {
	var h *Hub
	assert.NotPanics(t, func() { h.Broadcast(1, Message{Event: EventFloorDelete}) })
}
