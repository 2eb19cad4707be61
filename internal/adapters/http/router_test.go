package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cubeduel/internal/adapters/game"
	router "cubeduel/internal/adapters/http"
	"cubeduel/internal/app"
	"cubeduel/internal/config"
	"cubeduel/internal/domain"
	"cubeduel/internal/protocol"
	"cubeduel/internal/report"
)

func testConfig() *config.Config {
	return &config.Config{
		Mode:            "release",
		Secret:          "test-secret",
		ReadLimit:       32768,
		AllowedOrigins:  []string{"http://localhost"},
		DefaultCubeSize: 3,
		JoinRateLimit:   100,
		JoinRateWindow:  time.Minute,
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := testConfig()
	coord := app.NewCoordinator(app.NewQueueManager(), app.NewRoomTable(), app.NewRegistry(), report.NopReporter{})
	ctl := game.NewController(coord, cfg)
	srv := httptest.NewServer(router.SetupRouter(context.Background(), cfg, coord, ctl))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(v))
}

// readFrame reads the next message and returns its type plus raw bytes.
func readFrame(t *testing.T, conn *websocket.Conn) (string, []byte) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var env protocol.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env.Type, data
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPairMoveAndWinOverWebsocket(t *testing.T) {
	srv := newTestServer(t)

	connA := dial(t, srv)
	connB := dial(t, srv)

	send(t, connA, protocol.JoinQueue{Type: protocol.TypeJoinQueue, Size: 3, UserID: "u1"})
	send(t, connB, protocol.JoinQueue{Type: protocol.TypeJoinQueue, Size: 3, UserID: "u2"})

	var startA, startB protocol.GameStart
	typ, data := readFrame(t, connA)
	require.Equal(t, protocol.TypeGameStart, typ)
	require.NoError(t, json.Unmarshal(data, &startA))
	typ, data = readFrame(t, connB)
	require.Equal(t, protocol.TypeGameStart, typ)
	require.NoError(t, json.Unmarshal(data, &startB))

	assert.Equal(t, startA.RoomID, startB.RoomID)
	assert.Equal(t, startA.Players, startB.Players)
	assert.Len(t, startA.Scramble, 20)
	assert.Equal(t, 3, startA.CubeSize)

	// A's move reaches only B.
	move := json.RawMessage(`{"face":"U","sliceIndex":0,"clockwise":false}`)
	send(t, connA, protocol.MoveEvent{Type: protocol.TypeMove, RoomID: string(startA.RoomID), Move: move})

	typ, data = readFrame(t, connB)
	require.Equal(t, protocol.TypeOpponentMove, typ)
	var relayed protocol.OpponentMove
	require.NoError(t, json.Unmarshal(data, &relayed))
	assert.JSONEq(t, string(move), string(relayed.Move))

	// B claims the win; both ends get the same terminal event.
	send(t, connB, protocol.GameWon{Type: protocol.TypeGameWon, RoomID: string(startB.RoomID)})

	var overA, overB protocol.GameOver
	typ, data = readFrame(t, connA)
	require.Equal(t, protocol.TypeGameOver, typ)
	require.NoError(t, json.Unmarshal(data, &overA))
	typ, data = readFrame(t, connB)
	require.Equal(t, protocol.TypeGameOver, typ)
	require.NoError(t, json.Unmarshal(data, &overB))

	assert.Equal(t, overA.WinnerID, overB.WinnerID)
	assert.Contains(t, []domain.ConnID{startA.Players[0], startA.Players[1]}, overA.WinnerID)
}

func TestOpponentLeftOnDisconnect(t *testing.T) {
	srv := newTestServer(t)

	connA := dial(t, srv)
	connB := dial(t, srv)

	send(t, connA, protocol.JoinQueue{Type: protocol.TypeJoinQueue, Size: 2})
	send(t, connB, protocol.JoinQueue{Type: protocol.TypeJoinQueue, Size: 2})

	typ, _ := readFrame(t, connA)
	require.Equal(t, protocol.TypeGameStart, typ)
	typ, data := readFrame(t, connB)
	require.Equal(t, protocol.TypeGameStart, typ)
	var start protocol.GameStart
	require.NoError(t, json.Unmarshal(data, &start))
	assert.Len(t, start.Scramble, 10, "2x2 uses the short scramble")

	require.NoError(t, connA.Close())

	typ, _ = readFrame(t, connB)
	assert.Equal(t, protocol.TypeOpponentLeft, typ)
}

func TestPingPong(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv)

	send(t, conn, protocol.Envelope{Type: protocol.TypePing})
	typ, _ := readFrame(t, conn)
	assert.Equal(t, protocol.TypePong, typ)
}

func TestQueueAndRoomEndpoints(t *testing.T) {
	srv := newTestServer(t)

	conn := dial(t, srv)
	send(t, conn, protocol.JoinQueue{Type: protocol.TypeJoinQueue, Size: 4})

	require.Eventually(t, func() bool {
		resp, err := http.Get(srv.URL + "/api/queues")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var body struct {
			Queues map[string]int `json:"queues"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return false
		}
		return body.Queues["4"] == 1
	}, 2*time.Second, 20*time.Millisecond)

	resp, err := http.Get(srv.URL + "/api/rooms")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body struct {
		Rooms []json.RawMessage `json:"rooms"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Rooms, "no room until the queue pairs")
}
