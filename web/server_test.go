package web

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"checkers-local/board"
	"checkers-local/config"
	"checkers-local/engine"
	"checkers-local/msgcat"
	"checkers-local/types"
)

func newTestServer(t *testing.T, b *board.Board, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	cat, err := msgcat.New("en", "")
	require.NoError(t, err)
	srv := NewServer("127.0.0.1:0", func(p engine.Presenter) *engine.Controller {
		return engine.NewController(b, p)
	}, cat, opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dial(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func readMsg(t *testing.T, ctx context.Context, conn *websocket.Conn) wsMessage {
	t.Helper()
	var msg wsMessage
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	return msg
}

func activate(t *testing.T, ctx context.Context, conn *websocket.Conn, row, col int) {
	t.Helper()
	require.NoError(t, wsjson.Write(ctx, conn, wsMessage{
		Type:    MsgActivate,
		Payload: mustMarshal(activatePayload{Row: row, Col: col}),
	}))
}

func TestAPIState(t *testing.T) {
	_, ts := newTestServer(t, board.NewStandard())

	resp, err := http.Get(ts.URL + "/api/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var state types.BoardState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, types.White, state.PlayerToMove)
	assert.Equal(t, types.PhasePlaying, state.Phase)
	assert.Equal(t, 12, state.WhitePieces)
	assert.Equal(t, 12, state.BlackPieces)
	assert.Equal(t, types.Black, state.Board[0][1])
}

func TestBoardPNG(t *testing.T) {
	_, ts := newTestServer(t, board.NewStandard())

	resp, err := http.Get(ts.URL + "/api/board.png?width=128")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())

	bad, err := http.Get(ts.URL + "/api/board.png?width=abc")
	require.NoError(t, err)
	bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestStaticPage(t *testing.T) {
	_, ts := newTestServer(t, board.NewStandard())

	for _, path := range []string{"/", "/static/app.js", "/static/style.css"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err, path)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.NotEmpty(t, body, path)
	}

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `id="board"`)
}

func TestWebsocketActivateRoundTrip(t *testing.T) {
	srv, ts := newTestServer(t, board.NewStandard())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, ts)

	first := readMsg(t, ctx, conn)
	require.Equal(t, MsgState, first.Type)
	var sp statePayload
	require.NoError(t, json.Unmarshal(first.Payload, &sp))
	assert.Equal(t, types.White, sp.State.PlayerToMove)
	assert.Equal(t, "White", sp.Labels["white"])
	assert.Equal(t, animationPayload{MoveMs: 300, CaptureMs: 500}, sp.Animation)

	activate(t, ctx, conn, 5, 0)

	msg := readMsg(t, ctx, conn)
	require.Equal(t, MsgSelect, msg.Type)
	var sel selectPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &sel))
	require.NotNil(t, sel.At)
	assert.Equal(t, types.Pos{Row: 5, Col: 0}, *sel.At)

	msg = readMsg(t, ctx, conn)
	require.Equal(t, MsgHighlight, msg.Type)
	var hl highlightPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &hl))
	require.Len(t, hl.Moves, 1)
	assert.Equal(t, types.Move{Row: 4, Col: 1}, hl.Moves[0])

	activate(t, ctx, conn, 4, 1)

	var got []string
	var mv movePayload
	for len(got) < 3 {
		msg = readMsg(t, ctx, conn)
		got = append(got, msg.Type)
		if msg.Type == MsgMove {
			require.NoError(t, json.Unmarshal(msg.Payload, &mv))
		}
	}
	assert.Equal(t, []string{MsgSelect, MsgClear, MsgMove}, got)
	assert.Equal(t, types.White, mv.Color)
	assert.Equal(t, types.Pos{Row: 5, Col: 0}, mv.From)
	assert.Equal(t, types.Pos{Row: 4, Col: 1}, mv.To)

	state := srv.Session().State()
	assert.Equal(t, types.Black, state.PlayerToMove)
	assert.Equal(t, 1, state.MoveNumber)
}

func TestStateCarriesConfiguredAnimation(t *testing.T) {
	_, ts := newTestServer(t, board.NewStandard(),
		WithAnimation(config.AnimationConfig{MoveMs: 120, CaptureMs: 0}))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg := readMsg(t, ctx, dial(t, ctx, ts))
	require.Equal(t, MsgState, msg.Type)
	var sp statePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &sp))
	assert.Equal(t, animationPayload{MoveMs: 120, CaptureMs: 0}, sp.Animation)
}

func TestWebsocketOrigin(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	foreign := &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{"http://example.com"}},
	}

	tests := []struct {
		name      string
		anyOrigin bool
		ok        bool
	}{
		{"same origin only", false, false},
		{"any origin", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ts := newTestServer(t, board.NewStandard(), WithAnyOrigin(tt.anyOrigin))
			url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
			conn, resp, err := websocket.Dial(ctx, url, foreign)
			if !tt.ok {
				require.Error(t, err)
				if resp != nil {
					assert.Equal(t, http.StatusForbidden, resp.StatusCode)
				}
				return
			}
			require.NoError(t, err)
			defer conn.Close(websocket.StatusNormalClosure, "")
			assert.Equal(t, MsgState, readMsg(t, ctx, conn).Type)
		})
	}
}

func TestWebsocketBroadcastsToAllPages(t *testing.T) {
	_, ts := newTestServer(t, board.NewStandard())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a := dial(t, ctx, ts)
	b := dial(t, ctx, ts)
	require.Equal(t, MsgState, readMsg(t, ctx, a).Type)
	require.Equal(t, MsgState, readMsg(t, ctx, b).Type)

	activate(t, ctx, a, 5, 2)
	assert.Equal(t, MsgSelect, readMsg(t, ctx, b).Type)
	assert.Equal(t, MsgHighlight, readMsg(t, ctx, b).Type)
}

func TestWebsocketWinner(t *testing.T) {
	b := board.New()
	_, err := b.PlacePiece(types.White, 5, 0)
	require.NoError(t, err)
	_, err = b.PlacePiece(types.Black, 4, 1)
	require.NoError(t, err)

	srv, ts := newTestServer(t, b)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, ts)
	require.Equal(t, MsgState, readMsg(t, ctx, conn).Type)

	activate(t, ctx, conn, 5, 0)
	activate(t, ctx, conn, 3, 2)

	var winner winnerPayload
	var seen []string
	for {
		msg := readMsg(t, ctx, conn)
		seen = append(seen, msg.Type)
		if msg.Type == MsgWinner {
			require.NoError(t, json.Unmarshal(msg.Payload, &winner))
			break
		}
	}
	assert.Equal(t, []string{MsgSelect, MsgHighlight, MsgSelect, MsgClear, MsgMove, MsgCapture, MsgWinner}, seen)
	assert.Equal(t, types.White, winner.Winner)
	assert.Equal(t, "White win!", winner.Text)
	assert.True(t, srv.Session().State().Finished())
}

func TestServeShutsDownOnCancel(t *testing.T) {
	cat, err := msgcat.New("en", "")
	require.NoError(t, err)
	srv := NewServer("127.0.0.1:0", func(p engine.Presenter) *engine.Controller {
		return engine.NewController(board.NewStandard(), p)
	}, cat)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/state")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}
