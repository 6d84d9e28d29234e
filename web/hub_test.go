package web

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"checkers-local/board"
	"checkers-local/msgcat"
	"checkers-local/types"
)

func drain(t *testing.T, c *Client) []wsMessage {
	t.Helper()
	var out []wsMessage
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return out
			}
			var msg wsMessage
			require.NoError(t, json.Unmarshal(data, &msg))
			out = append(out, msg)
		default:
			return out
		}
	}
}

func clientCount(h *Hub) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func TestHubRegisterUnregister(t *testing.T) {
	h := NewHub(nil)
	c := newClient()
	assert.NotEmpty(t, c.id)
	assert.Equal(t, 0, clientCount(h))

	h.Register(c)
	assert.Equal(t, 1, clientCount(h))
	h.Broadcast(MsgClear, struct{}{})
	msgs := drain(t, c)
	require.Len(t, msgs, 1)
	assert.Equal(t, MsgClear, msgs[0].Type)

	h.Unregister(c)
	assert.Equal(t, 0, clientCount(h))
	_, open := <-c.send
	assert.False(t, open)

	h.Unregister(c)
	h.Broadcast(MsgClear, struct{}{})
}

func TestHubDisconnectsClientThatFallsBehind(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	h := NewHub(zap.New(core))
	slow, fast := newClient(), newClient()
	h.Register(slow)
	h.Register(fast)

	for i := 0; i < clientSendBuffer; i++ {
		h.Broadcast(MsgPing, nil)
	}
	assert.Len(t, drain(t, fast), clientSendBuffer)
	h.Broadcast(MsgMove, struct{}{})

	assert.Len(t, drain(t, slow), clientSendBuffer, "queued messages are still delivered")
	_, open := <-slow.send
	assert.False(t, open, "send is closed so the writer ends the connection")
	assert.Equal(t, 1, clientCount(h))

	msgs := drain(t, fast)
	require.Len(t, msgs, 1)
	assert.Equal(t, MsgMove, msgs[0].Type)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, slow.id, entry.ContextMap()["client"])
	assert.Equal(t, MsgMove, entry.ContextMap()["type"])

	h.Unregister(slow)
	h.Broadcast(MsgClear, struct{}{})
}

func TestPresenterPayloads(t *testing.T) {
	cat, err := msgcat.New("ru", "")
	require.NoError(t, err)
	h := NewHub(nil)
	c := newClient()
	h.Register(c)
	p := NewPresenter(h, cat)

	p.RenderBoard([]board.Piece{{Color: types.Black, Pos: types.Pos{Row: 0, Col: 1}}})
	p.HighlightMoves(nil)
	p.MarkSelected(nil)
	p.AnimateMove(board.Piece{Color: types.White}, types.Pos{Row: 5, Col: 0}, types.Pos{Row: 3, Col: 2})
	p.AnimateCapture(types.Pos{Row: 4, Col: 1})
	p.AnnounceWinner(types.Black)

	msgs := drain(t, c)
	require.Len(t, msgs, 6)

	assert.Equal(t, MsgRender, msgs[0].Type)
	assert.JSONEq(t, `{"pieces":[{"color":"black","row":0,"col":1}]}`, string(msgs[0].Payload))

	assert.Equal(t, MsgHighlight, msgs[1].Type)
	assert.JSONEq(t, `{"moves":[]}`, string(msgs[1].Payload))

	assert.Equal(t, MsgSelect, msgs[2].Type)
	assert.JSONEq(t, `{"at":null}`, string(msgs[2].Payload))

	assert.Equal(t, MsgMove, msgs[3].Type)
	assert.JSONEq(t, `{"color":"white","from":{"row":5,"col":0},"to":{"row":3,"col":2}}`, string(msgs[3].Payload))

	assert.Equal(t, MsgCapture, msgs[4].Type)
	assert.JSONEq(t, `{"at":{"row":4,"col":1}}`, string(msgs[4].Payload))

	assert.Equal(t, MsgWinner, msgs[5].Type)
	assert.JSONEq(t, `{"winner":"black","text":"Чёрные победили!"}`, string(msgs[5].Payload))
}
