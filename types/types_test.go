package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColor(t *testing.T) {
	tests := []struct {
		color     Color
		name      string
		opponent  Color
		direction int
	}{
		{White, "white", Black, -1},
		{Black, "black", White, 1},
		{NoColor, "none", NoColor, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.color.String())
		assert.Equal(t, tt.opponent, tt.color.Opponent())
		assert.Equal(t, tt.direction, tt.color.Direction())
	}
}

func TestColorText(t *testing.T) {
	var c Color
	require.NoError(t, c.UnmarshalText([]byte("white")))
	assert.Equal(t, White, c)
	require.NoError(t, c.UnmarshalText([]byte("black")))
	assert.Equal(t, Black, c)
	assert.Error(t, c.UnmarshalText([]byte("red")))
}

func TestPos(t *testing.T) {
	tests := []struct {
		pos      Pos
		onBoard  bool
		playable bool
	}{
		{Pos{0, 0}, true, false},
		{Pos{0, 1}, true, true},
		{Pos{7, 6}, true, true},
		{Pos{7, 7}, true, false},
		{Pos{-1, 0}, false, false},
		{Pos{5, 8}, false, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.onBoard, tt.pos.OnBoard(), "OnBoard(%v)", tt.pos)
		assert.Equal(t, tt.playable, tt.pos.Playable(), "Playable(%v)", tt.pos)
	}
}

func TestMoveJSON(t *testing.T) {
	plain, err := json.Marshal(Move{Row: 4, Col: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"row":4,"col":1,"capture":null}`, string(plain))

	jump, err := json.Marshal(Move{Row: 4, Col: 3, Capture: &Pos{Row: 3, Col: 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"row":4,"col":3,"capture":{"row":3,"col":2}}`, string(jump))
}

func TestMoveIsCapture(t *testing.T) {
	assert.False(t, Move{Row: 4, Col: 1}.IsCapture())
	assert.True(t, Move{Row: 4, Col: 3, Capture: &Pos{3, 2}}.IsCapture())
	assert.Equal(t, Pos{4, 3}, Move{Row: 4, Col: 3}.To())
}

func TestBoardState(t *testing.T) {
	var empty BoardState
	assert.Equal(t, 0, empty.Width())
	assert.False(t, empty.Finished())

	s := BoardState{
		Phase: PhaseFinished,
		Board: [][]Color{{NoColor, Black}, {White, NoColor}},
		Moves: []Move{{Row: 1, Col: 1}},
	}
	assert.True(t, s.Finished())
	assert.Equal(t, 2, s.Width())
	assert.Equal(t, 2, s.Height())

}

func TestFindMove(t *testing.T) {
	over := Pos{Row: 4, Col: 1}
	moves := []Move{{Row: 4, Col: 1}, {Row: 3, Col: 2, Capture: &over}}

	m, ok := FindMove(moves, Pos{Row: 3, Col: 2})
	require.True(t, ok)
	assert.True(t, m.IsCapture())
	assert.Equal(t, over, *m.Capture)

	_, ok = FindMove(moves, Pos{Row: 4, Col: 3})
	assert.False(t, ok)
	_, ok = FindMove(nil, Pos{Row: 4, Col: 1})
	assert.False(t, ok)
}
