// Package types contains shared data structures for checkers-local.
package types

import "fmt"

// BoardSize is the number of rows and columns on the board.
const BoardSize = 8

// Color identifies a side. The zero value means no piece.
type Color int

const (
	NoColor Color = iota
	Black
	White
)

// String returns the lowercase color name used in config, logs and the web protocol.
func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "none"
	}
}

// Opponent returns the other side. NoColor has no opponent.
func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	default:
		return NoColor
	}
}

// Direction returns the row delta of a forward step.
// White moves toward row 0, Black toward row 7.
func (c Color) Direction() int {
	switch c {
	case White:
		return -1
	case Black:
		return 1
	default:
		return 0
	}
}

// MarshalText allows Color to be used as a JSON string.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses "black", "white" or "none".
func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "black":
		*c = Black
	case "white":
		*c = White
	case "none", "":
		*c = NoColor
	default:
		return fmt.Errorf("unknown color %q", text)
	}
	return nil
}

// Pos represents a position on the board. Row 0 is the top edge, where Black starts.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// OnBoard returns true if both coordinates are within 0-7.
func (p Pos) OnBoard() bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

// Playable returns true for the dark squares pieces sit on.
func (p Pos) Playable() bool {
	return p.OnBoard() && (p.Row+p.Col)%2 != 0
}

// Move is a candidate destination. Capture is nil for a plain move.
type Move struct {
	Row     int  `json:"row"`
	Col     int  `json:"col"`
	Capture *Pos `json:"capture"`
}

// To returns the destination as a Pos.
func (m Move) To() Pos {
	return Pos{Row: m.Row, Col: m.Col}
}

// IsCapture returns true if the move jumps over a piece.
func (m Move) IsCapture() bool {
	return m.Capture != nil
}

// Phases reported in BoardState.
const (
	PhasePlaying  = "playing"
	PhaseFinished = "finished"
)

// BoardState is a read-only snapshot of a game, shared with renderers and the web host.
// Board is indexed as Board[row][col].
type BoardState struct {
	MoveNumber   int       `json:"move_number"`
	PlayerToMove Color     `json:"player_to_move"`
	Phase        string    `json:"phase"`
	Board        [][]Color `json:"board"`
	Winner       Color     `json:"winner"`
	Selected     *Pos      `json:"selected"`
	Moves        []Move    `json:"moves"`
	LastMove     *Pos      `json:"last_move"`
	WhitePieces  int       `json:"white_pieces"`
	BlackPieces  int       `json:"black_pieces"`
}

// Finished returns true if the game is over.
func (b *BoardState) Finished() bool {
	return b.Phase == PhaseFinished
}

// Height returns the board height.
func (b *BoardState) Height() int {
	return len(b.Board)
}

// Width returns the board width.
func (b *BoardState) Width() int {
	if b.Height() == 0 {
		return 0
	}
	return len(b.Board[0])
}

// FindMove returns the move in moves whose destination is pos.
func FindMove(moves []Move, pos Pos) (Move, bool) {
	for _, m := range moves {
		if m.To() == pos {
			return m, true
		}
	}
	return Move{}, false
}
