// Package board holds the checkers board state: cells and the pieces that occupy them.
package board

import (
	"errors"
	"fmt"

	"checkers-local/types"
)

var (
	ErrOutOfRange = errors.New("position out of range")
	ErrOccupied   = errors.New("cell occupied")
	ErrNoColor    = errors.New("piece has no color")
)

// Piece is a single checker. Its position always matches the cell that owns it.
type Piece struct {
	Color types.Color
	Pos   types.Pos
}

// Cell is one square of the board.
type Cell struct {
	Pos   types.Pos
	Piece *Piece
}

// Empty returns true if no piece occupies the cell.
func (c *Cell) Empty() bool {
	return c.Piece == nil
}

// Board is an 8x8 grid indexed as cells[row][col].
type Board struct {
	cells [types.BoardSize][types.BoardSize]Cell
}

// New creates an empty board.
func New() *Board {
	b := &Board{}
	for row := 0; row < types.BoardSize; row++ {
		for col := 0; col < types.BoardSize; col++ {
			b.cells[row][col].Pos = types.Pos{Row: row, Col: col}
		}
	}
	return b
}

// NewStandard creates a board with the starting position:
// 12 Black pieces on rows 0-2 and 12 White pieces on rows 5-7, dark squares only.
func NewStandard() *Board {
	b := New()
	for row := 0; row < types.BoardSize; row++ {
		for col := 0; col < types.BoardSize; col++ {
			if !(types.Pos{Row: row, Col: col}).Playable() {
				continue
			}
			switch {
			case row < 3:
				b.mustPlace(types.Black, row, col)
			case row > 4:
				b.mustPlace(types.White, row, col)
			}
		}
	}
	return b
}

func (b *Board) mustPlace(color types.Color, row, col int) {
	if _, err := b.PlacePiece(color, row, col); err != nil {
		panic(fmt.Sprintf("setup %s at (%d,%d): %v", color, row, col, err))
	}
}

// CellAt returns the cell at the coordinates, or nil when out of range.
func (b *Board) CellAt(row, col int) *Cell {
	if !(types.Pos{Row: row, Col: col}).OnBoard() {
		return nil
	}
	return &b.cells[row][col]
}

// PieceAt returns the piece at the coordinates, or nil when empty or out of range.
func (b *Board) PieceAt(row, col int) *Piece {
	cell := b.CellAt(row, col)
	if cell == nil {
		return nil
	}
	return cell.Piece
}

// PlacePiece creates a piece on an empty cell. Used during setup.
func (b *Board) PlacePiece(color types.Color, row, col int) (*Piece, error) {
	if color != types.Black && color != types.White {
		return nil, ErrNoColor
	}
	cell := b.CellAt(row, col)
	if cell == nil {
		return nil, fmt.Errorf("place %s at (%d,%d): %w", color, row, col, ErrOutOfRange)
	}
	if !cell.Empty() {
		return nil, fmt.Errorf("place %s at (%d,%d): %w", color, row, col, ErrOccupied)
	}
	p := &Piece{Color: color, Pos: cell.Pos}
	cell.Piece = p
	return p, nil
}

// MovePieceTo transfers the piece to the cell at (row, col).
// Legality is the caller's responsibility; the move is skipped and false returned
// when the destination is out of range, already holds another piece, or the
// piece is not on this board.
func (b *Board) MovePieceTo(p *Piece, row, col int) bool {
	if p == nil {
		return false
	}
	dst := b.CellAt(row, col)
	if dst == nil {
		return false
	}
	src := b.CellAt(p.Pos.Row, p.Pos.Col)
	if src == nil || src.Piece != p {
		return false
	}
	if dst == src {
		return true
	}
	if !dst.Empty() {
		return false
	}
	src.Piece = nil
	dst.Piece = p
	p.Pos = dst.Pos
	return true
}

// RemovePieceAt deletes the piece at the coordinates and returns it, if any.
func (b *Board) RemovePieceAt(row, col int) *Piece {
	cell := b.CellAt(row, col)
	if cell == nil || cell.Empty() {
		return nil
	}
	p := cell.Piece
	cell.Piece = nil
	return p
}

// Contains returns true if the piece is still on the board.
func (b *Board) Contains(p *Piece) bool {
	return p != nil && b.PieceAt(p.Pos.Row, p.Pos.Col) == p
}

// CountByColor returns the number of live pieces of the color.
func (b *Board) CountByColor(color types.Color) int {
	n := 0
	b.each(func(c *Cell) {
		if c.Piece != nil && c.Piece.Color == color {
			n++
		}
	})
	return n
}

// Pieces returns copies of all live pieces in row-major order.
func (b *Board) Pieces() []Piece {
	var pieces []Piece
	b.each(func(c *Cell) {
		if c.Piece != nil {
			pieces = append(pieces, *c.Piece)
		}
	})
	return pieces
}

// Grid returns the board as grid[row][col] colors, NoColor for empty cells.
func (b *Board) Grid() [][]types.Color {
	grid := make([][]types.Color, types.BoardSize)
	for row := range grid {
		grid[row] = make([]types.Color, types.BoardSize)
		for col := range grid[row] {
			if p := b.cells[row][col].Piece; p != nil {
				grid[row][col] = p.Color
			}
		}
	}
	return grid
}

func (b *Board) each(fn func(*Cell)) {
	for row := 0; row < types.BoardSize; row++ {
		for col := 0; col < types.BoardSize; col++ {
			fn(&b.cells[row][col])
		}
	}
}
