package engine

import (
	"checkers-local/board"
	"checkers-local/types"
)

// AvailableMoves returns the legal destinations for a piece of the given color at from.
// Plain moves are one forward diagonal step onto an empty cell. Captures jump two
// forward diagonal steps onto an empty cell over an opposing piece. Both kinds may be
// returned together; there is no forced capture and no multi-jump.
// Order: plain left, plain right, capture left, capture right.
func AvailableMoves(b *board.Board, from types.Pos, color types.Color) []types.Move {
	dir := color.Direction()
	if dir == 0 || b == nil {
		return nil
	}
	moves := make([]types.Move, 0, 4)

	for _, dc := range []int{-1, 1} {
		to := types.Pos{Row: from.Row + dir, Col: from.Col + dc}
		if !to.OnBoard() {
			continue
		}
		if b.PieceAt(to.Row, to.Col) == nil {
			moves = append(moves, types.Move{Row: to.Row, Col: to.Col})
		}
	}

	for _, dc := range []int{-1, 1} {
		to := types.Pos{Row: from.Row + 2*dir, Col: from.Col + 2*dc}
		if !to.OnBoard() {
			continue
		}
		over := types.Pos{Row: from.Row + dir, Col: from.Col + dc}
		jumped := b.PieceAt(over.Row, over.Col)
		if jumped == nil || jumped.Color == color {
			continue
		}
		if b.PieceAt(to.Row, to.Col) != nil {
			continue
		}
		moves = append(moves, types.Move{Row: to.Row, Col: to.Col, Capture: &over})
	}

	return moves
}
