// Package engine implements the checkers rules: move generation and the turn controller.
package engine

import (
	"checkers-local/board"
	"checkers-local/types"
)

// Presenter is implemented by whatever displays the game.
// The controller calls it synchronously from inside the input-handling step;
// implementations may defer the visual effect but must not call back into the controller.
type Presenter interface {
	// RenderBoard draws the grid and the pieces emitted by board setup.
	RenderBoard(pieces []board.Piece)

	// HighlightMoves marks destination cells, replacing any previous highlighting.
	HighlightMoves(moves []types.Move)

	// ClearHighlights removes all destination marks.
	ClearHighlights()

	// MarkSelected marks the selected piece. nil clears the mark.
	MarkSelected(at *types.Pos)

	// AnimateMove plays the relocation of piece from one cell to another.
	AnimateMove(piece board.Piece, from, to types.Pos)

	// AnimateCapture plays the removal of the captured piece at the position.
	// The board already reflects the removal when this is called.
	AnimateCapture(at types.Pos)

	// AnnounceWinner displays the terminal banner. Called at most once.
	AnnounceWinner(winner types.Color)
}

// NopPresenter ignores every call. Used for headless games and tests.
type NopPresenter struct{}

func (NopPresenter) RenderBoard([]board.Piece) {}
func (NopPresenter) HighlightMoves([]types.Move) {}
func (NopPresenter) ClearHighlights() {}
func (NopPresenter) MarkSelected(*types.Pos) {}
func (NopPresenter) AnimateMove(board.Piece, types.Pos, types.Pos) {}
func (NopPresenter) AnimateCapture(types.Pos) {}
func (NopPresenter) AnnounceWinner(types.Color) {}
