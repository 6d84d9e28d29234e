package engine

import (
	"go.uber.org/zap"

	"checkers-local/board"
	"checkers-local/types"
)

// State is the turn controller state.
type State int

const (
	// Idle means no piece is selected.
	Idle State = iota
	// Selected means a piece of the current player is selected and its moves are known.
	Selected
	// GameOver is terminal; every input is ignored.
	GameOver
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selected:
		return "selected"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Controller drives a single game: selection, move execution, captures,
// turn alternation and win detection. It is not safe for concurrent use;
// hosts deliver one input event at a time.
type Controller struct {
	board     *board.Board
	presenter Presenter
	log       *zap.Logger

	current   types.Color
	state     State
	selected  *board.Piece
	moves     []types.Move
	winner    types.Color
	moveCount int
	lastMove  *types.Pos
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for state transitions.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithFirstPlayer sets the side that moves first. White by default.
func WithFirstPlayer(color types.Color) Option {
	return func(c *Controller) {
		if color == types.White || color == types.Black {
			c.current = color
		}
	}
}

// NewController creates a controller for b and asks the presenter to render it.
// A nil presenter is replaced with NopPresenter.
func NewController(b *board.Board, p Presenter, opts ...Option) *Controller {
	if p == nil {
		p = NopPresenter{}
	}
	c := &Controller{
		board:     b,
		presenter: p,
		log:       zap.NewNop(),
		current:   types.White,
		state:     Idle,
	}
	for _, opt := range opts {
		opt(c)
	}
	p.RenderBoard(b.Pieces())
	c.log.Debug("game started",
		zap.Stringer("first", c.current),
		zap.Int("white", b.CountByColor(types.White)),
		zap.Int("black", b.CountByColor(types.Black)))
	return c
}

// OnCellActivated dispatches a click on a cell or the piece within it.
// Own pieces are selected, highlighted destinations are played, anything else deselects.
func (c *Controller) OnCellActivated(row, col int) {
	if c.state == GameOver {
		return
	}
	if p := c.board.PieceAt(row, col); p != nil && p.Color == c.current {
		c.Select(row, col)
		return
	}
	if c.state == Selected {
		if _, ok := types.FindMove(c.moves, types.Pos{Row: row, Col: col}); ok {
			c.ChooseDestination(row, col)
			return
		}
	}
	c.ClickElsewhere()
}

// Select selects the current player's piece at (row, col) and highlights its moves.
// Re-selecting replaces the previous selection. Returns false if nothing changed.
func (c *Controller) Select(row, col int) bool {
	if c.state == GameOver {
		return false
	}
	p := c.board.PieceAt(row, col)
	if p == nil || p.Color != c.current {
		return false
	}
	c.selected = p
	c.moves = AvailableMoves(c.board, p.Pos, p.Color)
	c.state = Selected

	pos := p.Pos
	c.presenter.MarkSelected(&pos)
	c.presenter.HighlightMoves(c.Moves())
	c.log.Debug("piece selected",
		zap.Stringer("player", c.current),
		zap.Int("row", row), zap.Int("col", col),
		zap.Int("moves", len(c.moves)))
	return true
}

// ChooseDestination plays the selected piece to (row, col) if it is one of the
// generated moves. The board mutation, capture, win check and turn flip all
// happen before it returns. Returns false if the input was ignored.
func (c *Controller) ChooseDestination(row, col int) bool {
	if c.state != Selected || !c.board.Contains(c.selected) {
		return false
	}
	move, ok := types.FindMove(c.moves, types.Pos{Row: row, Col: col})
	if !ok {
		return false
	}

	piece := c.selected
	from := piece.Pos
	if !c.board.MovePieceTo(piece, move.Row, move.Col) {
		c.log.Warn("generated move rejected by board",
			zap.Int("row", move.Row), zap.Int("col", move.Col))
		return false
	}
	var captured *board.Piece
	if move.Capture != nil {
		captured = c.board.RemovePieceAt(move.Capture.Row, move.Capture.Col)
	}

	c.selected = nil
	c.moves = nil
	c.state = Idle
	c.moveCount++
	to := piece.Pos
	c.lastMove = &to

	c.presenter.MarkSelected(nil)
	c.presenter.ClearHighlights()
	c.presenter.AnimateMove(*piece, from, to)
	if captured != nil {
		c.presenter.AnimateCapture(captured.Pos)
	}

	fields := []zap.Field{
		zap.Stringer("player", c.current),
		zap.Int("from_row", from.Row), zap.Int("from_col", from.Col),
		zap.Int("to_row", to.Row), zap.Int("to_col", to.Col),
		zap.Bool("capture", captured != nil),
	}
	c.log.Debug("move played", fields...)

	if winner := c.checkWinner(); winner != types.NoColor {
		c.state = GameOver
		c.winner = winner
		c.log.Info("game over", zap.Stringer("winner", winner), zap.Int("moves", c.moveCount))
		c.presenter.AnnounceWinner(winner)
		return true
	}
	c.current = c.current.Opponent()
	return true
}

// ClickElsewhere drops the selection and clears highlighting. No board change.
func (c *Controller) ClickElsewhere() {
	if c.state == GameOver {
		return
	}
	wasSelected := c.state == Selected
	c.selected = nil
	c.moves = nil
	c.state = Idle
	if wasSelected {
		c.presenter.MarkSelected(nil)
	}
	c.presenter.ClearHighlights()
}

func (c *Controller) checkWinner() types.Color {
	switch {
	case c.board.CountByColor(types.White) == 0:
		return types.Black
	case c.board.CountByColor(types.Black) == 0:
		return types.White
	default:
		return types.NoColor
	}
}

// Board returns the board the controller mutates.
func (c *Controller) Board() *board.Board {
	return c.board
}

// CurrentPlayer returns the side to move.
func (c *Controller) CurrentPlayer() types.Color {
	return c.current
}

// State returns the controller state.
func (c *Controller) State() State {
	return c.state
}

// GameOver returns true once a side has no pieces left.
func (c *Controller) GameOver() bool {
	return c.state == GameOver
}

// Winner returns the winning side, or NoColor while the game is running.
func (c *Controller) Winner() types.Color {
	return c.winner
}

// MoveCount returns the number of completed moves.
func (c *Controller) MoveCount() int {
	return c.moveCount
}

// Selected returns the position of the selected piece.
func (c *Controller) Selected() (types.Pos, bool) {
	if c.selected == nil {
		return types.Pos{}, false
	}
	return c.selected.Pos, true
}

// Moves returns a copy of the legal moves of the selected piece.
func (c *Controller) Moves() []types.Move {
	if len(c.moves) == 0 {
		return nil
	}
	out := make([]types.Move, len(c.moves))
	copy(out, c.moves)
	return out
}

// BoardState returns a snapshot of the game.
func (c *Controller) BoardState() *types.BoardState {
	phase := types.PhasePlaying
	if c.state == GameOver {
		phase = types.PhaseFinished
	}
	s := &types.BoardState{
		MoveNumber:   c.moveCount,
		PlayerToMove: c.current,
		Phase:        phase,
		Board:        c.board.Grid(),
		Winner:       c.winner,
		Moves:        c.Moves(),
		WhitePieces:  c.board.CountByColor(types.White),
		BlackPieces:  c.board.CountByColor(types.Black),
	}
	if pos, ok := c.Selected(); ok {
		s.Selected = &pos
	}
	if c.lastMove != nil {
		last := *c.lastMove
		s.LastMove = &last
	}
	return s
}
