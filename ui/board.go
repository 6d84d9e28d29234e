// Package ui specifies custom controls for tview to play checkers in the terminal.
package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"checkers-local/board"
	"checkers-local/config"
	"checkers-local/engine"
	"checkers-local/msgcat"
	"checkers-local/render"
	"checkers-local/types"
)

const (
	cellWidth   = 3
	rankGutter  = 3
	boardHeight = types.BoardSize
)

// BoardUI is the board widget. It implements engine.Presenter: the controller
// tells it what changed and the widget keeps its own picture of the board.
// Presenter methods never read the controller; the hint is refreshed once the
// controller has returned.
type BoardUI struct {
	Box       *tview.Box
	hint      *tview.TextView
	app       *tview.Application
	cfg       *config.Config
	cat       *msgcat.Catalog
	log       *zap.Logger
	ctrl      *engine.Controller
	infoPanel *GameInfoPanel
	styles    []tcell.Color

	// after runs fn on the UI loop once d has elapsed.
	after func(d time.Duration, fn func())

	grid       [types.BoardSize][types.BoardSize]types.Color
	highlights []types.Move
	selected   *types.Pos
	movingFrom *types.Pos
	movingTo   *types.Pos
	ghosts     map[types.Pos]struct{}
	lastMove   *types.Pos
	winner     types.Color
	status     string

	selX, selY int
	originX    int
	originY    int

	onWinner func(winner types.Color, text string)
}

// NewBoardUI creates the board widget. Deferred effects are queued on app.
func NewBoardUI(app *tview.Application, c *config.Config, cat *msgcat.Catalog, hint *tview.TextView) *BoardUI {
	b := &BoardUI{
		Box:    tview.NewBox(),
		hint:   hint,
		app:    app,
		cat:    cat,
		log:    zap.NewNop(),
		ghosts: make(map[types.Pos]struct{}),
		selX:   -1,
		selY:   -1,
	}
	b.after = b.defaultAfter
	b.SetConfig(c)
	b.Box.SetDrawFunc(b.draw)
	b.Box.SetMouseCapture(func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
		if action != tview.MouseLeftClick {
			return action, event
		}
		x, y := event.Position()
		row, col, ok := b.cellAt(x, y)
		if !ok {
			return action, event
		}
		b.selX, b.selY = col, row
		b.Activate()
		return action, nil
	})
	return b
}

func (b *BoardUI) defaultAfter(d time.Duration, fn func()) {
	if d <= 0 || b.app == nil {
		fn()
		return
	}
	time.AfterFunc(d, func() {
		b.app.QueueUpdateDraw(fn)
	})
}

// SetLogger sets the logger used for snapshot and presenter events.
func (b *BoardUI) SetLogger(l *zap.Logger) {
	if l != nil {
		b.log = l
	}
}

// OnWinner registers the callback that shows the winner banner.
func (b *BoardUI) OnWinner(fn func(winner types.Color, text string)) {
	b.onWinner = fn
}

// ConnectController connects the widget to the controller it presents.
// The controller must have been created with this widget as its presenter.
func (b *BoardUI) ConnectController(c *engine.Controller) {
	b.ctrl = c
	b.refreshHint()
}

func (b *BoardUI) SetConfig(c *config.Config) {
	b.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.LightSquare),   // 0
		tcell.PaletteColor(c.Theme.Colors.DarkSquare),    // 1
		tcell.PaletteColor(c.Theme.Colors.BlackPiece),    // 2
		tcell.PaletteColor(c.Theme.Colors.WhitePiece),    // 3
		tcell.PaletteColor(c.Theme.Colors.Highlight),     // 4
		tcell.PaletteColor(c.Theme.Colors.CaptureTarget), // 5
		tcell.PaletteColor(c.Theme.Colors.Selected),      // 6
		tcell.PaletteColor(c.Theme.Colors.CursorBG),      // 7
		tcell.PaletteColor(c.Theme.Colors.LastMoveBG),    // 8
		tcell.PaletteColor(c.Theme.Colors.Captured),      // 9
		tcell.PaletteColor(c.Theme.Colors.Coordinates),   // 10
	}
	b.cfg = c
}

// RenderBoard implements engine.Presenter.
func (b *BoardUI) RenderBoard(pieces []board.Piece) {
	b.grid = [types.BoardSize][types.BoardSize]types.Color{}
	for _, p := range pieces {
		if p.Pos.OnBoard() {
			b.grid[p.Pos.Row][p.Pos.Col] = p.Color
		}
	}
}

// HighlightMoves implements engine.Presenter.
func (b *BoardUI) HighlightMoves(moves []types.Move) {
	b.highlights = append(b.highlights[:0], moves...)
}

// ClearHighlights implements engine.Presenter.
func (b *BoardUI) ClearHighlights() {
	b.highlights = nil
}

// MarkSelected implements engine.Presenter.
func (b *BoardUI) MarkSelected(at *types.Pos) {
	if at == nil {
		b.selected = nil
		return
	}
	p := *at
	b.selected = &p
}

// AnimateMove implements engine.Presenter. The piece is shown at its destination
// at once; the trail on the origin cell fades after the move delay.
func (b *BoardUI) AnimateMove(piece board.Piece, from, to types.Pos) {
	if from.OnBoard() {
		b.grid[from.Row][from.Col] = types.NoColor
	}
	if to.OnBoard() {
		b.grid[to.Row][to.Col] = piece.Color
		delete(b.ghosts, to)
	}
	f, t := from, to
	b.movingFrom, b.movingTo = &f, &t
	b.lastMove = &t
	b.after(b.moveDelay(), func() {
		if b.movingTo != nil && *b.movingTo == t {
			b.movingFrom, b.movingTo = nil, nil
		}
	})
}

// AnimateCapture implements engine.Presenter. A ghost of the captured piece
// stays on the cell until the capture delay has passed.
func (b *BoardUI) AnimateCapture(at types.Pos) {
	if !at.OnBoard() {
		return
	}
	b.grid[at.Row][at.Col] = types.NoColor
	b.ghosts[at] = struct{}{}
	b.after(b.captureDelay(), func() {
		delete(b.ghosts, at)
	})
}

// AnnounceWinner implements engine.Presenter. The banner is shown after the
// capture delay so the last capture is seen first.
func (b *BoardUI) AnnounceWinner(winner types.Color) {
	b.winner = winner
	b.ResetSelection()
	text := b.cat.Winner(winner)
	b.after(b.captureDelay(), func() {
		if b.onWinner != nil {
			b.onWinner(winner, text)
		}
	})
}

func (b *BoardUI) moveDelay() time.Duration {
	return time.Duration(b.cfg.Animation.MoveMs) * time.Millisecond
}

func (b *BoardUI) captureDelay() time.Duration {
	return time.Duration(b.cfg.Animation.CaptureMs) * time.Millisecond
}

// Finished returns true once a winner was announced.
func (b *BoardUI) Finished() bool {
	return b.winner != types.NoColor
}

func (b *BoardUI) SelectedTile() *types.Pos {
	if b.selX == -1 && b.selY == -1 {
		return nil
	}
	return &types.Pos{Row: b.selY, Col: b.selX}
}

// MoveSelection moves the cursor by h columns and v rows. The first call
// places the cursor on the last move or the selected piece.
func (b *BoardUI) MoveSelection(h, v int) {
	if b.Finished() {
		b.ResetSelection()
		return
	}
	if b.SelectedTile() == nil {
		switch {
		case b.selected != nil:
			b.selX, b.selY = b.selected.Col, b.selected.Row
		case b.lastMove != nil:
			b.selX, b.selY = b.lastMove.Col, b.lastMove.Row
		default:
			// White moves first from the bottom rows.
			b.selX, b.selY = 0, types.BoardSize-3
		}
		return
	}
	if b.selX+h < 0 || b.selX+h >= types.BoardSize {
		return
	}
	if b.selY+v < 0 || b.selY+v >= types.BoardSize {
		return
	}
	b.selX += h
	b.selY += v
}

func (b *BoardUI) ResetSelection() {
	b.selX = -1
	b.selY = -1
}

// Activate sends the cell under the cursor to the controller.
func (b *BoardUI) Activate() {
	tile := b.SelectedTile()
	if tile == nil || b.ctrl == nil {
		return
	}
	b.status = ""
	b.ctrl.OnCellActivated(tile.Row, tile.Col)
	b.refreshHint()
}

// SaveSnapshot writes the current board as a PNG under the XDG data directory.
func (b *BoardUI) SaveSnapshot(ctx context.Context) (string, error) {
	if b.ctrl == nil {
		return "", fmt.Errorf("no game connected")
	}
	path, err := config.SnapshotPath(fmt.Sprintf("board-%s.png", time.Now().Format("20060102-150405")))
	if err != nil {
		return "", fmt.Errorf("locate snapshot dir: %w", err)
	}
	if err := WriteSnapshot(ctx, b.ctrl.BoardState(), path, b.cfg.Theme.DrawCoordinates); err != nil {
		return "", err
	}
	return path, nil
}

// WriteSnapshot renders state to a PNG file at path.
func WriteSnapshot(ctx context.Context, state *types.BoardState, path string, coordinates bool) error {
	data, err := render.RenderPNG(ctx, state, render.Options{Coordinates: coordinates})
	if err != nil {
		return fmt.Errorf("render snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Snapshot saves a snapshot and reports the outcome on the status line.
func (b *BoardUI) Snapshot() {
	path, err := b.SaveSnapshot(context.Background())
	if err != nil {
		b.log.Warn("snapshot failed", zap.Error(err))
		b.SetStatus(b.cat.Text("snapshot.failed", map[string]any{"Error": err.Error()}))
		return
	}
	b.log.Info("snapshot saved", zap.String("path", path))
	b.SetStatus(b.cat.Text("snapshot.saved", map[string]any{"Path": path}))
}

// SetStatus shows msg above the controls until the next activation.
func (b *BoardUI) SetStatus(msg string) {
	b.status = msg
	b.refreshHint()
}

func (b *BoardUI) refreshHint() {
	if b.infoPanel != nil && b.ctrl != nil {
		b.infoPanel.SetBoardState(b.ctrl.BoardState())
	}
	if b.hint == nil {
		return
	}
	b.hint.SetText(b.hintText())
}

func (b *BoardUI) hintText() string {
	if b.Finished() {
		line := "  " + b.cat.Winner(b.winner)
		if b.status != "" {
			line = "  " + b.status
		}
		return line + "\n  " + b.cat.Text("hint.finished", nil)
	}

	var status string
	switch {
	case b.status != "":
		status = b.status
	case b.ctrl == nil:
		status = ""
	default:
		player := b.cat.ColorName(b.ctrl.CurrentPlayer())
		switch {
		case b.selected != nil && len(b.highlights) == 0:
			status = b.cat.Text("status.blocked", map[string]any{"Player": player})
		case b.selected != nil:
			status = b.cat.Text("status.selected", map[string]any{"Player": player, "Moves": len(b.highlights)})
		default:
			status = b.cat.Text("status.turn", map[string]any{"Player": player})
		}
	}
	return "  " + status + "\n  " + b.cat.Text("hint.controls", nil)
}

// cellAt maps a screen position to a board cell using the origin of the last draw.
func (b *BoardUI) cellAt(x, y int) (row, col int, ok bool) {
	if x < b.originX || y < b.originY {
		return 0, 0, false
	}
	col = (x - b.originX) / cellWidth
	row = y - b.originY
	if row >= types.BoardSize || col >= types.BoardSize {
		return 0, 0, false
	}
	return row, col, true
}

func (b *BoardUI) highlightAt(p types.Pos) (dest, target bool) {
	_, dest = types.FindMove(b.highlights, p)
	for _, m := range b.highlights {
		if m.Capture != nil && *m.Capture == p {
			target = true
		}
	}
	return dest, target
}

func (b *BoardUI) cellStyle(p types.Pos) (rune, tcell.Style) {
	bg := b.styles[0]
	if p.Playable() {
		bg = b.styles[1]
	}
	fg := b.styles[10]
	r := ' '
	attrs := tcell.AttrNone

	switch b.grid[p.Row][p.Col] {
	case types.Black:
		r = rune(b.cfg.Theme.Symbols.BlackPiece)
		fg = b.styles[2]
	case types.White:
		r = rune(b.cfg.Theme.Symbols.WhitePiece)
		fg = b.styles[3]
	}
	if _, ok := b.ghosts[p]; ok && b.grid[p.Row][p.Col] == types.NoColor {
		r = rune(b.cfg.Theme.Symbols.Captured)
		fg = b.styles[9]
	}

	dest, target := b.highlightAt(p)
	switch {
	case b.lastMove != nil && *b.lastMove == p:
		bg = b.styles[8]
	case b.movingFrom != nil && *b.movingFrom == p:
		bg = b.styles[8]
		attrs |= tcell.AttrDim
	}
	if b.movingTo != nil && *b.movingTo == p {
		attrs |= tcell.AttrBold
	}
	if dest {
		r = rune(b.cfg.Theme.Symbols.Highlight)
		fg = b.styles[4]
		attrs |= tcell.AttrBold
	}
	if target {
		bg = b.styles[5]
	}
	if b.selected != nil && *b.selected == p {
		bg = b.styles[6]
	}
	if p.Col == b.selX && p.Row == b.selY {
		bg = b.styles[7]
	}
	return r, tcell.StyleDefault.Background(bg).Foreground(fg).Attributes(attrs)
}

func (b *BoardUI) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	left := x
	if b.cfg.Theme.DrawCoordinates {
		left += rankGutter
	}
	b.originX, b.originY = left, y

	for row := 0; row < types.BoardSize; row++ {
		for col := 0; col < types.BoardSize; col++ {
			r, style := b.cellStyle(types.Pos{Row: row, Col: col})
			drawPieceCell(screen, style, r, left+col*cellWidth, y+row)
		}
	}
	if b.cfg.Theme.DrawCoordinates {
		b.drawCoordinates(screen, x, y)
		return x, y, types.BoardSize*cellWidth + rankGutter, boardHeight + 1
	}
	return x, y, types.BoardSize * cellWidth, boardHeight
}

// drawPieceCell draws a cell 3 characters wide with the glyph in the middle.
func drawPieceCell(s tcell.Screen, style tcell.Style, r rune, l, t int) {
	s.SetContent(l, t, ' ', nil, style)
	s.SetContent(l+1, t, r, nil, style)
	s.SetContent(l+2, t, ' ', nil, style)
}

func (b *BoardUI) drawCoordinates(s tcell.Screen, x, y int) {
	style := tcell.StyleDefault.Foreground(b.styles[10])
	highlight := tcell.StyleDefault.Background(b.styles[7])

	for col := 0; col < types.BoardSize; col++ {
		st := style
		if col == b.selX {
			st = highlight
		}
		l := x + rankGutter + col*cellWidth
		s.SetContent(l, y+boardHeight, ' ', nil, st)
		s.SetContent(l+1, y+boardHeight, rune('a'+col), nil, st)
		s.SetContent(l+2, y+boardHeight, ' ', nil, st)
	}
	for row := 0; row < types.BoardSize; row++ {
		st := style
		if row == b.selY {
			st = highlight
		}
		s.SetContent(x+1, y+row, rune('0'+types.BoardSize-row), nil, st)
	}
}
