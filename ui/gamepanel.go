package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"checkers-local/msgcat"
	"checkers-local/types"
)

// GameInfoPanel displays game information alongside the board.
type GameInfoPanel struct {
	box        *tview.TextView
	boardState *types.BoardState
	cat        *msgcat.Catalog
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel(cat *msgcat.Catalog) *GameInfoPanel {
	panel := &GameInfoPanel{
		box: tview.NewTextView(),
		cat: cat,
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// SetBoardState updates the panel with current board state.
func (p *GameInfoPanel) SetBoardState(state *types.BoardState) {
	p.boardState = state
	p.box.SetText(p.text())
}

func (p *GameInfoPanel) text() string {
	if p.boardState == nil {
		return ""
	}
	s := p.boardState
	var b strings.Builder

	fmt.Fprintf(&b, "[white::b]%s[-:-:-]\n", p.cat.Text("panel.title", nil))
	b.WriteString("[dimgray]──────────────────────[-:-:-]\n")

	if s.Finished() {
		fmt.Fprintf(&b, "[yellow::b]%s[-:-:-]\n", p.cat.Winner(s.Winner))
	} else {
		fmt.Fprintf(&b, "[white]%s[-:-:-] %s\n", p.cat.Text("panel.turn", nil), p.cat.ColorName(s.PlayerToMove))
	}
	fmt.Fprintf(&b, "[white]%s[-:-:-] %d\n", p.cat.Text("panel.white", nil), s.WhitePieces)
	fmt.Fprintf(&b, "[white]%s[-:-:-] %d\n", p.cat.Text("panel.black", nil), s.BlackPieces)
	fmt.Fprintf(&b, "[white]%s[-:-:-] %d", p.cat.Text("panel.moves", nil), s.MoveNumber)
	if s.LastMove != nil {
		fmt.Fprintf(&b, " [dimgray](%s)[-]", PosName(*s.LastMove))
	}
	b.WriteString("\n")

	if len(s.Moves) > 0 {
		b.WriteString("\n")
		for _, m := range s.Moves {
			marker := "[green]→[-]"
			if m.IsCapture() {
				marker = "[red]×[-]"
			}
			fmt.Fprintf(&b, " %s %s\n", marker, PosName(m.To()))
		}
	}
	return b.String()
}

// PosName returns the board coordinate of p as shown around the grid, e.g. "a3".
func PosName(p types.Pos) string {
	if !p.OnBoard() {
		return "??"
	}
	return fmt.Sprintf("%c%d", 'a'+p.Col, types.BoardSize-p.Row)
}

// CreateGameLayout creates the main game layout with board and side panel.
func CreateGameLayout(board *BoardUI, hint *tview.TextView) *tview.Flex {
	infoPanel := NewGameInfoPanel(board.cat)

	// Store panel reference in board for updates
	board.infoPanel = infoPanel
	board.refreshHint()

	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(board.Box, 0, 1, true)
	boardRow.AddItem(infoPanel.Box(), 26, 0, false)

	mainFlex := tview.NewFlex().SetDirection(tview.FlexRow)
	mainFlex.AddItem(boardRow, 0, 1, true)
	mainFlex.AddItem(hint, 4, 0, false)

	return mainFlex
}
