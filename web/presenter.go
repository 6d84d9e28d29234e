package web

import (
	"checkers-local/board"
	"checkers-local/msgcat"
	"checkers-local/types"
)

type piecePayload struct {
	Color types.Color `json:"color"`
	Row   int         `json:"row"`
	Col   int         `json:"col"`
}

type renderPayload struct {
	Pieces []piecePayload `json:"pieces"`
}

type highlightPayload struct {
	Moves []types.Move `json:"moves"`
}

type selectPayload struct {
	At *types.Pos `json:"at"`
}

type movePayload struct {
	Color types.Color `json:"color"`
	From  types.Pos   `json:"from"`
	To    types.Pos   `json:"to"`
}

type capturePayload struct {
	At types.Pos `json:"at"`
}

type winnerPayload struct {
	Winner types.Color `json:"winner"`
	Text   string      `json:"text"`
}

// Presenter turns controller calls into hub broadcasts. The page plays the
// animations itself; every event carries the final state of the cells it touches.
type Presenter struct {
	hub *Hub
	cat *msgcat.Catalog
}

func NewPresenter(hub *Hub, cat *msgcat.Catalog) *Presenter {
	return &Presenter{hub: hub, cat: cat}
}

func (p *Presenter) RenderBoard(pieces []board.Piece) {
	p.hub.Broadcast(MsgRender, renderPayload{Pieces: piecesPayload(pieces)})
}

func (p *Presenter) HighlightMoves(moves []types.Move) {
	if moves == nil {
		moves = []types.Move{}
	}
	p.hub.Broadcast(MsgHighlight, highlightPayload{Moves: moves})
}

func (p *Presenter) ClearHighlights() {
	p.hub.Broadcast(MsgClear, struct{}{})
}

func (p *Presenter) MarkSelected(at *types.Pos) {
	p.hub.Broadcast(MsgSelect, selectPayload{At: at})
}

func (p *Presenter) AnimateMove(piece board.Piece, from, to types.Pos) {
	p.hub.Broadcast(MsgMove, movePayload{Color: piece.Color, From: from, To: to})
}

func (p *Presenter) AnimateCapture(at types.Pos) {
	p.hub.Broadcast(MsgCapture, capturePayload{At: at})
}

func (p *Presenter) AnnounceWinner(winner types.Color) {
	p.hub.Broadcast(MsgWinner, winnerPayload{Winner: winner, Text: p.cat.Winner(winner)})
}

func piecesPayload(pieces []board.Piece) []piecePayload {
	out := make([]piecePayload, 0, len(pieces))
	for _, pc := range pieces {
		out = append(out, piecePayload{Color: pc.Color, Row: pc.Pos.Row, Col: pc.Pos.Col})
	}
	return out
}
