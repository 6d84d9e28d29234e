package web

import (
	"sync"

	"go.uber.org/zap"

	"checkers-local/config"
	"checkers-local/engine"
	"checkers-local/msgcat"
	"checkers-local/types"
)

// Session is the single game served by the process. Socket readers call it
// concurrently; the mutex makes each activation atomic.
type Session struct {
	mu        sync.Mutex
	ctrl      *engine.Controller
	hub       *Hub
	cat       *msgcat.Catalog
	log       *zap.Logger
	animation animationPayload
}

// statePayload is sent to a page when it connects.
type statePayload struct {
	State     *types.BoardState `json:"state"`
	Labels    map[string]string `json:"labels"`
	Animation animationPayload  `json:"animation"`
}

type animationPayload struct {
	MoveMs    int `json:"move_ms"`
	CaptureMs int `json:"capture_ms"`
}

type activatePayload struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NewSession wraps ctrl. ctrl must present to a Presenter broadcasting on hub.
// anim sets the page's move and capture delays.
func NewSession(ctrl *engine.Controller, hub *Hub, cat *msgcat.Catalog, anim config.AnimationConfig, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		ctrl:      ctrl,
		hub:       hub,
		cat:       cat,
		log:       log,
		animation: animationPayload{MoveMs: anim.MoveMs, CaptureMs: anim.CaptureMs},
	}
}

// Activate delivers one cell activation to the controller.
func (s *Session) Activate(row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctrl.GameOver() {
		s.log.Debug("activation ignored, game over", zap.Int("row", row), zap.Int("col", col))
		return
	}
	s.ctrl.OnCellActivated(row, col)
}

// State returns a snapshot of the game.
func (s *Session) State() *types.BoardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.BoardState()
}

// Attach registers c and queues the current state as its first message.
// Holding the session lock keeps events from slipping between the two.
func (s *Session) Attach(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.sendJSON(MsgState, statePayload{
		State:     s.ctrl.BoardState(),
		Labels:    s.labels(),
		Animation: s.animation,
	})
	s.hub.Register(c)
}

func (s *Session) labels() map[string]string {
	return map[string]string{
		"title":        s.cat.Text("web.title", nil),
		"connecting":   s.cat.Text("web.connecting", nil),
		"disconnected": s.cat.Text("web.disconnected", nil),
		"white":        s.cat.ColorName(types.White),
		"black":        s.cat.ColorName(types.Black),
		"turn":         s.cat.Text("panel.turn", nil),
		"moves":        s.cat.Text("panel.moves", nil),
		"game_over":    s.cat.Text("status.game_over", nil),
	}
}
