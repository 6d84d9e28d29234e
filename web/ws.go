package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	wsIdlePingInterval = 30 * time.Second
	wsWriteTimeout     = 5 * time.Second
	wsReadLimit        = 4096
)

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: s.allowAnyOrigin,
	})
	if err != nil {
		s.log.Warn("websocket accept failed", zap.Error(err))
		return
	}
	conn.SetReadLimit(wsReadLimit)

	client := newClient()
	log := s.log.With(zap.String("client", client.id))
	s.session.Attach(client)
	log.Info("page connected", zap.String("remote", r.RemoteAddr))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		// A closed send channel means the hub dropped this page; ending the
		// read loop closes the socket so the page reconnects.
		if err := writeWSWithHeartbeat(ctx, conn, client.send); err != nil && !errors.Is(err, context.Canceled) {
			log.Debug("websocket write ended", zap.Error(err))
		}
		cancel()
	}()

	for {
		var msg wsMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if status := websocket.CloseStatus(err); status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				log.Debug("websocket read ended", zap.Error(err))
			}
			break
		}
		switch msg.Type {
		case MsgActivate:
			var p activatePayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				log.Debug("bad activate payload", zap.Error(err))
				continue
			}
			s.session.Activate(p.Row, p.Col)
		default:
			log.Debug("unknown message", zap.String("type", msg.Type))
		}
	}

	s.hub.Unregister(client)
	cancel()
	<-writeDone
	_ = conn.Close(websocket.StatusNormalClosure, "")
	log.Info("page disconnected")
}

// writeWSWithHeartbeat drains send onto conn and sends a ping message when
// nothing was written for wsIdlePingInterval.
func writeWSWithHeartbeat(ctx context.Context, conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := mustMarshal(wsMessage{Type: MsgPing})

	write := func(data []byte) error {
		wctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
		defer cancel()
		return conn.Write(wctx, websocket.MessageText, data)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := write(msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := write(pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
