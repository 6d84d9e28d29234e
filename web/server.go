// Package web serves the game to a browser: an embedded page, a websocket
// carrying presentation events, and JSON/PNG views of the board.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"checkers-local/config"
	"checkers-local/engine"
	"checkers-local/msgcat"
	"checkers-local/render"
)

//go:embed static
var staticFiles embed.FS

const (
	shutdownTimeout = 5 * time.Second
	minImageWidth   = 64
	maxImageWidth   = 2048
)

// Server is the browser host. It owns the hub, the presenter and the single session.
type Server struct {
	addr    string
	hub     *Hub
	session *Session
	log     *zap.Logger

	allowAnyOrigin bool
	coordinates    bool
	animation      config.AnimationConfig
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithAnyOrigin accepts websocket connections from pages served elsewhere.
func WithAnyOrigin(on bool) Option {
	return func(s *Server) { s.allowAnyOrigin = on }
}

// WithAnimation sets the move and capture delays the page animates with.
func WithAnimation(a config.AnimationConfig) Option {
	return func(s *Server) { s.animation = a }
}

// WithCoordinates draws coordinates on /api/board.png.
func WithCoordinates(on bool) Option {
	return func(s *Server) { s.coordinates = on }
}

// NewServer creates a server. newGame builds the controller around the
// presenter it is given, which broadcasts to every connected page.
func NewServer(addr string, newGame func(engine.Presenter) *engine.Controller, cat *msgcat.Catalog, opts ...Option) *Server {
	s := &Server{
		addr:      addr,
		log:       zap.NewNop(),
		animation: config.DefaultConfig.Animation,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = NewHub(s.log)
	ctrl := newGame(NewPresenter(s.hub, cat))
	s.session = NewSession(ctrl, s.hub, cat, s.animation, s.log)
	return s
}

// Session returns the game session.
func (s *Server) Session() *Session {
	return s.session
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.FileServer(http.FS(static)).ServeHTTP(w, r)
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Get("/ws", s.serveWS)
	r.Get("/api/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.session.State())
	})
	r.Get("/api/board.png", s.serveBoardPNG)

	return r
}

func (s *Server) serveBoardPNG(w http.ResponseWriter, r *http.Request) {
	opts := render.Options{Coordinates: s.coordinates}
	if v := r.URL.Query().Get("width"); v != "" {
		width, err := strconv.Atoi(v)
		if err != nil || width < minImageWidth || width > maxImageWidth {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("width must be between %d and %d", minImageWidth, maxImageWidth),
			})
			return
		}
		opts.Width = width
	}
	data, err := render.RenderPNG(r.Context(), s.session.State(), opts)
	if err != nil {
		s.log.Error("render board", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "render failed"})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	s.log.Info("web host listening", zap.String("addr", ln.Addr().String()))
	var runErr error
	select {
	case <-ctx.Done():
		s.log.Info("shutdown signal received", zap.Error(ctx.Err()))
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			s.log.Error("server error", zap.Error(err))
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			s.log.Warn("forced close failed", zap.Error(closeErr))
		}
	}
	return runErr
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
