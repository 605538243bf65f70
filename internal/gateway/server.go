package gateway

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/parlo-app/parlo/internal/config"
	"github.com/parlo-app/parlo/internal/observe"
	"github.com/parlo-app/parlo/internal/score"
)

// Server accepts practice-page WebSocket connections and runs one session
// per connection. Safe for concurrent use.
type Server struct {
	log     *slog.Logger
	metrics *observe.Metrics
	scorer  *score.Scorer

	mu   sync.RWMutex
	opts sessionOptions
}

// NewServer creates a gateway server. The scorer is shared across sessions
// (it is pure); each session gets its own controllers.
func NewServer(cfg *config.Config, scorer *score.Scorer, metrics *observe.Metrics, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		log:     log,
		metrics: metrics,
		scorer:  scorer,
		opts: sessionOptions{
			language:          cfg.Speech.Language,
			debounce:          cfg.Speech.Playback.Debounce(),
			keepAliveInterval: cfg.Speech.Playback.KeepAliveInterval(),
		},
	}
}

// ApplySpeechConfig installs updated speech settings. Sessions opened after
// the call use the new values; running sessions are not disturbed.
func (s *Server) ApplySpeechConfig(sc config.SpeechConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = sessionOptions{
		language:          sc.Language,
		debounce:          sc.Playback.Debounce(),
		keepAliveInterval: sc.Playback.KeepAliveInterval(),
	}
}

// Register adds the practice-session WebSocket route to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws", s.handleWS)
}

// handleWS upgrades the connection and services it until the page leaves.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn("websocket accept failed", "err", err)
		return
	}

	ctx := r.Context()
	s.metrics.ActiveConnections.Add(ctx, 1)
	defer s.metrics.ActiveConnections.Add(ctx, -1)

	s.mu.RLock()
	opts := s.opts
	s.mu.RUnlock()

	sess := newSession(s.log, s.metrics, s.scorer, opts)
	if err := sess.run(ctx, conn); err != nil {
		s.log.Debug("practice session ended", "err", err)
	}
	conn.Close(websocket.StatusNormalClosure, "session closed")
}
