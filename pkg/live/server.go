package live

import (
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/isoshell/pkg/navigate"
)

// Metrics receives session lifecycle events. May be nil.
type Metrics interface {
	SessionOpened()
	SessionClosed()
	Navigated(location string)
}

// Config configures a Server.
type Config struct {
	// AllowedOrigins lists extra origins allowed to connect. Same-origin
	// requests are always allowed.
	AllowedOrigins []string

	// ReadTimeout closes a connection that stays silent this long.
	ReadTimeout time.Duration

	// WriteTimeout bounds a single frame write.
	WriteTimeout time.Duration

	// MaxMessageSize limits inbound frames, in bytes.
	MaxMessageSize int64

	// Navigation configures the navigation rule.
	Navigation []navigate.Option

	Metrics Metrics
	Logger  *slog.Logger
}

// DefaultConfig returns the default session limits.
func DefaultConfig() Config {
	return Config{
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxMessageSize: 64 * 1024,
	}
}

// Server upgrades requests to live sessions and tracks them.
type Server struct {
	cfg      Config
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewServer creates a Server. Zero limits in cfg take the defaults.
func NewServer(cfg Config) *Server {
	def := DefaultConfig()
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.MaxMessageSize == 0 {
		cfg.MaxMessageSize = def.MaxMessageSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// ServeHTTP upgrades the request and runs the session until it closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		s.logger.Debug("live upgrade failed", "error", err)
		return
	}

	sess := newSession(uuid.NewString(), conn, s)
	s.add(sess)
	defer s.remove(sess)

	sess.run()
}

// Active returns the number of open sessions.
func (s *Server) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Session returns the open session with the given id.
func (s *Server) Session(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Close closes every open session.
func (s *Server) Close() {
	s.mu.Lock()
	open := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()

	for _, sess := range open {
		sess.Close()
	}
}

func (s *Server) add(sess *Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.SessionOpened()
	}
	s.logger.Debug("live session opened", "session", sess.ID)
}

func (s *Server) remove(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.SessionClosed()
	}
	s.logger.Debug("live session closed", "session", sess.ID)
}

// checkOrigin allows same-origin requests, requests without an Origin
// header, and the configured origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if slices.Contains(s.cfg.AllowedOrigins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return r.Host != "" && u.Host == r.Host
}
