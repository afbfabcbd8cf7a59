package live

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/isoshell/pkg/navigate"
	"github.com/vango-dev/isoshell/pkg/store"
)

// Session is one live connection and the store it owns.
type Session struct {
	ID string

	conn   *websocket.Conn
	server *Server

	writeMu sync.Mutex

	// store is written once by the read loop on hydrate; storeMu guards it
	// against Store callers.
	storeMu sync.Mutex
	store   *store.Store

	// Read-loop only.
	stop func()

	closeOnce sync.Once
}

func newSession(id string, conn *websocket.Conn, srv *Server) *Session {
	return &Session{ID: id, conn: conn, server: srv}
}

// Store returns the session's store, or nil before hydration.
func (s *Session) Store() *store.Store {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	return s.store
}

// Navigate implements navigate.Navigator by sending a navigate frame.
func (s *Session) Navigate(location string) {
	if err := s.send(Message{Type: TypeNavigate, Location: location}); err != nil {
		s.server.logger.Debug("live navigate send failed", "session", s.ID, "error", err)
		return
	}
	if m := s.server.cfg.Metrics; m != nil {
		m.Navigated(location)
	}
}

// Close closes the connection. The read loop then exits.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		_ = s.conn.SetWriteDeadline(time.Now().Add(time.Second))
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.writeMu.Unlock()
		_ = s.conn.Close()
	})
}

func (s *Session) run() {
	defer func() {
		if s.stop != nil {
			s.stop()
		}
		s.Close()
	}()

	cfg := s.server.cfg
	s.conn.SetReadLimit(cfg.MaxMessageSize)

	if err := s.send(Message{Type: TypeReady, Session: s.ID}); err != nil {
		return
	}

	for {
		_ = s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.server.logger.Warn("live read error", "session", s.ID, "error", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			s.fail("frames must be JSON text")
			continue
		}

		msg, err := decodeMessage(data)
		if err != nil {
			s.fail("invalid message: " + err.Error())
			continue
		}
		s.handle(msg)
	}
}

func (s *Session) handle(msg Message) {
	switch msg.Type {
	case TypeHydrate:
		if s.store != nil {
			s.fail("session already hydrated")
			return
		}
		var initial store.State
		if msg.State != nil {
			initial = *msg.State
		}
		st := store.New(initial)
		s.stop = navigate.Watch(st, s, s.server.cfg.Navigation...)
		s.storeMu.Lock()
		s.store = st
		s.storeMu.Unlock()

	case TypeDispatch:
		if s.store == nil {
			s.fail("dispatch before hydrate")
			return
		}
		if msg.Action == nil || msg.Action.Type == "" {
			s.fail("dispatch without action")
			return
		}
		s.store.Dispatch(*msg.Action)

	default:
		s.fail(fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

func (s *Session) fail(reason string) {
	s.server.logger.Debug("live protocol error", "session", s.ID, "reason", reason)
	_ = s.send(Message{Type: TypeError, Error: reason})
}

func (s *Session) send(m Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.server.cfg.WriteTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}
