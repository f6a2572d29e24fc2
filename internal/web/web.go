// Package web serves the browser UI: server-rendered pages backed by
// the same storage layer as the REST API, with cookie sessions instead
// of bearer tokens.
package web

import (
	"time"

	"github.com/good-yellow-bee/bugboard/internal/storage"
	"github.com/good-yellow-bee/bugboard/internal/web/handlers"
	"github.com/good-yellow-bee/bugboard/internal/web/session"
)

type Server struct {
	handler          *handlers.Handler
	sessions         *session.Store
	csrfKey          []byte
	useSecureCookies bool
}

func NewServer(store storage.Storage, csrfKey string) *Server {
	sessions := session.NewStore(24 * time.Hour)
	return NewServerWithSessions(store, csrfKey, sessions, false)
}

// NewServerWithSessions creates a server with a provided session store,
// so tests can seed sessions directly.
func NewServerWithSessions(store storage.Storage, csrfKey string, sessions *session.Store, useSecureCookies bool) *Server {
	return &Server{
		handler:          handlers.NewHandler(store, sessions),
		sessions:         sessions,
		csrfKey:          []byte(csrfKey),
		useSecureCookies: useSecureCookies,
	}
}

func (s *Server) Sessions() *session.Store {
	return s.sessions
}

func (s *Server) Handler() *handlers.Handler {
	return s.handler
}
