// Package server exposes the revq API over JSON-RPC 2.0. Local clients
// connect through a Unix socket (Windows: named pipe) with line-framed
// messages; browser-side presentation layers use the HTTP/WebSocket bridge.
package server

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/creachadair/jrpc2/handler"
	"golang.org/x/sync/errgroup"

	"github.com/revq/revq/pkg/logger"
)

// Server accepts socket connections and serves one jrpc2 session per
// connection until its context is cancelled.
type Server struct {
	log     logger.Logger
	port    int
	methods handler.Map

	mu       sync.Mutex
	listener net.Listener
	sessions map[*jrpc2.Server]struct{}
}

// NewServer creates a server for the given method map. port is the TCP
// fallback port used when the platform transport cannot be created.
func NewServer(l logger.Logger, methods handler.Map, port int) *Server {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Server{
		log:      l,
		port:     port,
		methods:  methods,
		sessions: make(map[*jrpc2.Server]struct{}),
	}
}

// Serve listens and blocks until ctx is cancelled or the listener fails.
// Active sessions are stopped on the way out.
func (s *Server) Serve(ctx context.Context) error {
	lst, err := s.createListener()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = lst
	s.mu.Unlock()
	s.log.Info("listening on %s", lst.Addr())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		lst.Close()
		s.stopSessions()
		return ctx.Err()
	})
	g.Go(func() error {
		for {
			conn, err := lst.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			s.serveConn(ctx, conn)
		}
	})

	err = g.Wait()
	s.cleanup()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// serveConn runs one jrpc2 session over a line-framed connection.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	srv := jrpc2.NewServer(s.methods, nil)
	srv.Start(channel.Line(conn, conn))

	s.mu.Lock()
	s.sessions[srv] = struct{}{}
	s.mu.Unlock()

	go func() {
		if err := srv.Wait(); err != nil {
			s.log.Warning("session ended: %v", err)
		}
		conn.Close()
		s.mu.Lock()
		delete(s.sessions, srv)
		s.mu.Unlock()
	}()
}

func (s *Server) stopSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for srv := range s.sessions {
		srv.Stop()
	}
}

// Addr returns the listening address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}
