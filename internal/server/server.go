package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"

	"tinyDB/internal/engine"
)

// Executor runs one statement. *engine.DBEngine implements it.
type Executor interface {
	Execute(query string) (*engine.Result, error)
}

// Server accepts TCP connections and runs one session per connection.
// Sessions run concurrently; the executor serializes access to each table.
type Server struct {
	exec Executor
	log  *slog.Logger

	mu       sync.Mutex
	sessions map[*session]struct{}
	wg       sync.WaitGroup
}

// New creates a server that hands statements to exec.
func New(exec Executor, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		exec:     exec,
		log:      log.With("component", "server"),
		sessions: make(map[*session]struct{}),
	}
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled or ln is closed.
// Other accept errors are logged and retried with a growing delay. On
// return every open connection has been closed and every session has
// finished.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.Info("listening", "addr", ln.Addr().String())

	stop := context.AfterFunc(ctx, func() {
		_ = ln.Close()
		s.closeSessions()
	})
	defer stop()

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.wg.Wait()
				s.log.Info("stopped")
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				s.closeSessions()
				s.wg.Wait()
				return nil
			}

			// EMFILE and friends: back off and keep serving.
			delay = nextAcceptDelay(delay)
			s.log.Warn("accept failed, retrying", "err", err, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
			continue
		}
		delay = 0

		sess := &session{
			id:   uuid.New(),
			conn: conn,
			exec: s.exec,
		}
		sess.log = s.log.With("session", sess.id.String(), "remote", conn.RemoteAddr().String())

		if !s.track(sess) {
			_ = conn.Close()
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(sess)
			sess.run()
		}()
	}
}

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

func nextAcceptDelay(prev time.Duration) time.Duration {
	if prev == 0 {
		return minAcceptDelay
	}
	return min(prev*2, maxAcceptDelay)
}

// track registers a session; it refuses once shutdown has begun.
func (s *Server) track(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions == nil {
		return false
	}
	s.sessions[sess] = struct{}{}
	return true
}

func (s *Server) untrack(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess)
}

func (s *Server) closeSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sess := range s.sessions {
		_ = sess.conn.Close()
	}
	s.sessions = nil
}
