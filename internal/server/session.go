package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"

	"tinyDB/internal/sql"
)

const drainTimeout = time.Second

// sessionState is where a connection is in its request cycle.
type sessionState int

const (
	stateAwaitingStatement sessionState = iota
	stateExecuting
	stateClosed
)

func (s sessionState) String() string {
	switch s {
	case stateAwaitingStatement:
		return "awaiting"
	case stateExecuting:
		return "executing"
	case stateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// session serves one client connection. Statements on a connection run one
// at a time, in the order they were received.
type session struct {
	id   uuid.UUID
	conn net.Conn
	exec Executor
	log  *slog.Logger

	state   sessionState
	pending string
}

func (s *session) run() {
	defer s.conn.Close()

	s.log.Info("session opened")
	start := time.Now()
	served := 0

	sc := bufio.NewScanner(s.conn)
	sc.Buffer(make([]byte, 0, 4096), MaxLineBytes)
	w := bufio.NewWriter(s.conn)
	enc := json.NewEncoder(w)

	s.state = stateAwaitingStatement
	for s.state != stateClosed {
		switch s.state {
		case stateAwaitingStatement:
			if !sc.Scan() {
				if err := sc.Err(); errors.Is(err, bufio.ErrTooLong) {
					s.log.Warn("statement too long", "limit", MaxLineBytes)
					resp := errorResponse(sql.Errorf(sql.KindParse, "statement exceeds %d bytes", MaxLineBytes))
					if s.reply(enc, w, resp) == nil {
						s.drain()
					}
				} else if err != nil {
					s.log.Debug("read failed", "err", err)
				}
				s.transition(stateClosed)
				continue
			}
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			s.pending = line
			s.transition(stateExecuting)

		case stateExecuting:
			resp := s.execute(s.pending)
			s.pending = ""
			served++
			if err := s.reply(enc, w, resp); err != nil {
				s.log.Debug("write failed", "err", err)
				s.transition(stateClosed)
				continue
			}
			s.transition(stateAwaitingStatement)
		}
	}

	s.log.Info("session closed", "statements", served, "duration", time.Since(start))
}

func (s *session) transition(to sessionState) {
	s.log.Debug("state change", "from", s.state.String(), "to", to.String())
	s.state = to
}

// execute runs one statement and never panics: an unexpected failure in the
// executor is reported to the client as an internal error.
func (s *session) execute(query string) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("statement panicked", "query", query, "panic", r)
			resp = errorResponse(sql.Errorf(sql.KindInternal, "internal error"))
		}
	}()

	res, err := s.exec.Execute(query)
	if err != nil {
		kind := sql.KindOf(err)
		if kind == sql.KindInternal {
			s.log.Error("statement failed", "query", query, "err", err)
		} else {
			s.log.Debug("statement rejected", "query", query, "kind", kind.String(), "err", err)
		}
		return errorResponse(err)
	}
	s.log.Debug("statement ok", "kind", string(res.Kind))
	return resultResponse(res)
}

// drain half-closes the connection and discards unread input so the
// client receives the last response before the socket goes away.
func (s *session) drain() {
	if tc, ok := s.conn.(*net.TCPConn); ok {
		_ = tc.CloseWrite()
	}
	_ = s.conn.SetReadDeadline(time.Now().Add(drainTimeout))
	_, _ = io.Copy(io.Discard, s.conn)
}

func (s *session) reply(enc *json.Encoder, w *bufio.Writer, resp Response) error {
	if err := enc.Encode(resp); err != nil {
		return err
	}
	return w.Flush()
}
