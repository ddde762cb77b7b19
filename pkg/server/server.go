// Package server implements a TCP ISO8583 switch server: it accepts
// connections, frames requests with an mli.MLI, hands complete frames to a
// MsgProcessor, and writes the framed response back.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/hkumarmk/iso8583-switch/pkg/iso"
	"github.com/hkumarmk/iso8583-switch/pkg/mli"
)

// readBufSize is the chunk size read() is called with per connection.
const readBufSize = 512

// MsgProcessor handles one complete request frame and returns the bytes to
// write back on the wire plus the parsed response message, for logging.
// Returning an *iso.IsoError fails that single request without closing the
// connection; any other error is treated the same way by Server, but
// callers should prefer the iso error types so logs carry field context.
type MsgProcessor interface {
	Process(ctx context.Context, server *Server, request []byte) ([]byte, *iso.IsoMsg, error)
}

// MsgProcessorFunc adapts a plain function to MsgProcessor.
type MsgProcessorFunc func(ctx context.Context, server *Server, request []byte) ([]byte, *iso.IsoMsg, error)

// Process implements MsgProcessor.
func (f MsgProcessorFunc) Process(ctx context.Context, server *Server, request []byte) ([]byte, *iso.IsoMsg, error) {
	return f(ctx, server, request)
}

// Server listens on a TCP address and dispatches framed ISO8583 requests to
// a MsgProcessor. The zero value is not usable; construct with New.
type Server struct {
	addr    string
	framer  mli.MLI
	spec    *iso.Spec
	proc    MsgProcessor
	logger  *slog.Logger
	accOpts []mli.Option

	mu       sync.Mutex
	listener net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithMaxFrameBytes bounds the per-connection accumulator to n body bytes;
// a peer announcing a larger frame gets its connection closed (spec §5's
// oversize-frame policy) instead of growing the accumulator unbounded.
// Defaults to the mli package's per-prefix-width default when unset.
func WithMaxFrameBytes(n int) Option {
	return func(s *Server) { s.accOpts = append(s.accOpts, mli.WithMaxBody(n)) }
}

// New returns a Server that listens on addr, frames requests with framer,
// parses/assembles messages against spec, and dispatches complete frames to
// proc. A nil logger falls back to slog.Default().
func New(addr string, framer mli.MLI, spec *iso.Spec, proc MsgProcessor, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{addr: addr, framer: framer, spec: spec, proc: proc, logger: logger}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Spec returns the message spec this server parses requests against.
func (s *Server) Spec() *iso.Spec { return s.spec }

// Addr returns the bound listen address, or "" if ListenAndServe hasn't
// bound a listener yet. Useful for tests that pass an ephemeral ":0" port.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// ListenAndServe binds the listen address and accepts connections until ctx
// is cancelled or Close is called, handling each connection in its own
// goroutine. It blocks until the listener stops.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return iso.NewIsoServerError(fmt.Sprintf("server: listen %s", s.addr), err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("iso8583 server listening", slog.String("addr", s.addr))

	go func() {
		<-ctx.Done()
		s.Close()
	}()

	for {
		conn, acceptErr := ln.Accept()
		if acceptErr != nil {
			if errors.Is(acceptErr, net.ErrClosed) {
				return nil
			}

			return fmt.Errorf("server: accept: %w", acceptErr)
		}

		s.logger.Debug("accepted connection", slog.String("remote", conn.RemoteAddr().String()))

		go s.handleConn(ctx, conn)
	}
}

// Close stops accepting new connections. Connections already accepted run
// to completion on their own.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}

	return s.listener.Close()
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	acc := mli.NewAccumulator(s.framer, s.accOpts...)
	buf := make([]byte, readBufSize)

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			acc.Push(buf[:n])

			if serveErr := s.drainFrames(ctx, conn, acc, remote); serveErr != nil {
				s.logger.Error("fatal framing error, closing connection",
					slog.String("remote", remote), slog.Any("error", serveErr))

				return
			}
		}

		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				s.logger.Debug("connection closed", slog.String("remote", remote), slog.Any("cause", err))
			}

			return
		}
	}
}

func (s *Server) drainFrames(ctx context.Context, conn net.Conn, acc *mli.Accumulator, remote string) error {
	for {
		body, ok, err := acc.Next()
		if err != nil {
			return err
		}

		if !ok {
			return nil
		}

		s.logger.Debug("received request", slog.String("remote", remote), slog.Int("len", len(body)))

		respBody, respMsg, procErr := s.proc.Process(ctx, s, body)
		if procErr != nil {
			s.logger.Error("request processing failed", slog.String("remote", remote), slog.Any("error", procErr))

			continue
		}

		s.logger.Debug("sending response", slog.String("remote", remote), slog.Any("message", respMsg))

		framed, err := s.framer.Create(len(respBody))
		if err != nil {
			s.logger.Error("failed to frame response", slog.String("remote", remote), slog.Any("error", err))

			continue
		}

		if _, err := conn.Write(append(framed, respBody...)); err != nil {
			s.logger.Warn("failed to write response", slog.String("remote", remote), slog.Any("error", err))
		}
	}
}
