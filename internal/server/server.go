// Package server hosts the TCP accept loop and per-connection RESP
// session. It delivers a stream of parsed commands to internal/command.Executor
// and writes back the Reply it returns.
package server

import (
	"context"
	"errors"
	"net"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/arjunr/respkv/internal/command"
	"github.com/arjunr/respkv/internal/respio"
)

// Server accepts connections on a listener and serves each one against a
// shared Executor.
type Server struct {
	addr     string
	executor *command.Executor
	log      *logrus.Logger
}

// New returns a Server that will listen on addr once Serve is called.
func New(addr string, executor *command.Executor, log *logrus.Logger) *Server {
	return &Server{addr: addr, executor: executor, log: log}
}

// Serve binds addr and accepts connections until ctx is canceled or the
// listener errors. Each connection is handled on its own goroutine,
// supervised by an errgroup.Group, so an Accept error surfaces through the
// returned error instead of being lost to a bare "go func", and Serve
// returns only after every connection goroutine has finished. Connection
// goroutines report no error of their own and do not recover panics.
func (s *Server) Serve(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return err
	}
	s.log.WithField("addr", s.addr).Info("listening")

	return s.ServeListener(ctx, ln)
}

// ServeListener runs the accept loop against an already-bound listener,
// mirroring net/http.Serve's split of "bind" from "accept loop" so callers
// (including tests) can bind an ephemeral port (":0") and read back the
// real address before handing the listener here.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		<-ctx.Done()
		return ln.Close()
	})

	group.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					return nil
				}
				return err
			}

			group.Go(func() error {
				s.handleConnection(conn)
				return nil
			})
		}
	})

	return group.Wait()
}

// handleConnection serves one client connection until it disconnects or a
// write fails. Parse errors and write errors both terminate just this
// connection's session; nothing here touches the keyspace lock directly --
// that is entirely internal/command's and internal/store's concern.
func (s *Server) handleConnection(conn net.Conn) {
	addr := conn.RemoteAddr().String()
	s.log.WithField("remote", addr).Debug("connection accepted")
	defer func() {
		conn.Close()
		s.log.WithField("remote", addr).Debug("connection closed")
	}()

	reader := respio.NewReader(conn)
	writer := respio.NewWriter(conn)

	for {
		cmd, err := reader.ReadCommand()
		if err != nil {
			s.log.WithError(err).WithField("remote", addr).Debug("connection read ended")
			return
		}

		reply := s.executor.Execute(cmd.Name, cmd.Args)
		if err := reply.WriteTo(writer); err != nil {
			fields := logrus.Fields{"remote": addr}
			if popped, ok := reply.(command.BlpopReply); ok {
				// The element is already removed from the keyspace; the
				// write that would have delivered it failed. Nothing
				// re-queues it, so at least make the loss observable.
				fields["lost_key"] = popped.Key
				fields["lost_value_len"] = len(popped.Value)
			}
			s.log.WithError(err).WithFields(fields).Warn("write failed, closing connection")
			return
		}
	}
}
