package server

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.elastic.co/apm/apmtest"

	"github.com/elastic/hey-pcc/out"
)

type pipeAddr struct{}

func (pipeAddr) Network() string { return "pipe" }
func (pipeAddr) String() string  { return "pipe" }

// pipeListener hands out in-memory connections, whose writes block until the other end reads them
type pipeListener struct {
	conns  chan net.Conn
	closed chan struct{}
	once   sync.Once
}

func newPipeListener() *pipeListener {
	return &pipeListener{conns: make(chan net.Conn), closed: make(chan struct{})}
}

func (l *pipeListener) Accept() (net.Conn, error) {
	select {
	case c := <-l.conns:
		return c, nil
	case <-l.closed:
		return nil, net.ErrClosed
	}
}

func (l *pipeListener) Close() error {
	l.once.Do(func() { close(l.closed) })
	return nil
}

func (l *pipeListener) Addr() net.Addr { return pipeAddr{} }

// dial returns the client end of a connection once the server accepted it.
func (l *pipeListener) dial(t *testing.T) net.Conn {
	c1, c2 := net.Pipe()
	l.push(t, c2)
	return c1
}

func (l *pipeListener) push(t *testing.T, conn net.Conn) {
	select {
	case l.conns <- conn:
	case <-time.After(time.Second):
		t.Fatal("server is not accepting connections")
	}
}

func newTestServer(cfg Config, metrics *Metrics) (*Server, *out.BufferWriter) {
	bw := out.NewBufferWriter()
	return New(cfg, out.NewLoggerTo(bw, true), apmtest.DiscardTracer, metrics), bw
}

// serve runs s in the background, the returned channel gets the result of Serve
func serve(s *Server, ln net.Listener) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ln)
	}()
	return done
}

func waitServe(t *testing.T, done <-chan error) error {
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("server didn't stop")
		return nil
	}
}

func stop(t *testing.T, s *Server, done <-chan error) {
	s.Coordinator().Request()
	require.NoError(t, waitServe(t, done))
}
