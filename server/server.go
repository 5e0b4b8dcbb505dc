package server

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/pkg/errors"
	"go.elastic.co/apm"

	"github.com/elastic/hey-pcc/conv"
	"github.com/elastic/hey-pcc/out"
	"github.com/elastic/hey-pcc/pcc"
	"github.com/elastic/hey-pcc/wire"
)

// DefaultChunkSize is the size of the buffer payloads are received into.
const DefaultChunkSize = 1000 * 1000

// Outcome tells whether a connection went through all the protocol phases.
type Outcome int

const (
	Completed Outcome = iota
	Aborted
)

func (o Outcome) String() string {
	if o == Completed {
		return "completed"
	}
	return "aborted"
}

// Config holds the tunables of a Server.
type Config struct {
	// Receive buffer size, DefaultChunkSize if not positive
	ChunkSize int
	// Deadline for all the I/O of a connection, none if zero
	Timeout time.Duration
}

// Stats counts connections by outcome.
type Stats struct {
	Completed uint64
	Aborted   uint64
}

// Server serves one connection at a time and accumulates the printable characters of every
// connection whose result was delivered.
type Server struct {
	logger      *out.Logger
	tracer      *apm.Tracer
	metrics     *Metrics
	coordinator *Coordinator

	buf     []byte
	timeout time.Duration

	// only touched by the goroutine running Serve
	table pcc.Table
	stats Stats
}

// New returns a Server. metrics may be nil.
func New(cfg Config, logger *out.Logger, tracer *apm.Tracer, metrics *Metrics) *Server {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	return &Server{
		logger:      logger,
		tracer:      tracer,
		metrics:     metrics,
		coordinator: NewCoordinator(),
		buf:         make([]byte, cfg.ChunkSize),
		timeout:     cfg.Timeout,
	}
}

func (s *Server) Coordinator() *Coordinator {
	return s.coordinator
}

// Table must not be read while Serve is running.
func (s *Server) Table() *pcc.Table {
	return &s.table
}

func (s *Server) Stats() Stats {
	return s.stats
}

// WriteReport writes the counter table, one line per printable character.
func (s *Server) WriteReport(w io.Writer) error {
	return s.table.WriteReport(w)
}

// Serve accepts connections on ln and handles them sequentially, until a shutdown is requested.
// It returns nil after an orderly shutdown, or the first fatal error. ln is closed on return.
func (s *Server) Serve(ln net.Listener) error {
	defer ln.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		// wakes up Accept, the connection being processed has its own socket
		select {
		case <-s.coordinator.Interrupted():
			ln.Close()
		case <-done:
		}
	}()

	s.logger.Infof("accepting connections on %s", ln.Addr())
	for !s.coordinator.Requested() {
		conn, err := ln.Accept()
		if err != nil {
			if s.coordinator.Requested() {
				break
			}
			return errors.Wrap(err, "accepting connection")
		}

		if !s.coordinator.Begin() {
			// requested while idle, right before this connection arrived
			conn.Close()
			break
		}
		if err := s.handle(conn); err != nil {
			return err
		}
	}
	s.coordinator.finish()
	s.logger.Infof("shutting down after %d completed and %d aborted connections",
		s.stats.Completed, s.stats.Aborted)
	return nil
}

// handle runs a connection to completion, closes it and clears the processing mark.
// Disconnects are not errors, they only skip the accumulation.
func (s *Server) handle(conn net.Conn) error {
	defer s.coordinator.End()
	defer conn.Close()

	tx := s.tracer.StartTransaction("pcc connection", "request")
	defer tx.End()
	ctx := apm.ContextWithTransaction(context.Background(), tx)

	if s.timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(s.timeout)); err != nil {
			return errors.Wrap(err, "setting connection deadline")
		}
	}

	var counts pcc.Counts
	length, err := s.exchange(ctx, conn, &counts)
	tx.Context.SetLabel("payload_length", length)

	outcome := Completed
	switch {
	case wire.IsAborted(err):
		outcome = Aborted
		s.stats.Aborted++
		s.logger.Debugf("%s: %s", conn.RemoteAddr(), err.Error())
	case err != nil:
		tx.Result = "failed"
		e := s.tracer.NewError(err)
		e.SetTransaction(tx)
		e.Send()
		return errors.Wrapf(err, "serving %s", conn.RemoteAddr())
	default:
		span, _ := apm.StartSpan(ctx, "accumulate", "pcc")
		s.table.Fold(&counts)
		span.End()
		s.stats.Completed++
		s.logger.Debugf("%s: %d printable characters out of %s",
			conn.RemoteAddr(), counts.Total(), conv.ByteCountDecimal(int64(length)))
	}
	tx.Result = outcome.String()
	s.metrics.closed(outcome, counts.Total())
	return nil
}

// exchange receives the length header and the payload, counting it as it arrives, then sends the result.
// It returns the announced payload length.
func (s *Server) exchange(ctx context.Context, conn net.Conn, counts *pcc.Counts) (uint32, error) {
	var header [wire.HeaderSize]byte
	span, _ := apm.StartSpan(ctx, "receive length", "pcc")
	err := wire.RecvExact(conn, header[:])
	span.End()
	if err != nil {
		return 0, errors.Wrap(err, "receiving payload length")
	}
	length := wire.DecodeU32(header)

	span, _ = apm.StartSpan(ctx, "receive payload", "pcc")
	err = s.receivePayload(conn, length, counts)
	span.End()
	if err != nil {
		return length, errors.Wrap(err, "receiving payload")
	}

	result := wire.EncodeU32(counts.Total())
	span, _ = apm.StartSpan(ctx, "send result", "pcc")
	err = wire.SendExact(conn, result[:])
	span.End()
	return length, errors.Wrap(err, "sending result")
}

// receivePayload never reads past length, and counts exactly the bytes it accounts for.
func (s *Server) receivePayload(r io.Reader, length uint32, counts *pcc.Counts) error {
	for remaining := length; remaining > 0; {
		chunk := s.buf
		if uint64(remaining) < uint64(len(chunk)) {
			chunk = chunk[:remaining]
		}
		n, err := wire.Recv(r, chunk)
		counts.Add(chunk[:n])
		remaining -= uint32(n)
		s.metrics.received(n)
		if err != nil && remaining > 0 {
			return err
		}
	}
	return nil
}
