package wire

import (
	"io"
	"net"
	"syscall"

	"github.com/pkg/errors"
)

// ErrAborted matches every error caused by the peer going away.
var ErrAborted = errors.New("connection aborted")

// consecutive operations transferring nothing before giving up
const maxEmptyOps = 100

type abortError struct {
	op    string
	cause error
}

func (e *abortError) Error() string {
	return e.op + ": " + ErrAborted.Error() + ": " + e.cause.Error()
}

func (e *abortError) Is(target error) bool { return target == ErrAborted }
func (e *abortError) Unwrap() error        { return e.cause }
func (e *abortError) Cause() error         { return e.cause }

// IsAborted reports whether err is a disconnect of the peer, as opposed to a fatal error.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted)
}

// isDisconnect covers orderly close, reset, broken pipe and timeouts.
func isDisconnect(err error) bool {
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.ErrClosedPipe):
		return true
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.EPIPE), errors.Is(err, syscall.ETIMEDOUT):
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func classify(op string, err error) error {
	if isDisconnect(err) {
		return &abortError{op: op, cause: err}
	}
	return errors.Wrap(err, op)
}

// SendExact writes all of p to w, retrying on short writes.
func SendExact(w io.Writer, p []byte) error {
	var sent, empty int
	for sent < len(p) {
		n, err := w.Write(p[sent:])
		if n > 0 {
			sent += n
			empty = 0
		}
		if err != nil {
			return classify("send", err)
		}
		if n <= 0 {
			if empty++; empty >= maxEmptyOps {
				return errors.Wrap(io.ErrNoProgress, "send")
			}
		}
	}
	return nil
}

// RecvExact fills p from r. As with io.ReadFull, an error coming with the last missing bytes is
// not reported.
func RecvExact(r io.Reader, p []byte) error {
	var got int
	for got < len(p) {
		n, err := Recv(r, p[got:])
		got += n
		if err != nil && got < len(p) {
			return err
		}
	}
	return nil
}

// Recv performs a single receive of at most len(p) bytes and returns how many arrived.
// Like io.Reader.Read it may return n > 0 together with an error, callers must consume the n bytes
// before looking at the error. It only returns 0 bytes and no error when p is empty.
func Recv(r io.Reader, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for empty := 0; empty < maxEmptyOps; empty++ {
		n, err := r.Read(p)
		if err != nil {
			return n, classify("receive", err)
		}
		if n > 0 {
			return n, nil
		}
	}
	return 0, errors.Wrap(io.ErrNoProgress, "receive")
}
