// Package client sends a file to a pcc server and gets back how many printable characters it has.
package client

import (
	"context"
	"io"
	"math"
	"net"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/elastic/hey-pcc/models"
	"github.com/elastic/hey-pcc/wire"
)

const DefaultChunkSize = 1000 * 1000

// Result of sending a file to the server.
type Result struct {
	// Printable characters counted by the server
	Printable uint32
	// Payload bytes sent
	Sent uint64
	Elapsed time.Duration
}

// Run connects to the server and sends it the file at in.Path.
// There is no retry: every error, including the server going away, is final.
func Run(ctx context.Context, in models.ClientInput) (Result, error) {
	f, err := os.Open(in.Path)
	if err != nil {
		return Result{}, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Result{}, errors.Wrap(err, "obtaining file size")
	}
	if info.Size() > math.MaxUint32 {
		return Result{}, errors.Errorf("%s is %d bytes long, at most %d can be sent", in.Path, info.Size(), uint32(math.MaxUint32))
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp4", in.Addr())
	if err != nil {
		return Result{}, errors.Wrap(err, "connecting to server")
	}
	defer conn.Close()

	if in.Timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(in.Timeout)); err != nil {
			return Result{}, errors.Wrap(err, "setting connection deadline")
		}
	}
	return Send(conn, f, uint32(info.Size()), in.ChunkSize)
}

// Send runs the client side of the protocol over rw: it sends length bytes read from src in chunks of
// at most chunkSize bytes, then waits for the count.
func Send(rw io.ReadWriter, src io.Reader, length uint32, chunkSize int) (Result, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	start := time.Now()
	result := Result{}

	header := wire.EncodeU32(length)
	if err := wire.SendExact(rw, header[:]); err != nil {
		return result, errors.Wrap(err, "sending file length")
	}

	if uint64(chunkSize) > uint64(length) {
		chunkSize = int(length)
	}
	buf := make([]byte, chunkSize)
	for result.Sent < uint64(length) {
		chunk := buf
		if remaining := uint64(length) - result.Sent; remaining < uint64(len(chunk)) {
			chunk = chunk[:remaining]
		}
		n, err := io.ReadFull(src, chunk)
		if err != nil {
			return result, errors.Wrapf(err, "reading file after %d bytes", result.Sent)
		}
		if err := wire.SendExact(rw, chunk[:n]); err != nil {
			return result, errors.Wrap(err, "sending file")
		}
		result.Sent += uint64(n)
	}

	var count [wire.HeaderSize]byte
	if err := wire.RecvExact(rw, count[:]); err != nil {
		return result, errors.Wrap(err, "receiving the count of printable characters")
	}
	result.Printable = wire.DecodeU32(count)
	result.Elapsed = time.Since(start)
	return result, nil
}
