package out

import (
	"bufio"
	"bytes"
	"sync"
)

// BufferWriter collects output in memory, mostly for tests.
// It is safe to write to it from the logger and read it from the test goroutine.
type BufferWriter struct {
	mu sync.Mutex
	b  *bytes.Buffer
	w  *bufio.Writer
}

func NewBufferWriter() *BufferWriter {
	var b bytes.Buffer
	return &BufferWriter{b: &b, w: bufio.NewWriter(&b)}
}

func (bw *BufferWriter) Write(p []byte) (nn int, err error) {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	return bw.w.Write(p)
}

func (bw *BufferWriter) String() string {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	bw.w.Flush()
	return bw.b.String()
}
