package server

import (
	"os"
	"sync"
	"sync/atomic"
)

// State is the shutdown state of a server.
type State int32

const (
	Running State = iota
	ShutdownRequested
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case ShutdownRequested:
		return "shutdown requested"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

// Coordinator defers shutdown requests until the connection being processed, if any, is closed.
//
// Request may be called from any goroutine. It only flips atomic state and closes a channel, all
// the visible work (closing the listener, printing the report) happens on the serving goroutine.
// The shutdown state and the processing mark share one word, so a request and the start of a
// connection are always ordered one way or the other.
type Coordinator struct {
	word      int32
	once      sync.Once
	interrupt chan struct{}
}

// set in word while a connection is in progress, the low bits hold the State
const processingBit int32 = 1 << 8

func NewCoordinator() *Coordinator {
	return &Coordinator{interrupt: make(chan struct{})}
}

// update applies f to the word until it wins the race against other updates.
func (c *Coordinator) update(f func(w int32) (int32, bool)) int32 {
	for {
		old := atomic.LoadInt32(&c.word)
		w, ok := f(old)
		if !ok || atomic.CompareAndSwapInt32(&c.word, old, w) {
			return w
		}
	}
}

// Request asks the server to stop and returns the resulting state:
// ShutdownRequested if a connection is in progress, Terminated otherwise.
func (c *Coordinator) Request() State {
	w := c.update(func(w int32) (int32, bool) {
		if State(w&^processingBit) != Running {
			return w, false
		}
		if w&processingBit != 0 {
			return processingBit | int32(ShutdownRequested), true
		}
		return int32(Terminated), true
	})
	c.once.Do(func() { close(c.interrupt) })
	return State(w &^ processingBit)
}

// Interrupted is closed on the first request.
func (c *Coordinator) Interrupted() <-chan struct{} {
	return c.interrupt
}

func (c *Coordinator) State() State {
	return State(atomic.LoadInt32(&c.word) &^ processingBit)
}

// Requested reports whether the server must stop accepting connections.
func (c *Coordinator) Requested() bool {
	return c.State() != Running
}

// Begin marks a connection as in progress. It returns false, leaving the mark unset, when the
// server was already terminated by a request made while idle.
func (c *Coordinator) Begin() bool {
	w := c.update(func(w int32) (int32, bool) {
		if State(w&^processingBit) == Terminated {
			return w, false
		}
		return w | processingBit, true
	})
	return w&processingBit != 0
}

// End marks the connection in progress as closed.
func (c *Coordinator) End() {
	c.update(func(w int32) (int32, bool) {
		return w &^ processingBit, true
	})
}

func (c *Coordinator) Processing() bool {
	return atomic.LoadInt32(&c.word)&processingBit != 0
}

func (c *Coordinator) finish() {
	c.update(func(w int32) (int32, bool) {
		return w&processingBit | int32(Terminated), true
	})
}

// Watch turns every signal received on sigs into a shutdown request, until stop is closed.
// Its signature fits a workgroup.Group.
func (c *Coordinator) Watch(stop <-chan struct{}, sigs <-chan os.Signal) error {
	for {
		select {
		case <-stop:
			return nil
		case <-sigs:
			c.Request()
		}
	}
}
