package out

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger prefixes messages with their level.
// It satisfies apm.Logger, so the same logger is handed to the tracer.
type Logger struct {
	*log.Logger
	verbose bool
}

// NewLogger returns a Logger writing to stderr, with debug messages only if verbose is true.
func NewLogger(verbose bool) *Logger {
	return NewLoggerTo(os.Stderr, verbose)
}

func NewLoggerTo(w io.Writer, verbose bool) *Logger {
	return &Logger{
		Logger:  log.New(w, "", log.Ldate|log.Ltime|log.Lshortfile),
		verbose: verbose,
	}
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Output(2, fmt.Sprintf("[info] "+format, args...))
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.verbose {
		l.Output(2, fmt.Sprintf("[debug] "+format, args...))
	}
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Output(2, fmt.Sprintf("[error] "+format, args...))
}
