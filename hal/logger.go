package hal

import (
	"io"
	"os"
	"sync"
)

type lineLogger struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
}

// NewLogger returns a Logger writing each line to w with an optional prefix.
func NewLogger(w io.Writer, prefix string) Logger {
	return &lineLogger{w: w, prefix: prefix}
}

// NewStderrLogger logs to the process's standard error.
func NewStderrLogger() Logger { return NewLogger(os.Stderr, "fbsplash: ") }

func (l *lineLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.w, l.prefix+s+"\n")
}

func (l *lineLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.w, l.prefix)
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) WriteLineString(string) {}
func (NopLogger) WriteLineBytes([]byte)  {}
