package logger

import (
	"io"
	"log"
	"os"
)

// Logger wraps the standard log.Logger. Run messages and match output go
// through one of these so a mining session can be tracked in a file as
// well as on the console.
type Logger struct {
	*log.Logger
	closer io.Closer
}

// New creates a logger writing to stdout.
func New() *Logger {
	return &Logger{Logger: log.New(os.Stdout, "", log.LstdFlags)}
}

// NewWriter creates a logger writing to w.
func NewWriter(w io.Writer) *Logger {
	return &Logger{Logger: log.New(w, "", log.LstdFlags)}
}

// NewFile creates a logger appending to the named file, with microsecond
// timestamps for rate debugging.
func NewFile(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return nil, err
	}
	l := &Logger{
		Logger: log.New(f, "", log.LstdFlags|log.Lmicroseconds),
		closer: f,
	}
	return l, nil
}

// Close releases the underlying file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
