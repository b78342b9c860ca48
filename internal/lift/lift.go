// Package lift forwards confirmed floors to an external lift controller.
package lift

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"
)

// ErrClosed is returned when announcing on a closed sink.
var ErrClosed = errors.New("lift sink closed")

// Sink receives every confirmed floor.
type Sink interface {
	Announce(floor int) error
	Close() error
}

// Line formats a floor announcement as sent on the wire.
func Line(floor int) string {
	return fmt.Sprintf("FLOOR %d\n", floor)
}

// WriterSink writes announcements to any io.Writer, e.g. a log file or a
// test buffer.
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	closed bool
}

// NewWriterSink wraps w. If w is an io.Closer it is closed by Close.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Announce writes one floor line.
func (s *WriterSink) Announce(floor int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, err := io.WriteString(s.w, Line(floor)); err != nil {
		return fmt.Errorf("failed to announce floor %d: %w", floor, err)
	}
	return nil
}

// Close marks the sink closed and closes the underlying writer when possible.
func (s *WriterSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// SerialMode returns the 8N1 mode used for the lift controller link.
func SerialMode(baud int) *serial.Mode {
	return &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// OpenSerial opens the lift controller port and returns a sink writing to it.
func OpenSerial(path string, baud int) (*WriterSink, error) {
	if path == "" {
		return nil, errors.New("serial port path is empty")
	}
	if baud <= 0 {
		return nil, fmt.Errorf("invalid baud rate %d", baud)
	}

	port, err := serial.Open(path, SerialMode(baud))
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", path, err)
	}

	return NewWriterSink(port), nil
}

// Discard is a Sink that drops every announcement.
type Discard struct{}

func (Discard) Announce(int) error { return nil }
func (Discard) Close() error       { return nil }
