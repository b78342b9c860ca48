package lift

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

type closeRecorder struct {
	bytes.Buffer
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return nil
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestLine(t *testing.T) {
	assert.Equal(t, "FLOOR 11\n", Line(11))
	assert.Equal(t, "FLOOR -2\n", Line(-2))
}

func TestWriterSink_Announce(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf)

	require.NoError(t, s.Announce(3))
	require.NoError(t, s.Announce(0))

	assert.Equal(t, "FLOOR 3\nFLOOR 0\n", buf.String())
}

func TestWriterSink_Close(t *testing.T) {
	w := &closeRecorder{}
	s := NewWriterSink(w)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, w.closed)

	err := s.Announce(1)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Empty(t, w.String())
}

func TestWriterSink_WriteError(t *testing.T) {
	s := NewWriterSink(failingWriter{})

	err := s.Announce(4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floor 4")
}

func TestSerialMode(t *testing.T) {
	mode := SerialMode(19200)

	assert.Equal(t, 19200, mode.BaudRate)
	assert.Equal(t, 8, mode.DataBits)
	assert.Equal(t, serial.NoParity, mode.Parity)
	assert.Equal(t, serial.OneStopBit, mode.StopBits)
}

func TestOpenSerial_InvalidArgs(t *testing.T) {
	_, err := OpenSerial("", 9600)
	assert.Error(t, err)

	_, err = OpenSerial("/dev/null-lift", 0)
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	var s Sink = Discard{}
	assert.NoError(t, s.Announce(5))
	assert.NoError(t, s.Close())
}
