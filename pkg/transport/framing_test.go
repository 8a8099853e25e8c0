package transport

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lego-wireless/lwp-go/pkg/log"
)

// hubPropertyFrame is a RequestUpdate for the advertising name.
var hubPropertyFrame = []byte{0x05, 0x00, 0x01, 0x01, 0x05}

func longFrame(total int) []byte {
	f := make([]byte, total)
	f[0] = byte(total>>8) | 0x80
	f[1] = byte(total)
	f[2] = 0x00
	f[3] = 0x45
	return f
}

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
	}{
		{"short", hubPropertyFrame},
		{"header only", []byte{0x03, 0x00, 0x02}},
		{"escaped length", longFrame(200)},
		{"largest", longFrame(0x7FFF)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewFrameWriter(&buf).WriteFrame(tt.frame))
			assert.Equal(t, len(tt.frame), buf.Len())

			got, err := NewFrameReader(&buf).ReadFrame()
			require.NoError(t, err)
			assert.Equal(t, tt.frame, got)
		})
	}
}

func TestFrameReaderSequence(t *testing.T) {
	stream := append(append([]byte{}, hubPropertyFrame...), longFrame(130)...)
	stream = append(stream, 0x03, 0x00, 0x02)
	r := NewFrameReader(bytes.NewReader(stream))

	f1, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, hubPropertyFrame, f1)

	f2, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Len(t, f2, 130)

	f3, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x03, 0x00, 0x02}, f3)

	_, err = r.ReadFrame()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFrameReaderErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"length below header", []byte{0x02, 0x00}, ErrFrameLength},
		{"zero length", []byte{0x00}, ErrFrameLength},
		{"truncated body", []byte{0x05, 0x00, 0x01}, ErrFrameTruncated},
		{"truncated escape", []byte{0x80}, ErrFrameTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFrameReader(bytes.NewReader(tt.data)).ReadFrame()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFrameWriterRejectsBadLength(t *testing.T) {
	var buf bytes.Buffer
	w := NewFrameWriter(&buf)

	assert.ErrorIs(t, w.WriteFrame(nil), ErrFrameLength)
	assert.ErrorIs(t, w.WriteFrame([]byte{0x06, 0x00, 0x01, 0x01, 0x05}), ErrFrameLength)
	assert.ErrorIs(t, w.WriteFrame([]byte{0x02, 0x00}), ErrFrameLength)
	assert.Zero(t, buf.Len())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("boom") }

func TestFrameWriterPropagatesWriteError(t *testing.T) {
	err := NewFrameWriter(failingWriter{}).WriteFrame(hubPropertyFrame)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

type captureLogger struct {
	events chan log.Event
}

func newCaptureLogger() *captureLogger {
	return &captureLogger{events: make(chan log.Event, 64)}
}

func (c *captureLogger) Log(e log.Event) { c.events <- e }

func TestFramerLogsFrames(t *testing.T) {
	var buf bytes.Buffer
	logger := newCaptureLogger()
	f := NewFramer(&buf)
	f.SetLogger(logger, "conn-1")

	require.NoError(t, f.WriteFrame(hubPropertyFrame))
	_, err := f.ReadFrame()
	require.NoError(t, err)

	out := <-logger.events
	in := <-logger.events
	assert.Equal(t, log.DirectionOut, out.Direction)
	assert.Equal(t, log.DirectionIn, in.Direction)
	for _, ev := range []log.Event{out, in} {
		assert.Equal(t, "conn-1", ev.ConnectionID)
		assert.Equal(t, log.LayerTransport, ev.Layer)
		require.NotNil(t, ev.Frame)
		assert.Equal(t, 5, ev.Frame.Size)
		assert.Equal(t, hubPropertyFrame, ev.Frame.Data)
	}
}
