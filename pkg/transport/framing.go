package transport

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/lego-wireless/lwp-go/pkg/log"
	"github.com/lego-wireless/lwp-go/pkg/wire"
)

// MinFrameSize is the smallest frame: length, hub id and type.
const MinFrameSize = 3

// Framing errors.
var (
	// ErrFrameLength indicates a declared length that cannot hold a header
	// or that disagrees with the bytes written.
	ErrFrameLength = errors.New("invalid frame length")

	// ErrFrameTruncated indicates the stream ended inside a frame.
	ErrFrameTruncated = errors.New("frame truncated")
)

// frameLogger emits transport-level frame events.
type frameLogger struct {
	logger log.Logger
	connID string
	remote string
}

func (fl *frameLogger) log(frame []byte, dir log.Direction) {
	if fl.logger == nil {
		return
	}
	fl.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: fl.connID,
		Direction:    dir,
		Layer:        log.LayerTransport,
		Category:     log.CategoryMessage,
		RemoteAddr:   fl.remote,
		Frame:        log.NewFrameEvent(frame),
	})
}

// FrameWriter writes complete LWP frames. It is safe for concurrent use.
type FrameWriter struct {
	mu sync.Mutex
	w  io.Writer
	frameLogger
}

func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// SetLogger enables frame logging. Pass nil to disable it.
func (fw *FrameWriter) SetLogger(logger log.Logger, connID string) {
	fw.logger = logger
	fw.connID = connID
}

// WriteFrame writes frame after checking its length field matches its
// size.
func (fw *FrameWriter) WriteFrame(frame []byte) error {
	length, _, err := wire.DecodeLength(frame)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFrameLength, err)
	}
	if length < MinFrameSize || length != len(frame) {
		return fmt.Errorf("%w: declared %d, have %d bytes", ErrFrameLength, length, len(frame))
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()
	if _, err := fw.w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	fw.log(frame, log.DirectionOut)
	return nil
}

// FrameReader splits a byte stream into LWP frames.
type FrameReader struct {
	r   io.Reader
	hdr [2]byte
	frameLogger
}

func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r}
}

// SetLogger enables frame logging. Pass nil to disable it.
func (fr *FrameReader) SetLogger(logger log.Logger, connID string) {
	fr.logger = logger
	fr.connID = connID
}

// ReadFrame returns the next complete frame, length field included.
// It returns io.EOF when the stream ends cleanly between frames.
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	if _, err := io.ReadFull(fr.r, fr.hdr[:1]); err != nil {
		return nil, err
	}
	n := 1
	if fr.hdr[0]&0x80 != 0 {
		if _, err := io.ReadFull(fr.r, fr.hdr[1:2]); err != nil {
			return nil, truncated(err)
		}
		n = 2
	}
	length, _, err := wire.DecodeLength(fr.hdr[:n])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFrameLength, err)
	}
	if length < n+2 {
		return nil, fmt.Errorf("%w: declared %d", ErrFrameLength, length)
	}

	frame := make([]byte, length)
	copy(frame, fr.hdr[:n])
	if _, err := io.ReadFull(fr.r, frame[n:]); err != nil {
		return nil, truncated(err)
	}
	fr.log(frame, log.DirectionIn)
	return frame, nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrFrameTruncated
	}
	return fmt.Errorf("read frame: %w", err)
}

// Framer reads and writes frames on one stream.
type Framer struct {
	*FrameReader
	*FrameWriter
}

func NewFramer(rw io.ReadWriter) *Framer {
	return &Framer{
		FrameReader: NewFrameReader(rw),
		FrameWriter: NewFrameWriter(rw),
	}
}

// SetLogger enables frame logging in both directions.
func (f *Framer) SetLogger(logger log.Logger, connID string) {
	f.FrameReader.SetLogger(logger, connID)
	f.FrameWriter.SetLogger(logger, connID)
}

func (f *Framer) setRemote(addr string) {
	f.FrameReader.remote = addr
	f.FrameWriter.remote = addr
}
