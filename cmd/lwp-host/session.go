package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lego-wireless/lwp-go/pkg/log"
	"github.com/lego-wireless/lwp-go/pkg/transport"
	"github.com/lego-wireless/lwp-go/pkg/wire"
)

// session sends host requests over a link and prints what the hub sends
// back.
type session struct {
	link  *transport.StreamLink
	plog  log.Logger
	start time.Time
	nowFn func() time.Time

	// seen is signalled for every incoming frame.
	seen chan struct{}

	outMu sync.Mutex
	out   io.Writer
}

func newSession(link *transport.StreamLink, out io.Writer, plog log.Logger) *session {
	s := &session{
		link:  link,
		out:   out,
		plog:  log.OrNoop(plog),
		seen:  make(chan struct{}, 1),
		nowFn: time.Now,
	}
	s.start = s.nowFn()
	link.OnIncoming(s.receive)
	return s
}

func (s *session) receive(frame []byte) {
	msg, err := wire.Decode(frame)
	s.outMu.Lock()
	elapsed := s.nowFn().Sub(s.start).Round(time.Millisecond)
	if err != nil {
		fmt.Fprintf(s.out, "%8s  <- error: %v (% X)\n", elapsed, err, frame)
	} else {
		fmt.Fprintf(s.out, "%8s  <- %s\n", elapsed, msg)
	}
	s.outMu.Unlock()

	if err == nil {
		s.logMessage(log.DirectionIn, msg)
	}
	select {
	case s.seen <- struct{}{}:
	default:
	}
}

// send writes one request.
func (s *session) send(msg wire.Message) error {
	frame, err := wire.Encode(msg)
	if err != nil {
		return err
	}
	s.outMu.Lock()
	fmt.Fprintf(s.out, "%8s  -> %s\n", s.nowFn().Sub(s.start).Round(time.Millisecond), msg)
	s.outMu.Unlock()

	if err := s.link.Notify(frame); err != nil {
		return err
	}
	s.logMessage(log.DirectionOut, msg)
	return nil
}

// quiet waits until no frame arrived for d, or the link closed.
func (s *session) quiet(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case <-s.seen:
			timer.Reset(d)
		case <-timer.C:
			return
		case <-s.link.Done():
			return
		}
	}
}

func (s *session) logMessage(dir log.Direction, msg wire.Message) {
	s.plog.Log(log.Event{
		Timestamp:    s.nowFn(),
		ConnectionID: s.link.ConnID(),
		Direction:    dir,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		LocalRole:    log.RoleHost,
		Message:      log.NewMessageEvent(msg),
	})
}

// infoProperties are the properties requested by the "info" request.
var infoProperties = []wire.Property{
	wire.PropAdvertisingName,
	wire.PropFWVersion,
	wire.PropHWVersion,
	wire.PropBatteryVoltage,
	wire.PropManufacturerName,
	wire.PropLWPVersion,
	wire.PropSystemTypeID,
	wire.PropPrimaryMAC,
}

// parseRequest turns a command line argument into messages. It accepts
// a hex frame, "info" or "prop:<id>".
func parseRequest(arg string) ([]wire.Message, error) {
	switch {
	case arg == "info":
		msgs := make([]wire.Message, len(infoProperties))
		for i, p := range infoProperties {
			msgs[i] = &wire.HubProperty{Property: p, Operation: wire.PropOpRequestUpdate}
		}
		return msgs, nil
	case strings.HasPrefix(arg, "prop:"):
		id, err := strconv.ParseUint(strings.TrimPrefix(arg, "prop:"), 0, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid property in %q", arg)
		}
		return []wire.Message{&wire.HubProperty{Property: wire.Property(id), Operation: wire.PropOpRequestUpdate}}, nil
	}

	data, err := parseHex(arg)
	if err != nil {
		return nil, err
	}
	msg, err := wire.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", arg, err)
	}
	return []wire.Message{msg}, nil
}

func parseHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.NewReplacer(" ", "", ":", "", "0x", "").Replace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q", s)
	}
	return b, nil
}
