// Package interactive provides the operator console of the hub emulator.
package interactive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/lego-wireless/lwp-go/pkg/hub"
	"github.com/lego-wireless/lwp-go/pkg/wire"
)

// Console reads operator commands and applies them to a hub.
type Console struct {
	rl  *readline.Instance
	out io.Writer
	hub *hub.Hub
}

// New creates the console. Its Stdout and Stderr writers can be used for
// log output before Run starts.
func New() (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "hub> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Console{rl: rl, out: rl.Stdout()}, nil
}

// Executor returns a function that runs one command line against h and
// returns what the command printed. It serves commands that do not come
// from a terminal.
func Executor(h *hub.Hub) func(line string) (string, bool) {
	var mu sync.Mutex
	var buf bytes.Buffer
	c := &Console{out: &buf, hub: h}

	return func(line string) (string, bool) {
		mu.Lock()
		defer mu.Unlock()

		parts := strings.Fields(line)
		if len(parts) == 0 {
			return "", false
		}
		buf.Reset()
		quit := c.Exec(parts[0], parts[1:])
		return strings.TrimSpace(buf.String()), quit
	}
}

// Stdout returns a writer that coordinates with the prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Stderr returns a writer that coordinates with the prompt.
func (c *Console) Stderr() io.Writer {
	return c.rl.Stderr()
}

// Run reads commands until the operator quits or ctx ends.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc, h *hub.Hub) {
	defer c.rl.Close()
	c.hub = h

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		if quit := c.Exec(parts[0], parts[1:]); quit {
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}
	}
}

// Exec runs one command. It returns true when the operator asked to quit.
func (c *Console) Exec(cmd string, args []string) bool {
	var err error
	switch strings.ToLower(cmd) {
	case "help", "?":
		c.printHelp()
	case "status", "s":
		c.cmdStatus()
	case "button", "b":
		err = c.cmdButton(args)
	case "battery":
		err = c.cmdBattery(args)
	case "rssi":
		err = c.cmdRSSI(args)
	case "alert":
		err = c.cmdAlert(args)
	case "attach":
		err = c.cmdAttach(args)
	case "detach":
		err = c.cmdDetach(args)
	case "value", "v":
		err = c.cmdValue(args)
	case "interrupt":
		err = c.cmdInterrupt(args)
	case "adv":
		c.cmdAdvertising()
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
	return false
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
LWP Hub Commands:
  Hub:
    status                      - Show hub, subscriptions and ports
    button press|release|click  - Operate the green button
    battery <percent>           - Set the battery level
    rssi <dBm>                  - Set the signal strength
    alert <alert> on|off        - Raise or clear an alert (LowVoltage, HighCurrent, LowSignal, OverPower)
    adv                         - Show the advertising manufacturer data

  Ports:
    attach <port> <io-type>     - Attach a device (io type by name or number)
    detach <port>               - Detach the device on a port
    value <port> <n> [u8|u16|u32|f32] - Set a sensor value
    interrupt <port>            - Discard the port's running and buffered commands

  General:
    help                        - Show this help
    quit                        - Exit the emulator`)
}

func (c *Console) cmdStatus() {
	st := c.hub.Status()
	w := c.out

	state := "advertising"
	if st.Connected {
		state = "connected"
	}
	fmt.Fprintf(w, "Hub:       %s (%s)\n", st.Name, state)
	fmt.Fprintf(w, "Button:    %v\n", st.Button)
	fmt.Fprintf(w, "Battery:   %d%%\n", st.Battery)
	fmt.Fprintf(w, "Network:   id %d, family %s\n", st.NetworkID, st.NetworkFamily)
	fmt.Fprintf(w, "Busy LED:  %v  VCC: %v\n", st.BusyIndicator, st.VCCPortControl)
	if len(st.Subscriptions) > 0 {
		names := make([]string, len(st.Subscriptions))
		for i, p := range st.Subscriptions {
			names[i] = p.String()
		}
		fmt.Fprintf(w, "Updates:   %s\n", strings.Join(names, ", "))
	}
	if len(st.Alerts) > 0 {
		names := make([]string, len(st.Alerts))
		for i, a := range st.Alerts {
			names[i] = a.String()
		}
		fmt.Fprintf(w, "Alerts:    %s\n", strings.Join(names, ", "))
	}

	fmt.Fprintln(w, "\nPORT  IO TYPE                     BUFFER      FORMAT")
	for _, p := range st.Ports {
		ioType := p.IOType.String()
		if p.Virtual {
			ioType = fmt.Sprintf("virtual 0x%02X+0x%02X", p.A, p.B)
		}
		format := "-"
		if f := p.Format; f != nil {
			format = fmt.Sprintf("mode %d delta %d notify %v", f.Mode, f.Delta, f.Notification)
		}
		fmt.Fprintf(w, "0x%02X  %-26s  %-10s  %s\n", p.ID, ioType, p.Buffer, format)
	}
}

func (c *Console) cmdButton(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: button press|release|click")
	}
	switch strings.ToLower(args[0]) {
	case "press":
		c.hub.PressButton()
	case "release":
		c.hub.ReleaseButton()
	case "click":
		c.hub.PressButton()
		c.hub.ReleaseButton()
	default:
		return fmt.Errorf("unknown button action %q", args[0])
	}
	return nil
}

func (c *Console) cmdBattery(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: battery <percent>")
	}
	pct, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		return fmt.Errorf("invalid percent %q", args[0])
	}
	return c.hub.SetBattery(uint8(pct))
}

func (c *Console) cmdRSSI(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: rssi <dBm>")
	}
	dbm, err := strconv.ParseInt(args[0], 10, 8)
	if err != nil {
		return fmt.Errorf("invalid dBm %q", args[0])
	}
	c.hub.SetRSSI(int8(dbm))
	return nil
}

func (c *Console) cmdAlert(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: alert <alert> on|off")
	}
	alert, err := parseAlert(args[0])
	if err != nil {
		return err
	}
	switch strings.ToLower(args[1]) {
	case "on":
		return c.hub.RaiseAlert(alert, true)
	case "off":
		return c.hub.RaiseAlert(alert, false)
	default:
		return fmt.Errorf("expected on or off, got %q", args[1])
	}
}

func (c *Console) cmdAttach(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: attach <port> <io-type>")
	}
	portID, err := parsePort(args[0])
	if err != nil {
		return err
	}
	var ioType wire.IOType
	if err := ioType.UnmarshalText([]byte(args[1])); err != nil {
		return err
	}

	// Reuse the mode table of a profile port with the same device.
	def := hub.PortDef{ID: portID, IOType: ioType}
	for _, p := range c.hub.Profile().Ports {
		if p.IOType == ioType {
			def = p
			def.ID = portID
			break
		}
	}
	if err := c.hub.Attach(def); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Attached %s to port 0x%02X\n", ioType, portID)
	return nil
}

func (c *Console) cmdDetach(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: detach <port>")
	}
	portID, err := parsePort(args[0])
	if err != nil {
		return err
	}
	return c.hub.Detach(portID)
}

func (c *Console) cmdValue(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("usage: value <port> <n> [u8|u16|u32|f32]")
	}
	portID, err := parsePort(args[0])
	if err != nil {
		return err
	}
	kind := "u8"
	if len(args) == 3 {
		kind = strings.ToLower(args[2])
	}
	v, err := parseValue(args[1], kind)
	if err != nil {
		return err
	}

	sent, err := c.hub.SendValue(portID, v)
	if err != nil {
		return err
	}
	if sent {
		fmt.Fprintf(c.out, "Reported %s on port 0x%02X\n", v, portID)
	} else {
		fmt.Fprintf(c.out, "Stored %s on port 0x%02X (not reported)\n", v, portID)
	}
	return nil
}

func (c *Console) cmdInterrupt(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: interrupt <port>")
	}
	portID, err := parsePort(args[0])
	if err != nil {
		return err
	}
	return c.hub.Interrupt(portID)
}

func (c *Console) cmdAdvertising() {
	ad := c.hub.AdvertisingData()
	fmt.Fprintf(c.out, "Manufacturer 0x%04X: % X\n", wire.ManufacturerID, ad.Bytes())
}

func parsePort(s string) (uint8, error) {
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	return uint8(n), nil
}

func parseAlert(s string) (wire.AlertType, error) {
	name := strings.ToLower(s)
	for a := wire.AlertLowVoltage; a <= wire.AlertOverPower && name != ""; a++ {
		if strings.HasPrefix(strings.ToLower(a.String()), name) {
			return a, nil
		}
	}
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil || n < uint64(wire.AlertLowVoltage) || n > uint64(wire.AlertOverPower) {
		return 0, fmt.Errorf("unknown alert %q", s)
	}
	return wire.AlertType(n), nil
}

// parseValue reads s as a value of the given width. Negative integers
// are stored in two's complement.
func parseValue(s, kind string) (wire.Value, error) {
	if kind == "f32" {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return wire.Value{}, fmt.Errorf("invalid number %q", s)
		}
		return wire.F32(float32(f)), nil
	}

	bits := map[string]int{"u8": 8, "u16": 16, "u32": 32}[kind]
	if bits == 0 {
		return wire.Value{}, fmt.Errorf("unknown value type %q", kind)
	}
	n, err := strconv.ParseInt(s, 0, bits+1)
	if err != nil || n < -(1<<(bits-1)) {
		return wire.Value{}, fmt.Errorf("%q does not fit %s", s, kind)
	}
	switch bits {
	case 8:
		return wire.U8(uint8(n)), nil
	case 16:
		return wire.U16(uint16(n)), nil
	default:
		return wire.U32(uint32(n)), nil
	}
}
