// Command lwp-host connects to a hub emulator as a host.
//
// It sends the requests given as arguments and prints every message the
// hub sends back. Without -addr the hub is found via mDNS.
//
// Usage:
//
//	lwp-host [flags] [request...]
//
// A request is a frame in hex, "info" (request the hub properties) or
// "prop:<id>" (request one property).
//
// Flags:
//
//	-addr string          Hub address host:port; browse mDNS when empty
//	-name string          Hub name to look for via mDNS (default: any)
//	-interface string     Network interface for mDNS
//	-wait duration        Wait this long for a quiet link after the requests (default 1s)
//	-watch                Keep printing until interrupted
//	-log-level string     Log level: debug, info, warn, error (default "warn")
//	-protocol-log string  Write protocol events to this .lwplog file
//
// Examples:
//
//	# Query the emulator on this machine
//	lwp-host -addr localhost:4343 info
//
//	# Start port 0x00 at 50% speed with feedback, then watch
//	lwp-host -name "Move Hub" -watch "09 00 81 00 11 07 32 64 00"
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lego-wireless/lwp-go/pkg/discovery"
	"github.com/lego-wireless/lwp-go/pkg/log"
	"github.com/lego-wireless/lwp-go/pkg/transport"
	"github.com/lego-wireless/lwp-go/pkg/wire"
)

var (
	addr        = flag.String("addr", "", "Hub address host:port; browse mDNS when empty")
	name        = flag.String("name", "", "Hub name to look for via mDNS (default: any)")
	iface       = flag.String("interface", "", "Network interface for mDNS")
	wait        = flag.Duration("wait", time.Second, "Wait this long for a quiet link after the requests")
	watch       = flag.Bool("watch", false, "Keep printing until interrupted")
	logLevel    = flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	protocolLog = flag.String("protocol-log", "", "Write protocol events to this .lwplog file")
)

func main() {
	flag.Parse()
	logger := setupLogging(*logLevel)

	var requests []wire.Message
	for _, arg := range flag.Args() {
		msgs, err := parseRequest(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		requests = append(requests, msgs...)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, requests); err != nil {
		logger.Error("lwp-host failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, requests []wire.Message) error {
	address, err := resolveAddress(ctx, logger)
	if err != nil {
		return err
	}

	var plog log.Logger
	if *protocolLog != "" {
		fl, err := log.NewFileLogger(*protocolLog)
		if err != nil {
			return fmt.Errorf("protocol log: %w", err)
		}
		defer fl.Close()
		plog = fl
	}

	link, err := transport.Dial(ctx, address, transport.StreamConfig{Logger: plog, Slog: logger})
	if err != nil {
		return err
	}
	defer link.Close()
	logger.Info("connected", "address", address, "conn_id", link.ConnID())

	s := newSession(link, os.Stdout, plog)
	link.Start()

	// Let the hub announce its ports first.
	s.quiet(*wait)
	for _, req := range requests {
		if err := s.send(req); err != nil {
			return err
		}
	}
	if !*watch {
		s.quiet(*wait)
		return nil
	}

	select {
	case <-ctx.Done():
	case <-link.Done():
		if err := link.Err(); err != nil {
			return err
		}
		logger.Info("hub disconnected")
	}
	return nil
}

func resolveAddress(ctx context.Context, logger *slog.Logger) (string, error) {
	if *addr != "" {
		return *addr, nil
	}
	browser := discovery.NewBrowser(discovery.BrowserConfig{Interface: *iface})
	svc, err := browser.FindHub(ctx, *name)
	if err != nil {
		if *name != "" {
			return "", fmt.Errorf("hub %q: %w", *name, err)
		}
		return "", err
	}
	logger.Info("found hub",
		"name", svc.Name,
		"instance", svc.InstanceName,
		"system_device", svc.SystemDevice,
		"firmware", svc.Firmware)
	return svc.Address(), nil
}

func setupLogging(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
	slog.SetDefault(logger)
	return logger
}
