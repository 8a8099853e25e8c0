// Command lwp-hub emulates a LEGO Wireless Protocol hub.
//
// The emulator answers a host over TCP or a serial port. What it reports
// comes from a hub profile; the embedded move_hub profile emulates a
// Boost Move Hub.
//
// Usage:
//
//	lwp-hub [flags]
//
// Flags:
//
//	-listen string            TCP listen address (default ":4343")
//	-serial string            Serial device; replaces TCP when set
//	-baud int                 Serial baud rate (default 115200)
//	-profile string           Embedded profile name or .yaml file (default "move_hub")
//	-config string            YAML configuration file
//	-state string             File that keeps settings changed by the host
//	-reset-state              Forget the settings in the state file on start
//	-log-level string         Log level: debug, info, warn, error (default "info")
//	-protocol-log string      Write protocol events to this .lwplog file
//	-mdns                     Advertise the TCP endpoint via mDNS (default true)
//	-interface string         Network interface for mDNS
//	-interactive              Enable the interactive console
//	-command-duration duration Run time of output commands without one (default 1s)
//	-redis string             Mirror hub state to this Redis server and read commands from it
//	-redis-prefix string      Key prefix in Redis (default "lwp:hub")
//
// Flags set on the command line override the configuration file.
//
// Examples:
//
//	# Emulate a Move Hub on the default port with a console
//	lwp-hub -interactive
//
//	# Serve a host on a USB serial adapter
//	lwp-hub -serial /dev/ttyUSB0 -profile two_port_hub
//
//	# Record all traffic
//	lwp-hub -protocol-log /tmp/hub.lwplog -log-level debug
//
//	# Drive the hub from Redis
//	lwp-hub -redis localhost:6379
//	redis-cli LPUSH lwp:hub:commands "battery 20"
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lego-wireless/lwp-go/cmd/lwp-hub/interactive"
	"github.com/lego-wireless/lwp-go/pkg/bridge"
	"github.com/lego-wireless/lwp-go/pkg/discovery"
	"github.com/lego-wireless/lwp-go/pkg/hub"
	"github.com/lego-wireless/lwp-go/pkg/log"
	"github.com/lego-wireless/lwp-go/pkg/persistence"
	"github.com/lego-wireless/lwp-go/pkg/transport"
	"github.com/lego-wireless/lwp-go/pkg/wire"
)

// Config holds the emulator configuration. The YAML keys match the flag
// names.
type Config struct {
	Listen          string        `yaml:"listen"`
	Serial          string        `yaml:"serial"`
	Baud            int           `yaml:"baud"`
	Profile         string        `yaml:"profile"`
	State           string        `yaml:"state"`
	LogLevel        string        `yaml:"log-level"`
	ProtocolLog     string        `yaml:"protocol-log"`
	MDNS            bool          `yaml:"mdns"`
	Interface       string        `yaml:"interface"`
	Interactive     bool          `yaml:"interactive"`
	CommandDuration time.Duration `yaml:"command-duration"`
	Redis           string        `yaml:"redis"`
	RedisPrefix     string        `yaml:"redis-prefix"`
}

var (
	config     Config
	configFile string
	resetState bool
)

func init() {
	flag.StringVar(&config.Listen, "listen", transport.DefaultAddress, "TCP listen address")
	flag.StringVar(&config.Serial, "serial", "", "Serial device; replaces TCP when set")
	flag.IntVar(&config.Baud, "baud", transport.DefaultBaud, "Serial baud rate")
	flag.StringVar(&config.Profile, "profile", hub.DefaultProfile, "Embedded profile name or .yaml file")
	flag.StringVar(&configFile, "config", "", "YAML configuration file")
	flag.StringVar(&config.State, "state", "", "File that keeps settings changed by the host")
	flag.BoolVar(&resetState, "reset-state", false, "Forget the settings in the state file on start")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&config.ProtocolLog, "protocol-log", "", "Write protocol events to this .lwplog file")
	flag.BoolVar(&config.MDNS, "mdns", true, "Advertise the TCP endpoint via mDNS")
	flag.StringVar(&config.Interface, "interface", "", "Network interface for mDNS")
	flag.BoolVar(&config.Interactive, "interactive", false, "Enable the interactive console")
	flag.DurationVar(&config.CommandDuration, "command-duration", time.Second, "Run time of output commands without one")
	flag.StringVar(&config.Redis, "redis", "", "Mirror hub state to this Redis server and read commands from it")
	flag.StringVar(&config.RedisPrefix, "redis-prefix", bridge.DefaultPrefix, "Key prefix in Redis")
}

func main() {
	flag.Parse()

	if configFile != "" {
		if err := loadConfigFile(configFile, &config); err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
	}

	profile, err := hub.ResolveProfile(config.Profile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "profile: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var console *interactive.Console
	var logOut io.Writer = os.Stderr
	if config.Interactive {
		console, err = interactive.New()
		if err != nil {
			fmt.Fprintf(os.Stderr, "console: %v\n", err)
			os.Exit(1)
		}
		logOut = console.Stderr()
	}
	logger := setupLogging(logOut, config.LogLevel)

	protocolLogger, closeLog := setupProtocolLog(logger)
	defer closeLog()

	var store *persistence.HubStateStore
	if config.State != "" {
		store = persistence.NewHubStateStore(config.State)
		if resetState {
			if err := store.Clear(); err != nil {
				logger.Warn("clearing state failed", "path", store.Path(), "error", err)
			}
		}
	}

	logger.Info("LWP hub emulator",
		"profile", profile.ID,
		"name", profile.Name,
		"system_device", profile.SystemDevice,
		"firmware", profile.Firmware)

	link, disconnect, run := setupLink(ctx, logger, protocolLogger)

	var h *hub.Hub
	hubLogger := protocolLogger
	rb, closeRedis := setupBridge(ctx, logger, cancel, func() *hub.Hub { return h })
	defer closeRedis()
	if rb != nil {
		hubLogger = log.NewMultiLogger(protocolLogger, rb)
	}

	h, err = hub.New(link, hub.Config{
		Profile:         profile,
		CommandDuration: config.CommandDuration,
		Logger:          logger,
		ProtocolLogger:  hubLogger,
		StateStore:      store,
		OnAction: func(action wire.ActionType) {
			switch action {
			case wire.ActionHubWillDisconnect, wire.ActionHubWillGoIntoBootMode:
				logger.Info("dropping host", "action", action)
				disconnect()
			case wire.ActionHubWillSwitchOff, wire.ActionShutdown:
				logger.Info("switching off", "action", action)
				cancel()
			}
		},
	})
	if err != nil {
		logger.Error("creating hub failed", "error", err)
		os.Exit(1)
	}
	defer h.Stop()

	addr, err := run()
	if err != nil {
		logger.Error("starting transport failed", "error", err)
		os.Exit(1)
	}

	if config.MDNS && addr != nil {
		adv := discovery.NewAdvertiser(discovery.AdvertiserConfig{Interface: config.Interface})
		info := hubInfo(profile, h.Name(), addr)
		if err := adv.Advertise(info); err != nil {
			logger.Warn("mDNS advertising failed", "error", err)
		} else {
			logger.Info("advertising", "service", discovery.ServiceType, "instance", discovery.InstanceName(info.Name))
			defer adv.Stop()
		}
	}

	if console != nil {
		go console.Run(ctx, cancel, h)
	}
	if rb != nil {
		go func() {
			if err := rb.Run(ctx); err != nil {
				logger.Error("Redis bridge stopped", "error", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig)
	case <-ctx.Done():
	}
	logger.Info("shutting down")
}

// loadConfigFile reads path into cfg. Flags given on the command line
// keep their values.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	fromFlags := *cfg
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen":
			cfg.Listen = fromFlags.Listen
		case "serial":
			cfg.Serial = fromFlags.Serial
		case "baud":
			cfg.Baud = fromFlags.Baud
		case "profile":
			cfg.Profile = fromFlags.Profile
		case "state":
			cfg.State = fromFlags.State
		case "log-level":
			cfg.LogLevel = fromFlags.LogLevel
		case "protocol-log":
			cfg.ProtocolLog = fromFlags.ProtocolLog
		case "mdns":
			cfg.MDNS = fromFlags.MDNS
		case "interface":
			cfg.Interface = fromFlags.Interface
		case "interactive":
			cfg.Interactive = fromFlags.Interactive
		case "command-duration":
			cfg.CommandDuration = fromFlags.CommandDuration
		case "redis":
			cfg.Redis = fromFlags.Redis
		case "redis-prefix":
			cfg.RedisPrefix = fromFlags.RedisPrefix
		}
	})
	return nil
}

func setupLogging(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
	slog.SetDefault(logger)
	return logger
}

// setupProtocolLog returns the protocol logger: the capture file if one
// is configured, plus the operational log at debug level.
func setupProtocolLog(logger *slog.Logger) (log.Logger, func()) {
	var loggers []log.Logger
	closeFn := func() {}

	if config.ProtocolLog != "" {
		fl, err := log.NewFileLogger(config.ProtocolLog)
		if err != nil {
			logger.Warn("protocol log disabled", "path", config.ProtocolLog, "error", err)
		} else {
			logger.Info("protocol log", "path", fl.Path())
			loggers = append(loggers, fl)
			closeFn = func() {
				if n := fl.Dropped(); n > 0 {
					logger.Warn("protocol events dropped", "count", n)
				}
				_ = fl.Close()
			}
		}
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		loggers = append(loggers, log.NewSlogAdapter(logger))
	}

	switch len(loggers) {
	case 0:
		return nil, closeFn
	case 1:
		return loggers[0], closeFn
	default:
		return log.NewMultiLogger(loggers...), closeFn
	}
}

// setupBridge connects to Redis when configured. hubFn returns the hub
// once it exists; the bridge only reads it after Run starts.
func setupBridge(ctx context.Context, logger *slog.Logger, quit func(), hubFn func() *hub.Hub) (*bridge.Bridge, func()) {
	if config.Redis == "" {
		return nil, func() {}
	}

	client, err := bridge.Dial(ctx, config.Redis, os.Getenv("LWP_REDIS_PASSWORD"), 0)
	if err != nil {
		logger.Warn("Redis bridge disabled", "address", config.Redis, "error", err)
		return nil, func() {}
	}

	exec := sync.OnceValue(func() bridge.Executor { return interactive.Executor(hubFn()) })
	b, err := bridge.New(bridge.Config{
		Store:  client,
		Status: func() hub.Status { return hubFn().Status() },
		Exec: func(line string) (string, bool) {
			return exec()(line)
		},
		OnQuit: quit,
		Prefix: config.RedisPrefix,
		Logger: logger,
	})
	if err != nil {
		_ = client.Close()
		logger.Warn("Redis bridge disabled", "error", err)
		return nil, func() {}
	}
	logger.Info("Redis bridge", "address", config.Redis, "hash", b.HubKey(), "commands", b.CommandKey())
	return b, func() { _ = client.Close() }
}

// setupLink creates the TCP or serial link. run starts it and returns the
// TCP address, nil for serial.
func setupLink(ctx context.Context, logger *slog.Logger, plog log.Logger) (link transport.Link, disconnect func(), run func() (net.Addr, error)) {
	if config.Serial != "" {
		sl := transport.NewSerialLink(transport.SerialConfig{
			Device: config.Serial,
			Baud:   config.Baud,
			Logger: plog,
			Slog:   logger,
		})
		run = func() (net.Addr, error) {
			go func() {
				if err := sl.Run(ctx); err != nil && ctx.Err() == nil {
					logger.Error("serial link stopped", "error", err)
				}
			}()
			logger.Info("serving", "serial", config.Serial, "baud", config.Baud)
			return nil, nil
		}
		disconnect = func() { logger.Debug("serial link has no peer to drop") }
		return sl, disconnect, run
	}

	srv := transport.NewServer(transport.ServerConfig{
		Address: config.Listen,
		Logger:  plog,
		Slog:    logger,
	})
	run = func() (net.Addr, error) {
		if err := srv.Start(ctx); err != nil {
			return nil, err
		}
		logger.Info("listening", "address", srv.Addr())
		return srv.Addr(), nil
	}
	return srv, srv.Disconnect, run
}

func hubInfo(p *hub.Profile, name string, addr net.Addr) discovery.HubInfo {
	info := discovery.HubInfo{
		Name:         name,
		SystemDevice: p.SystemDevice,
		Capabilities: p.Capabilities,
		Protocol:     p.Protocol,
		Firmware:     p.Firmware,
		MAC:          p.PrimaryMAC,
	}
	if tcp, ok := addr.(*net.TCPAddr); ok {
		info.Port = uint16(tcp.Port)
	}
	return info
}
