// Command mvvm-shell is an interactive playground for commands and
// notifying objects.
//
// It runs a bounded counter view-model whose notifications are delivered on
// a single "UI" loop, and lets the user invoke its commands, watch property
// and command state changes, and inspect subscriber and loop state.
//
// Usage:
//
//	mvvm-shell [flags]
//
// Flags:
//
//	-config string      Configuration file path (YAML)
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-log-file string    Write notification events to a CBOR log file
//	-trace              Mirror notification events to the log at debug level
//
// Examples:
//
//	# Start with defaults
//	mvvm-shell
//
//	# Record every notification for later analysis with mvvm-log
//	mvvm-shell -log-file shell.mlog
//
//	# Pump the UI loop by hand
//	mvvm-shell -config manual.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/mvvm-kit/mvvm-go/cmd/mvvm-shell/interactive"
	"github.com/mvvm-kit/mvvm-go/pkg/log"
	"github.com/mvvm-kit/mvvm-go/pkg/runloop"
)

var (
	configFile string
	logLevel   string
	logFile    string
	trace      bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Write notification events to a CBOR log file")
	flag.BoolVar(&trace, "trace", false, "Mirror notification events to the log at debug level")
}

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, if any, and applies flags that were set
// explicitly on top of it.
func loadConfig() (*Config, error) {
	cfg := DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = LoadConfig(configFile); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.LogLevel = logLevel
		case "log-file":
			cfg.EventLog = logFile
		case "trace":
			cfg.TraceEvents = trace
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cfg *Config) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := runloop.New(cfg.Loop.Name)

	// Operational logging goes to stderr until the terminal is attached.
	logger := newLogger(cfg.LogLevel, os.Stderr)

	events, closeEvents, err := newEventLogger(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeEvents()) }()

	vm, err := interactive.NewCounter(loop.Context(context.Background()), cfg.Counter, loop, events)
	if err != nil {
		return fmt.Errorf("failed to create view-model: %w", err)
	}
	defer vm.Dispose()

	sh, err := interactive.New(vm, loop, logger, cfg.Prompt)
	if err != nil {
		return err
	}
	logger = newLogger(cfg.LogLevel, sh.Stderr())
	logger.Info("Shell started", "session", sh.Session(), "loop", loop.Name(), "autostart", cfg.Loop.Autostart)

	if cfg.Loop.Autostart {
		loop.Start()
	}

	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		defer cancel()
		return sh.Run(gctx)
	})
	g.Go(func() error {
		// Closing the terminal unblocks a pending read on signal.
		<-gctx.Done()
		return sh.Close()
	})
	err = g.Wait()

	discarded := loop.Close()
	logger.Info("Shell stopped", "executed", loop.Executed(), "discarded", discarded)
	return multierr.Append(err, sh.Close())
}

// newEventLogger builds the notification logger from the config. It returns
// a nil logger when neither a file nor tracing is configured.
func newEventLogger(cfg *Config, logger *slog.Logger) (log.Logger, func() error, error) {
	var loggers []log.Logger
	closeFn := func() error { return nil }

	if cfg.EventLog != "" {
		fl, err := log.NewFileLogger(cfg.EventLog)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open event log: %w", err)
		}
		loggers = append(loggers, fl)
		closeFn = fl.Close
		logger.Info("Recording notification events", "path", cfg.EventLog)
	}
	if cfg.TraceEvents {
		loggers = append(loggers, log.NewSlogAdapter(logger))
	}

	switch len(loggers) {
	case 0:
		return nil, closeFn, nil
	case 1:
		return loggers[0], closeFn, nil
	default:
		return log.NewMultiLogger(loggers...), closeFn, nil
	}
}

func newLogger(level string, w io.Writer) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}
