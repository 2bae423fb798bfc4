// Command master-gateway supervises the master controller: it watches link
// health and escalates recovery, keeps the master clock and settings in
// line, and journals the master's event frames.
//
// Usage:
//
//	master-gateway [flags]
//
// Flags:
//
//	-config string     Configuration file path (default "/etc/master-gateway/gateway.yaml")
//	-log-level string  Log level: debug, info, warn, error (default "info")
//
// The process exits with status 1 when recovery requests a restart; it is
// meant to run under a supervisor that starts it again.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tamzrod/master-gateway/internal/config"
	"github.com/tamzrod/master-gateway/internal/event"
	"github.com/tamzrod/master-gateway/internal/link/bridge"
	"github.com/tamzrod/master-gateway/internal/master"
	"github.com/tamzrod/master-gateway/internal/power"
	"github.com/tamzrod/master-gateway/internal/reconcile"
	"github.com/tamzrod/master-gateway/internal/recovery"
	"github.com/tamzrod/master-gateway/internal/settings"
	"github.com/tamzrod/master-gateway/internal/timesync"
	"github.com/tamzrod/master-gateway/internal/watchdog"
)

var (
	configPath string
	logLevel   string
)

func init() {
	flag.StringVar(&configPath, "config", "/etc/master-gateway/gateway.yaml", "Configuration file path")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func main() {
	flag.Parse()

	logger := setupLogging(logLevel)

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(configPath)
	if err != nil {
		fatal(logger, "config load failed", err)
	}
	if err := config.Validate(cfg); err != nil {
		fatal(logger, "config validation failed", err)
	}
	config.Normalize(cfg)
	g := cfg.Gateway

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Master link
	// --------------------

	client, err := bridge.NewClient(bridge.Config{
		Endpoint: g.Link.Endpoint,
		Timeout:  ms(g.Link.TimeoutMs),
	})
	if err != nil {
		fatal(logger, "link client failed", err)
	}
	link := master.NewRecorder(client)

	guard, err := master.NewFileGuard(g.Link.GuardFile)
	if err != nil {
		fatal(logger, "guard failed", err)
	}
	defer guard.Close()

	// --------------------
	// Recovery
	// --------------------

	pc, closePower, err := power.Build(g.Power)
	if err != nil {
		fatal(logger, "power control failed", err)
	}
	defer closePower()

	monitor := recovery.NewMonitor(
		link,
		settings.NewFileStore(g.Settings.Path),
		&recovery.SnapshotStore{Dir: g.Recovery.DebugDir, Retain: g.Recovery.DebugRetain},
		pc,
		monitorConfig(g),
		logger.With(slog.String("check", "communication")),
	)
	logger.Info("master gateway starting",
		slog.String("instance", monitor.Instance()),
		slog.String("link", g.Link.Endpoint),
		slog.String("power", g.Power.Driver))

	// --------------------
	// Watchdog
	// --------------------

	wd, err := watchdog.Build(
		g.Watchdog,
		monitor,
		timesync.New(link, sec(g.TimeSync.ToleranceS), logger.With(slog.String("check", "time"))),
		reconcile.New(link, guard, reconcile.DefaultRules(), logger.With(slog.String("check", "settings"))),
		logger,
	)
	if err != nil {
		fatal(logger, "watchdog build failed", err)
	}

	// --------------------
	// Events (optional)
	// --------------------

	closeEvents := startEvents(ctx, g, logger)

	err = wd.Run(ctx)
	closeEvents()

	var term *recovery.Termination
	if errors.As(err, &term) {
		logger.Error("terminating for recovery",
			slog.String("action", term.Action.String()),
			slog.String("reason", term.Reason),
			slog.Duration("grace", term.Grace))
		time.Sleep(term.Grace)
		os.Exit(1)
	}
	if err != nil {
		fatal(logger, "watchdog stopped", err)
	}
	logger.Info("master gateway stopped")
}

// startEvents decodes and journals event frames in the background.
func startEvents(ctx context.Context, g config.GatewayConfig, logger *slog.Logger) func() {
	if g.Link.EventsEndpoint == "" {
		return func() {}
	}

	stream, err := bridge.NewEventStream(bridge.EventStreamConfig{
		Endpoint: g.Link.EventsEndpoint,
		Timeout:  ms(g.Link.TimeoutMs),
	}, logger)
	if err != nil {
		fatal(logger, "event stream failed", err)
	}

	var journal *event.Journal
	if g.Events.Journal != "" {
		journal, err = event.OpenJournal(g.Events.Journal)
		if err != nil {
			fatal(logger, "event journal failed", err)
		}
	}

	go func() {
		_ = stream.Run(ctx, func(f event.Frame) {
			ev := event.Decode(f)
			logger.Debug("master event", slog.String("event", ev.String()))
			if journal == nil {
				return
			}
			if err := journal.Append(time.Now(), ev); err != nil {
				logger.Warn("event journal", slog.Any("err", err))
			}
		})
	}()

	return func() {
		if journal != nil {
			_ = journal.Close()
		}
	}
}

func monitorConfig(g config.GatewayConfig) recovery.MonitorConfig {
	r := g.Recovery
	return recovery.MonitorConfig{
		Thresholds: recovery.Thresholds{
			SelfHealCalls: r.SelfHealCalls,
			MinCalls:      r.MinCalls,
			HealthyWindow: r.HealthyWindow,
			RatioWindow:   sec(r.RatioWindowS),
			FailureRatio:  r.FailureRatio,
			BackoffMin:    sec(r.BackoffMinS),
			BackoffMax:    sec(r.BackoffMaxS),
		},
		RestartGrace: ms(r.RestartGraceMs),
		ResetGrace:   ms(r.ResetGraceMs),
		PowerHold:    ms(g.Power.HoldMs),
		ResetSettle:  ms(r.ResetSettleMs),
	}
}

func setupLogging(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.Any("err", err))
	os.Exit(1)
}

func ms(v int) time.Duration  { return time.Duration(v) * time.Millisecond }
func sec(v int) time.Duration { return time.Duration(v) * time.Second }
