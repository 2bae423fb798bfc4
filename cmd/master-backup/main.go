// Command master-backup reads, restores and inspects the master's
// configuration memory through the link daemon.
//
// Usage:
//
//	master-backup [flags] <command> [args]
//
// Commands:
//
//	status            Print master time, date and firmware version
//	backup <file>     Write a 65536-byte configuration memory image to file
//	restore <file>    Write only the chunks of file that differ on the master
//	wipe -yes         Restore the erased (all 0xFF) image
//	diff <a> <b>      Compare two image files (offline)
//	errors [-clear]   Print (and optionally clear) module error counters
//
// Flags:
//
//	-config string     Gateway configuration file (default "/etc/master-gateway/gateway.yaml")
//	-endpoint string   Link daemon endpoint, overrides the configuration
//	-log-level string  Log level: debug, info, warn, error (default "info")
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tamzrod/master-gateway/internal/config"
	"github.com/tamzrod/master-gateway/internal/eeprom"
	"github.com/tamzrod/master-gateway/internal/link/bridge"
	"github.com/tamzrod/master-gateway/internal/master"
)

var (
	configPath string
	endpoint   string
	logLevel   string
)

func init() {
	flag.StringVar(&configPath, "config", "/etc/master-gateway/gateway.yaml", "Gateway configuration file")
	flag.StringVar(&endpoint, "endpoint", "", "Link daemon endpoint, overrides the configuration")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: master-backup [flags] status|backup|restore|wipe|diff|errors [args]\n")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flag.Arg(0), flag.Args()[1:], logger); err != nil {
		logger.Error(flag.Arg(0)+" failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, args []string, logger *slog.Logger) error {
	if cmd == "diff" {
		return diff(args)
	}

	g, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := bridge.NewClient(bridge.Config{
		Endpoint: g.Link.Endpoint,
		Timeout:  time.Duration(g.Link.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return err
	}

	switch cmd {
	case "status":
		st, err := master.ReadStatus(ctx, client)
		if err != nil {
			return err
		}
		fmt.Printf("time:     %s\ndate:     %s\nweekday:  %d\nfirmware: %s\nhardware: %d\nmode:     %d\n",
			st.TimeString(), st.DateString(), st.Weekday, st.Version(), st.H, st.Mode)
		return nil

	case "errors":
		fs := flag.NewFlagSet("errors", flag.ContinueOnError)
		reset := fs.Bool("clear", false, "Clear the counters after printing")
		if err := fs.Parse(args); err != nil {
			return err
		}
		list, err := master.ErrorList(ctx, client)
		if err != nil {
			return err
		}
		for _, e := range list {
			fmt.Printf("%s\t%d\n", e.Module, e.Count)
		}
		if *reset {
			return master.ClearErrorList(ctx, client)
		}
		return nil
	}

	engine, closeGuard, err := newEngine(g, client, logger)
	if err != nil {
		return err
	}
	defer closeGuard()

	switch cmd {
	case "backup":
		if len(args) != 1 {
			return errors.New("usage: backup <file>")
		}
		img, err := engine.Backup(ctx)
		if err != nil {
			return err
		}
		if err := eeprom.WriteImageFile(args[0], img); err != nil {
			return err
		}
		logger.Info("backup written", slog.String("file", args[0]))
		return nil

	case "restore":
		if len(args) != 1 {
			return errors.New("usage: restore <file>")
		}
		img, err := eeprom.ReadImageFile(args[0])
		if err != nil {
			return err
		}
		report, err := engine.Restore(ctx, img)
		printReport(report)
		return err

	case "wipe":
		fs := flag.NewFlagSet("wipe", flag.ContinueOnError)
		yes := fs.Bool("yes", false, "Confirm the factory wipe")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if !*yes {
			return errors.New("refusing to wipe without -yes")
		}
		report, err := engine.FactoryWipe(ctx)
		printReport(report)
		return err
	}

	return fmt.Errorf("unknown command %q", cmd)
}

func loadConfig() (config.GatewayConfig, error) {
	cfg := &config.Config{}
	if _, err := os.Stat(configPath); err == nil {
		if cfg, err = config.Load(configPath); err != nil {
			return config.GatewayConfig{}, err
		}
	} else if endpoint == "" {
		return config.GatewayConfig{}, fmt.Errorf("no configuration at %s and no -endpoint given", configPath)
	}
	if endpoint != "" {
		cfg.Gateway.Link.Endpoint = endpoint
	}
	if err := config.Validate(cfg); err != nil {
		return config.GatewayConfig{}, err
	}
	config.Normalize(cfg)
	return cfg.Gateway, nil
}

func newEngine(g config.GatewayConfig, client master.Executor, logger *slog.Logger) (*eeprom.Engine, func() error, error) {
	guard, err := master.NewFileGuard(g.Link.GuardFile)
	if err != nil {
		return nil, nil, err
	}
	pause := time.Duration(*g.EEPROM.RetryPauseMs) * time.Millisecond
	return eeprom.New(client, guard, pause, logger), guard.Close, nil
}

func diff(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: diff <a> <b>")
	}
	a, err := eeprom.ReadImageFile(args[0])
	if err != nil {
		return err
	}
	b, err := eeprom.ReadImageFile(args[1])
	if err != nil {
		return err
	}
	spans, err := eeprom.Diff(a, b)
	if err != nil {
		return err
	}
	for _, s := range spans {
		fmt.Printf("%s\t%d bytes\n", s, s.Length)
	}
	fmt.Printf("%d chunk(s) differ\n", len(spans))
	return nil
}

func printReport(report []string) {
	for _, line := range report {
		fmt.Println(line)
	}
}
