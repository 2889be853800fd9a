package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geocal/internal/config"
	"geocal/internal/geodate"
	appLog "geocal/internal/log"
	"geocal/internal/render"
	"geocal/internal/schedule"
)

func main() {
	conf := loadConfig()
	appLog.SetLevel(appLog.Level(conf.LogLevel))

	args, err := parseArgs(os.Args[1:])
	if err != nil {
		if errors.Is(err, ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
		} else {
			appLog.Error("invalid arguments", err)
		}
		os.Exit(1)
	}

	sched, err := schedule.Parse(conf.Refresh)
	if err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.Refresh)
		os.Exit(1)
	}

	appLog.Info("effective config",
		"converter", conf.Converter.Command,
		"timeout", conf.Converter.Timeout,
		"color", conf.Color,
		"refresh", conf.Refresh,
		"solar", args.solar,
		"ephem", args.ephem,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conv := geodate.NewCommand(conf.CommandConfig())
	j := &job{
		args:     args,
		conv:     conv,
		eph:      conv,
		renderer: render.NewRenderer(os.Stdout, render.ColorMode(conf.Color)),
		out:      os.Stdout,
		now:      time.Now,
	}

	if err := (schedule.Runner{}).Run(ctx, sched, j.run); err != nil {
		appLog.Error("render failed", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig returns the on-disk config, or the defaults when it cannot be
// read. A broken config file is fatal.
func loadConfig() *config.Config {
	path, err := config.Path()
	if err != nil {
		appLog.Debug("no config dir, using defaults", "err", err)
		return config.DefaultConfig()
	}
	conf, err := config.Load(path)
	if err != nil {
		if conf != nil {
			// First run and the default could not be written.
			appLog.Debug("default config not saved", "config_path", path, "err", err)
			return conf
		}
		appLog.Error("failed to load config", err, "config_path", path)
		os.Exit(1)
	}
	return conf
}
