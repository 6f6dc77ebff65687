package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/ipc"
	"github.com/1broseidon/framewm/internal/logger"
	"github.com/1broseidon/framewm/internal/wm"
	"github.com/1broseidon/framewm/internal/x11"
)

const (
	reloadTimeout     = 5 * time.Second
	reconcileInterval = 10 * time.Second
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Manage the X display in the foreground (default)",
	Args:  cobra.NoArgs,
	RunE:  runManager,
}

func newLogger(cfg *config.Config, verbose bool) (*logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if verbose && level > slog.LevelDebug {
		level = slog.LevelDebug
	}
	log, err := logger.NewLogger(logger.LoggerOptions{
		Verbose:    verbose,
		Level:      level,
		LogDir:     cfg.LogDir(),
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

func runManager(cmd *cobra.Command, _ []string) error {
	flags := flagsFrom(cmd)

	res, cfgPath, err := flags.load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := res.Config

	log, err := newLogger(cfg, flags.Verbose)
	if err != nil {
		return err
	}
	defer log.Close()

	defer func() {
		if r := recover(); r != nil {
			log.Error("PANIC RECOVERED", "panic", r, "stack", string(debug.Stack()))
			fmt.Fprintf(os.Stderr, "\n*** PANIC: %v ***\nCheck %s for details\n", r, log.GetLogPath())
			panic(r)
		}
	}()

	opts, err := managerOptions(cfg)
	if err != nil {
		return err
	}

	display := flags.display(cfg)
	conn, err := x11.NewConnection(display)
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer conn.Close()

	log.Info("framewm starting", "display", display, "config", cfgPath, "log", log.GetLogPath())

	mgr := wm.New(conn, opts, log.Logger)
	if err := mgr.Start(); err != nil {
		if errors.Is(err, wm.ErrAnotherWM) {
			log.Error("another window manager is already running", "display", display)
		}
		return err
	}

	if err := conn.Announce("framewm"); err != nil {
		log.Warn("failed to publish supporting window", "err", err)
	}
	defer conn.Withdraw()
	if err := conn.SetRootCursor(); err != nil {
		log.Warn("failed to set root cursor", "err", err)
	}
	applyBackground(conn, cfg, log.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reload := func(ctx context.Context) error {
		next, err := config.LoadFromPath(cfgPath)
		if err != nil {
			return err
		}
		nextOpts, err := managerOptions(next.Config)
		if err != nil {
			return err
		}
		if err := mgr.Reconfigure(ctx, nextOpts); err != nil {
			return err
		}
		return mgr.Do(ctx, func() { applyBackground(conn, next.Config, log.Logger) })
	}

	socket, err := flags.socketPath(cfg)
	if err != nil {
		return fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	server := ipc.NewServer(socket, &ipc.ManagerController{
		Manager:    mgr,
		Display:    display,
		ConfigPath: cfgPath,
		ReloadFunc: reload,
	}, log.Logger)
	if err := server.Start(); err != nil {
		log.Warn("control socket unavailable", "err", err)
	} else {
		defer server.Stop()
	}

	reconciler := wm.NewReconciler(mgr, wm.ReconcilerConfig{Interval: reconcileInterval, Logger: log.Logger})
	go reconciler.Run(ctx)

	if cfg.WatchConfig {
		go watchConfig(ctx, cfgPath, reload, log.Logger)
	}

	// SIGHUP reloads in place.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				log.Info("received SIGHUP, reloading config")
				reloadAndLog(ctx, reload, log.Logger)
			}
		}
	}()

	log.Info("entering event loop", "clients", mgr.Registry().Len())
	if err := mgr.Run(ctx); err != nil {
		log.Error("event loop stopped", "err", err)
		return err
	}
	log.Info("framewm stopped")
	return nil
}

func watchConfig(ctx context.Context, path string, reload func(context.Context) error, log *slog.Logger) {
	err := config.Watch(ctx, path, log, func() {
		reloadAndLog(ctx, reload, log)
	})
	if err != nil {
		log.Warn("config watch disabled", "err", err)
	}
}

func reloadAndLog(ctx context.Context, reload func(context.Context) error, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, reloadTimeout)
	defer cancel()
	if err := reload(ctx); err != nil {
		log.Error("config reload failed", "err", err)
		return
	}
	log.Info("config reloaded")
}

func applyBackground(conn *x11.Connection, cfg *config.Config, log *slog.Logger) {
	color, err := config.ParseColor(cfg.Colors.Background)
	if err != nil {
		log.Warn("invalid background color", "err", err)
		return
	}
	if err := conn.SetBackground(color, cfg.BackgroundImage); err != nil {
		log.Warn("failed to set background", "image", cfg.BackgroundImage, "err", err)
	}
}
