// Dungeon plays Lua-defined text adventures in which one command can
// address several same-named things at once ("take all swords").
//
// Usage: dungeon [flags] [game_directory]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/nathoo/dungeoncore/cli"
	"github.com/nathoo/dungeoncore/config"
	"github.com/nathoo/dungeoncore/engine"
	"github.com/nathoo/dungeoncore/engine/save"
	"github.com/nathoo/dungeoncore/loader"
	"github.com/nathoo/dungeoncore/logging"
	"github.com/nathoo/dungeoncore/metrics"
	"github.com/nathoo/dungeoncore/observability"
	"github.com/nathoo/dungeoncore/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := pflag.NewFlagSet("dungeon", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	showVersion := fs.Bool("version", false, "print version and exit")
	scriptFile := fs.String("script", "", "play commands from a file, echoing each one")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: dungeon [flags] [game_directory]\n\n%s", fs.FlagUsages())
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Printf("dungeon %s (commit %s, built %s)\n", version, commit, date)
		return nil
	}
	if fs.NArg() > 0 {
		if err := fs.Set("game", fs.Arg(0)); err != nil {
			return err
		}
	}

	configPath, _ := fs.GetString("config")
	cfg, err := config.Load(configPath, fs)
	if err != nil {
		return err
	}

	useTUI := *scriptFile == "" && !cfg.UI.Plain && isTerminal()
	logOut, closeLog, err := logOutput(cfg.Log.File, useTUI)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := logging.Init(cfg.Log.Level, cfg.Log.Format, logOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := observability.InitTracing(ctx, observability.Config{
		ServiceName:    "dungeon",
		ServiceVersion: version,
		Enabled:        cfg.Tracing.Enabled,
		Endpoint:       cfg.Tracing.Endpoint,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown", "error", err)
		}
	}()

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	defs, err := loader.Load(cfg.Game.Dir)
	if err != nil {
		return fmt.Errorf("loading game: %w", err)
	}

	store, err := save.Open(cfg.Save.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	eng := engine.New(defs)
	eng.Logger = logger
	eng.Tracer = tp.Tracer("github.com/nathoo/dungeoncore/engine")
	eng.FibonacciTimeout = cfg.Engine.FibonacciTimeout
	eng.Columns = cfg.Engine.Columns

	logger.Info("starting", "game", defs.Game.Title, "tui", useTUI, "script", *scriptFile)

	if useTUI {
		return tui.Run(ctx, eng, defs, store, cfg.UI.Trace)
	}

	c := cli.New(eng, defs, store)
	c.Trace = cfg.UI.Trace
	if *scriptFile != "" {
		f, err := os.Open(*scriptFile)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c.In = f
		c.EchoInput = true
	}
	fmt.Printf("%s v%s by %s\n\n", defs.Game.Title, defs.Game.Version, defs.Game.Author)
	c.Run(ctx)
	return nil
}

// logOutput picks where logs go: the configured file, otherwise stderr,
// except under the TUI where stderr would corrupt the screen.
func logOutput(path string, tui bool) (io.Writer, func(), error) {
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		return f, func() { f.Close() }, nil
	}
	if tui {
		return io.Discard, func() {}, nil
	}
	return os.Stderr, func() {}, nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
