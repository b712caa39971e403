// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

// glasspane is a terminal inspector panel for component-tree
// applications. It mirrors the remote application's component tree
// over a message bridge, shows the selected component's state live,
// and remembers where you were looking between runs.
//
// Three modes of operation:
//
// Connect mode (--connect host:port): dials a remote agent over TCP
// and speaks the framed wire protocol.
//
// Demo mode (default): runs an in-process demo application next to
// the panel. No network, no setup — useful for trying the panel and
// for development.
//
// Dump mode (--dump): prints the full component tree as JSON to
// stdout and exits, for scripting.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-json"
	"github.com/spf13/pflag"

	"github.com/glasspane/glasspane/bridge"
	"github.com/glasspane/glasspane/bridge/wire"
	"github.com/glasspane/glasspane/demo"
	"github.com/glasspane/glasspane/history"
	"github.com/glasspane/glasspane/inspector"
	"github.com/glasspane/glasspane/lib/codec"
	"github.com/glasspane/glasspane/lib/config"
	"github.com/glasspane/glasspane/router"
	"github.com/glasspane/glasspane/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  string
		connectAddr string
		dump        bool
	)

	flagSet := pflag.NewFlagSet("glasspane", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to glasspane.yaml (default: $GLASSPANE_CONFIG)")
	flagSet.StringVar(&connectAddr, "connect", "", "agent address host:port (default: in-process demo)")
	flagSet.BoolVar(&dump, "dump", false, "print the component tree as JSON and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if connectAddr != "" {
		cfg.Connect.Address = connectAddr
	}

	logger, logCleanup, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer logCleanup()

	panelBridge, targetID, bridgeCleanup, err := buildBridge(cfg, logger)
	if err != nil {
		return err
	}
	defer bridgeCleanup()

	if dump {
		return dumpTree(panelBridge, os.Stdout)
	}
	return runPanel(cfg, logger, panelBridge, targetID)
}

func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildLogger sends log output to the configured file, or stderr. The
// TUI owns stdout, so logs never go there.
func buildLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	output := os.Stderr
	cleanup := func() {}
	if cfg.Log.File != "" {
		file, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		output = file
		cleanup = func() { file.Close() }
	}
	return slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level})), cleanup, nil
}

// buildBridge returns the panel-side bridge for the configured mode,
// plus the target identifier used to key persisted history.
func buildBridge(cfg *config.Config, logger *slog.Logger) (bridge.Bridge, string, func(), error) {
	if cfg.Connect.Address == "" {
		pair := bridge.NewPair()
		demoApp := demo.Start(pair.Agent, logger)
		cleanup := func() {
			demoApp.Close()
			pair.Close()
		}
		return pair.Panel, "demo", cleanup, nil
	}

	conn, err := net.Dial("tcp", cfg.Connect.Address)
	if err != nil {
		return nil, "", nil, fmt.Errorf("connecting to %s: %w", cfg.Connect.Address, err)
	}

	tag := wire.CompressionZstd
	switch cfg.Connect.Compression {
	case "none":
		tag = wire.CompressionNone
	case "lz4":
		tag = wire.CompressionLZ4
	}
	threshold := cfg.Connect.CompressionThreshold
	if threshold <= 0 {
		threshold = wire.DefaultCompressionThreshold
	}

	wireConn := wire.New(conn,
		wire.WithLogger(logger),
		wire.WithCompression(tag, threshold),
	)
	cleanup := func() { wireConn.Close() }
	return wireConn, cfg.Connect.Address, cleanup, nil
}

// dumpTree requests the full tree and prints it as indented JSON.
func dumpTree(b bridge.Bridge, out *os.File) error {
	updates := make(chan inspector.TreeUpdate, 1)
	remove := b.Handle(bridge.ChannelTreeUpdate, func(payload codec.RawMessage) {
		var update inspector.TreeUpdate
		if err := codec.Unmarshal(payload, &update); err != nil {
			return
		}
		if update.TargetID == inspector.RootTarget {
			select {
			case updates <- update:
			default:
			}
		}
	})
	defer remove()

	request := inspector.TreeRequest{TargetID: inspector.RootTarget, Depth: 64}
	if err := b.Send(bridge.ChannelTreeRequest, request); err != nil {
		return err
	}

	select {
	case update := <-updates:
		if update.Unsupported() {
			return inspector.ErrUnsupportedTarget
		}
		encoded, err := json.MarshalIndent(update.Roots, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(encoded))
		return nil
	case <-time.After(10 * time.Second):
		return fmt.Errorf("timed out waiting for the component tree")
	}
}

func runPanel(cfg *config.Config, logger *slog.Logger, panelBridge bridge.Bridge, targetID string) error {
	ctx := context.Background()

	var store *history.Store
	if !cfg.History.Disabled {
		if err := cfg.EnsurePaths(); err != nil {
			return err
		}
		var err error
		store, err = history.Open(cfg.History.Path, history.WithLogger(logger))
		if err != nil {
			// History is a convenience; a broken database must not
			// keep the panel from starting.
			logger.Warn("history unavailable", "error", err)
		} else {
			defer store.Close()
		}
	}

	client := inspector.New(panelBridge, router.NewMemory(), inspector.WithLogger(logger))
	defer client.Close()

	// Selection recording runs on its own goroutine: the cell observer
	// fires under the client's lock and must not touch SQLite there.
	if store != nil {
		selections := make(chan string, 16)
		client.SelectedID().OnChange(func(id string) {
			if id == "" {
				return
			}
			select {
			case selections <- id:
			default:
			}
		})
		go func() {
			for id := range selections {
				if err := store.RecordSelection(ctx, targetID, id); err != nil {
					logger.Warn("recording selection failed", "error", err)
				}
			}
		}()

		if states, err := store.LoadExpansion(ctx, targetID); err == nil && len(states) > 0 {
			client.Visit(func(_ *inspector.TreeStore, expansion *inspector.ExpansionController) {
				expansion.Restore(states)
			})
		}
	}

	if err := client.Start(); err != nil {
		return err
	}

	// Pick up where the last session left off.
	if store != nil {
		if last, ok, err := store.LastSelection(ctx, targetID); err == nil && ok {
			client.Select(last)
		}
	}

	model := tui.NewModel(client)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()

	if store != nil {
		var states map[string]bool
		client.Visit(func(_ *inspector.TreeStore, expansion *inspector.ExpansionController) {
			states = expansion.Snapshot()
		})
		if saveErr := store.SaveExpansion(ctx, targetID, states); saveErr != nil {
			logger.Warn("saving expansion state failed", "error", saveErr)
		}
	}
	return err
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `glasspane — terminal inspector for component-tree applications.

By default, runs against a built-in demo application. Use --connect
to attach to a real agent over TCP, or --dump to print the component
tree as JSON and exit.

Usage:
  glasspane [flags]

Flags:
%s`, flagSet.FlagUsages())
}
