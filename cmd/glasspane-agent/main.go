// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

// glasspane-agent serves the demo application over TCP, speaking the
// framed wire protocol. It exists to exercise the panel's connect mode
// end to end:
//
//	glasspane-agent --listen 127.0.0.1:9229 &
//	glasspane --connect 127.0.0.1:9229
package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/spf13/pflag"

	"github.com/glasspane/glasspane/bridge/wire"
	"github.com/glasspane/glasspane/demo"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var listenAddr string
	flagSet := pflag.NewFlagSet("glasspane-agent", pflag.ContinueOnError)
	flagSet.StringVar(&listenAddr, "listen", "127.0.0.1:9229", "address to listen on")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		fmt.Fprintf(os.Stderr, "glasspane-agent — demo agent for the glasspane panel.\n\nFlags:\n%s", flagSet.FlagUsages())
		return nil
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", listenAddr, err)
	}
	defer listener.Close()
	logger.Info("demo agent listening", "address", listenAddr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}
		go serve(conn, logger)
	}
}

// serve runs one panel connection to completion.
func serve(conn net.Conn, logger *slog.Logger) {
	logger.Info("panel connected", "remote", conn.RemoteAddr())

	wireConn := wire.New(conn, wire.WithLogger(logger))
	app := demo.Start(wireConn, logger)
	<-wireConn.Done()

	app.Close()
	wireConn.Close()
	logger.Info("panel disconnected", "remote", conn.RemoteAddr(), "error", wireConn.Err())
}
