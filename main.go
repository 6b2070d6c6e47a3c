// revofoto - photo enhancement chat, offline core.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/revofoto/revofoto/internal/cli"
	"github.com/revofoto/revofoto/internal/config"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	case cli.CmdVersion:
		cli.HandleVersion()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	app, err := cli.NewApp(cfg, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	switch cmd {
	case cli.CmdList:
		err = app.HandleList(ctx)
	case cli.CmdGallery:
		err = app.HandleGallery(ctx)
	case cli.CmdExport:
		err = app.HandleExport(ctx, args)
	case cli.CmdWipe:
		err = app.HandleWipe(ctx, args)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		app.Close()
		os.Exit(1)
	}
}
