package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/YoshitsuguKoike/deetask/internal/adapter/controller/cli"
	"github.com/YoshitsuguKoike/deetask/internal/app"
	"github.com/YoshitsuguKoike/deetask/internal/buildinfo"
	"github.com/YoshitsuguKoike/deetask/internal/infrastructure/di"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	globals := cli.ParseGlobalFlags(args)
	container, err := di.NewContainer(di.Config{
		Home:         globals.Home,
		DBPath:       globals.DBPath,
		LogLevel:     globals.LogLevel,
		OutputFormat: globals.Output,
		Version:      buildinfo.GetVersion(),
		BuildInfo:    buildinfo.GetBuildInfo(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "deetask: %v\n", err)
		return 1
	}
	// the container installs the configured logger globally
	logger := app.GetLogger()
	defer func() {
		if err := container.Close(); err != nil {
			logger.Warn("close container failed: %v", err)
		}
	}()

	cmd := container.GetRootCommand()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Debug("command %v failed: %v", args, err)
		return 1
	}
	return 0
}
