// versetag - crowd-sourced Bible word-alignment client
//
// Records tag set submissions durably before delivery, replays them after
// connectivity loss, and selects the next verse needing annotation across
// the downloaded corpus.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/asteroid-belt/versetag/internal/cli"
	"github.com/asteroid-belt/versetag/internal/config"
	"github.com/asteroid-belt/versetag/internal/log"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	paths := config.GetPaths(cfg)
	if err := log.Init(paths.Logs); err != nil {
		os.Exit(1)
	}
	defer func() {
		_ = log.Close()
	}()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
