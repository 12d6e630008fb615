package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/revq/revq/internal/api"
	"github.com/revq/revq/internal/daemon"
	"github.com/revq/revq/pkg/logger"
)

var (
	version   string
	commit    string
	buildType string = "unclassified"
)

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	l := logger.NewStandardLogger(log.Default())
	defer l.Close()

	cfg := &daemon.Config{
		Build: api.BuildInfo{
			Version:   version,
			Commit:    commit,
			BuildType: buildType,
		},
	}
	if err := daemon.New(cfg, l).Run(ctx); err != nil {
		fmt.Println("revqd:", err.Error())
		os.Exit(1)
	}
}
