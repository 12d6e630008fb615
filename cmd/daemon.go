package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/revq/revq/cmd/common"
	"github.com/revq/revq/internal/api"
	revqd "github.com/revq/revq/internal/daemon"
	"github.com/revq/revq/pkg/logger"
	"github.com/revq/revq/pkg/revlib"
)

var (
	daemonDataDir     string
	daemonWebPort     int
	daemonTCPPort     int
	daemonLight       bool
	daemonAutoPretag  bool
	daemonRefreshCron string

	daemonFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "data-dir, d",
			Usage:       "directory for the database and checkpoint files",
			EnvVar:      "REVQ_DATA_DIR",
			Destination: &daemonDataDir,
		},
		cli.IntFlag{
			Name:        "web-port, w",
			Usage:       "serve the HTTP/WebSocket bridge on this port (0 disables)",
			Destination: &daemonWebPort,
		},
		cli.IntFlag{
			Name:        "tcp-port, t",
			Usage:       "TCP fallback port when the platform transport is unavailable",
			EnvVar:      "REVQ_TCP_PORT",
			Destination: &daemonTCPPort,
		},
		cli.BoolFlag{
			Name:        "light, l",
			Usage:       "run in light mode: resolve priorities lazily, no pretagging",
			Destination: &daemonLight,
		},
		cli.BoolFlag{
			Name:        "auto-pretag, a",
			Usage:       "start a pretagging pass as soon as the daemon boots",
			Destination: &daemonAutoPretag,
		},
		cli.StringFlag{
			Name:        "refresh-cron, c",
			Usage:       "cron expression for periodic pretagging refresh",
			Destination: &daemonRefreshCron,
		},
	}
)

func daemon(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	l := logger.NewStandardLogger(log.Default())
	defer l.Close()

	mode := revlib.ModeFull
	if daemonLight {
		mode = revlib.ModeLight
	}
	cfg := &revqd.Config{
		DataDir: daemonDataDir,
		TCPPort: daemonTCPPort,
		WebPort: daemonWebPort,
		Scheduler: revlib.Config{
			PerformanceMode: mode,
			RefreshCron:     daemonRefreshCron,
		},
		Build: api.BuildInfo{
			Version:   build.Version,
			Commit:    build.Commit,
			BuildType: build.BuildType,
		},
		AutoPretag: daemonAutoPretag,
	}

	runCtx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	r := revqd.New(cfg, l)
	if err := r.Run(runCtx); err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "run", err)
	}
	return nil
}
