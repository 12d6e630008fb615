package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"

	"github.com/revq/revq/cmd/common"
	wire "github.com/revq/revq/common"
	"github.com/revq/revq/pkg/revqcli"
)

var (
	pretagQuiet bool

	pretagFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "quiet, q",
			Usage:       "start the pass and return without waiting",
			Destination: &pretagQuiet,
		},
	}
)

const pretagPollInterval = 250 * time.Millisecond

func pretagRun(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := revqcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "pretag", "new_client", err)
		return nil
	}
	defer client.Close()
	res, err := client.PretagRun(context.Background())
	if err != nil {
		common.PrintRuntimeErr(ctx, "pretag", "run", err)
		return nil
	}
	if pretagQuiet {
		fmt.Printf("Pretagging started (%d elements)\n", res.Total)
		return nil
	}
	res, err = watchPretag(client)
	if err != nil {
		common.PrintRuntimeErr(ctx, "pretag", "progress", err)
		return nil
	}
	printPretagResult(res)
	return nil
}

// watchPretag polls the daemon until the pass leaves the running state,
// rendering a progress bar along the way.
func watchPretag(client *revqcli.Client) (*wire.PretagResult, error) {
	p := mpb.New(mpb.WithWidth(64))
	bar := common.InitBar(p)
	for {
		res, err := client.PretagProgress(context.Background())
		if err != nil {
			bar.Abort(true)
			p.Wait()
			return nil, err
		}
		bar.SetTotal(int64(res.Total), false)
		bar.SetCurrent(int64(res.Processed))
		if res.State != "running" {
			bar.SetTotal(int64(res.Total), true)
			p.Wait()
			return res, nil
		}
		time.Sleep(pretagPollInterval)
	}
}

func pretagCancel(ctx *cli.Context) error {
	client, err := revqcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "pretag", "new_client", err)
		return nil
	}
	defer client.Close()
	err = client.PretagCancel(context.Background())
	if err != nil {
		common.PrintRuntimeErr(ctx, "pretag", "cancel", err)
		return nil
	}
	fmt.Println("Cancellation requested; the pass stops at the next chunk boundary.")
	return nil
}

func pretagStatus(ctx *cli.Context) error {
	client, err := revqcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "pretag", "new_client", err)
		return nil
	}
	defer client.Close()
	res, err := client.PretagProgress(context.Background())
	if err != nil {
		common.PrintRuntimeErr(ctx, "pretag", "progress", err)
		return nil
	}
	printPretagResult(res)
	return nil
}

func printPretagResult(res *wire.PretagResult) {
	fmt.Printf("State: %s\nProcessed: %d/%d\n", res.State, res.Processed, res.Total)
	if res.LastID != "" {
		fmt.Printf("Checkpoint: %s\n", res.LastID)
	}
	if len(res.Skipped) > 0 {
		fmt.Printf("Skipped %d element(s):\n", len(res.Skipped))
		for _, id := range res.Skipped {
			fmt.Printf("  %s\n", id)
		}
	}
}
