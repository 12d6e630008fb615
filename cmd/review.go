package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/revq/revq/cmd/common"
	"github.com/revq/revq/pkg/revqcli"
)

func review(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" || id == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := revqcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "review", "new_client", err)
		return nil
	}
	defer client.Close()
	res, err := client.CompleteReview(context.Background(), id, time.Time{})
	if err != nil {
		common.PrintRuntimeErr(ctx, "review", "complete", err)
		return nil
	}
	fmt.Printf("Reviewed %s: next repetition in %.1f days (%s)\n",
		id, res.Interval, res.NextDueAt.Local().Format(time.RFC3339))
	return nil
}
