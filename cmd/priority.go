package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli"

	"github.com/revq/revq/cmd/common"
	"github.com/revq/revq/pkg/revqcli"
)

func setPriority(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" || id == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	raw := ctx.Args().Get(1)
	value, err := strconv.Atoi(raw)
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx,
			fmt.Errorf("priority must be an integer between 0 and 100, got %q", raw))
	}
	client, err := revqcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "set-priority", "new_client", err)
		return nil
	}
	defer client.Close()
	err = client.SetPriority(context.Background(), id, value)
	if err != nil {
		common.PrintRuntimeErr(ctx, "set-priority", "set", err)
		return nil
	}
	fmt.Printf("Pinned %s to priority %d\n", id, value)
	return nil
}

func clearPriority(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" || id == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := revqcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "clear-priority", "new_client", err)
		return nil
	}
	defer client.Close()
	err = client.ClearPriority(context.Background(), id)
	if err != nil {
		common.PrintRuntimeErr(ctx, "clear-priority", "clear", err)
		return nil
	}
	fmt.Printf("%s now inherits its priority\n", id)
	return nil
}
