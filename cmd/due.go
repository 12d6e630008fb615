package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/revq/revq/cmd/common"
	wire "github.com/revq/revq/common"
	"github.com/revq/revq/pkg/revqcli"
)

var (
	dueKind string
	dueAt   string

	dueFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "kind, k",
			Usage:       "restrict the list to one kind: incremental or flashcard",
			Destination: &dueKind,
		},
		cli.StringFlag{
			Name:        "at, t",
			Usage:       "evaluate dueness at this RFC3339 time instead of now",
			Destination: &dueAt,
		},
	}

	shieldTop int

	shieldFlags = []cli.Flag{
		cli.IntFlag{
			Name:        "top, n",
			Usage:       "number of elements to show (default: daemon config)",
			Destination: &shieldTop,
		},
		cli.StringFlag{
			Name:        "at, t",
			Usage:       "evaluate dueness at this RFC3339 time instead of now",
			Destination: &dueAt,
		},
	}
)

func parseAt(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func due(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	at, err := parseAt(dueAt)
	if err != nil {
		common.PrintRuntimeErr(ctx, "due", "parse_time", err)
		return nil
	}
	client, err := revqcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "due", "new_client", err)
		return nil
	}
	defer client.Close()
	res, err := client.Due(context.Background(), at, dueKind)
	if err != nil {
		common.PrintRuntimeErr(ctx, "due", "due", err)
		return nil
	}
	printDueItems(res.Items)
	return nil
}

func shield(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	at, err := parseAt(dueAt)
	if err != nil {
		common.PrintRuntimeErr(ctx, "shield", "parse_time", err)
		return nil
	}
	client, err := revqcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "shield", "new_client", err)
		return nil
	}
	defer client.Close()
	res, err := client.Shield(context.Background(), at, shieldTop)
	if err != nil {
		common.PrintRuntimeErr(ctx, "shield", "shield", err)
		return nil
	}
	printDueItems(res.Items)
	return nil
}

func printDueItems(items []wire.DueItem) {
	if len(items) == 0 {
		fmt.Println("Nothing is due.")
		return
	}
	fmt.Printf("%-4s %-36s %-12s %s\n", "PRI", "ID", "KIND", "DUE")
	for _, it := range items {
		fmt.Printf("%-4d %-36s %-12s %s\n",
			it.Priority, it.ID, it.Kind, it.DueAt.Local().Format(time.RFC3339))
	}
}
