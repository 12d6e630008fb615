package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/revq/revq/cmd/common"
	"github.com/revq/revq/pkg/revqcli"
)

var (
	trackKind   string
	trackParent string

	trackFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "kind, k",
			Usage:       "element kind: incremental or flashcard (default: incremental)",
			Value:       "incremental",
			Destination: &trackKind,
		},
		cli.StringFlag{
			Name:        "parent, p",
			Usage:       "optional parent element to inherit priority from",
			Destination: &trackParent,
		},
	}
)

func track(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" || id == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := revqcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "track", "new_client", err)
		return nil
	}
	defer client.Close()
	err = client.Track(context.Background(), id, trackKind, trackParent)
	if err != nil {
		common.PrintRuntimeErr(ctx, "track", "track", err)
		return nil
	}
	fmt.Printf("Tracking %s (%s)\n", id, trackKind)
	return nil
}

func get(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" || id == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := revqcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "get", "new_client", err)
		return nil
	}
	defer client.Close()
	res, err := client.Get(context.Background(), id)
	if err != nil {
		common.PrintRuntimeErr(ctx, "get", "get", err)
		return nil
	}
	fmt.Printf("Id: %s\nKind: %s\n", res.ID, res.Kind)
	if res.Parent != "" {
		fmt.Printf("Parent: %s\n", res.Parent)
	}
	if res.ExplicitPriority != nil {
		fmt.Printf("Priority: %d (explicit)\n", *res.ExplicitPriority)
	} else {
		fmt.Printf("Priority: %d (inherited)\n", res.EffectivePriority)
	}
	if res.NextDueAt != nil {
		fmt.Printf("Next Due: %s\n", res.NextDueAt.Local().Format(time.RFC3339))
	} else {
		fmt.Println("Next Due: not scheduled")
	}
	fmt.Printf("Repetitions: %d\n", len(res.History))
	for _, rep := range res.History {
		fmt.Printf("  %s  interval %.1fd\n",
			rep.At.Local().Format(time.RFC3339), rep.Interval)
	}
	return nil
}

func remove(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" || id == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := revqcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "rm", "new_client", err)
		return nil
	}
	defer client.Close()
	err = client.Remove(context.Background(), id)
	if err != nil {
		common.PrintRuntimeErr(ctx, "rm", "remove", err)
		return nil
	}
	fmt.Printf("Stopped tracking %s\n", id)
	return nil
}

func link(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" || id == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	parent := ctx.Args().Get(1)
	client, err := revqcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "link", "new_client", err)
		return nil
	}
	defer client.Close()
	err = client.SetParent(context.Background(), id, parent)
	if err != nil {
		common.PrintRuntimeErr(ctx, "link", "set_parent", err)
		return nil
	}
	if parent == "" {
		fmt.Printf("%s is now a root element\n", id)
	} else {
		fmt.Printf("Linked %s under %s\n", id, parent)
	}
	return nil
}
