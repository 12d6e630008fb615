package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"

	"github.com/revq/revq/cmd/common"
)

// BuildArgs carries build-time identification injected by the linker.
type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var build BuildArgs

// Execute wires the CLI application and runs it.
func Execute(args []string, bArgs BuildArgs) error {
	build = bArgs
	app := cli.App{
		Name:                  "revq",
		HelpName:              "revq",
		Usage:                 "A priority-driven incremental review scheduler.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "revq <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:                   "daemon",
				Usage:                  "run the scheduler daemon in the foreground",
				Action:                 daemon,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            DaemonDescription,
				UseShortOptionHandling: true,
				Flags:                  daemonFlags,
			},
			{
				Name:                   "due",
				Aliases:                []string{"d"},
				Usage:                  "list elements due for review, highest urgency first",
				Action:                 due,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            DueDescription,
				UseShortOptionHandling: true,
				Flags:                  dueFlags,
			},
			{
				Name:                   "shield",
				Aliases:                []string{"s"},
				Usage:                  "show only the top few due elements",
				Action:                 shield,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            ShieldDescription,
				UseShortOptionHandling: true,
				Flags:                  shieldFlags,
			},
			{
				Name:                   "review",
				Aliases:                []string{"r"},
				Usage:                  "mark an element reviewed and schedule the next repetition",
				Action:                 review,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            ReviewDescription,
				UseShortOptionHandling: true,
			},
			{
				Name:                   "track",
				Aliases:                []string{"t"},
				Usage:                  "start tracking an element",
				Action:                 track,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            TrackDescription,
				UseShortOptionHandling: true,
				Flags:                  trackFlags,
			},
			{
				Name:               "get",
				Aliases:            []string{"g"},
				Usage:              "show the tracked state of an element",
				Action:             get,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        GetDescription,
			},
			{
				Name:               "rm",
				Usage:              "stop tracking an element",
				Action:             remove,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        RemoveDescription,
			},
			{
				Name:               "link",
				Usage:              "attach an element under a parent in the hierarchy",
				Action:             link,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        LinkDescription,
			},
			{
				Name:                   "set-priority",
				Aliases:                []string{"p"},
				Usage:                  "pin an element to an explicit priority",
				Action:                 setPriority,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            SetPriorityDescription,
				UseShortOptionHandling: true,
			},
			{
				Name:               "clear-priority",
				Usage:              "revert an element to inherited priority",
				Action:             clearPriority,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ClearPriorityDescription,
			},
			{
				Name:                   "pretag",
				Usage:                  "settle priorities across the whole hierarchy",
				Action:                 pretagRun,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            PretagDescription,
				UseShortOptionHandling: true,
				Flags:                  pretagFlags,
				Subcommands: []cli.Command{
					{
						Name:   "cancel",
						Usage:  "cancel the running pretagging pass",
						Action: pretagCancel,
					},
					{
						Name:   "status",
						Usage:  "show the state of the last pretagging pass",
						Action: pretagStatus,
					},
				},
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of revq",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:                 due,
		Flags:                  dueFlags,
		UseShortOptionHandling: true,
		HideHelp:               true,
		HideVersion:            true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
