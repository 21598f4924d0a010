// Package cli contains the stewart command line application.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	flagConfig     = "config"
	flagDebug      = "debug"
	flagTrajectory = "trajectory"
	flagPath       = "path"
	flagSteps      = "steps"
	flagDuration   = "duration"
	flagCSV        = "csv"
	flagOut        = "out"
)

func trajectoryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagTrajectory,
			Aliases: []string{"t"},
			Usage:   "trajectory `NAME` or key to run",
		},
		&cli.StringFlag{
			Name:  flagPath,
			Usage: "SVG path `DATA` to draw instead of a named trajectory",
		},
		&cli.IntFlag{
			Name:  flagSteps,
			Value: 20,
			Usage: "number of samples after the first",
		},
	}
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "stewart",
		Usage:           "inspect and simulate a stewart platform",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "check",
				Usage:  "validate the configuration and print the platform geometry",
				Action: CheckAction,
			},
			{
				Name:   "trajectories",
				Usage:  "list the trajectories that can be played",
				Action: TrajectoriesAction,
			},
			{
				Name:  "angles",
				Usage: "simulate a trajectory and print the servo angles or commands",
				Flags: append(trajectoryFlags(),
					&cli.DurationFlag{
						Name:  flagDuration,
						Usage: "simulated time, defaults to one run of the trajectory",
					},
					&cli.BoolFlag{
						Name:  flagCSV,
						Usage: "print CSV instead of a table",
					},
				),
				Action: AnglesAction,
			},
			{
				Name:  "plot",
				Usage: "plot the path a trajectory traces over the base",
				Flags: append(trajectoryFlags(),
					&cli.StringFlag{
						Name:     flagOut,
						Aliases:  []string{"o"},
						Required: true,
						Usage:    "write the plot to `FILE`, format by extension (png, svg, pdf)",
					},
				),
				Action: PlotAction,
			},
		},
	}
}
