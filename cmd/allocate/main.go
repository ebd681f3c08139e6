package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"supply-route-service/internal/services"
)

func main() {
	app := &cli.App{
		Name:  "allocate",
		Usage: "Run a cargo allocation over a network file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Required: true,
				Usage:    "specify the input network (.json, .yaml or .yml)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "specify the output file (stdout when empty)",
			},
			&cli.StringFlag{
				Name:  "variant",
				Usage: "full or direct (default: full when the network has vehicles)",
			},
			&cli.IntFlag{
				Name:  "max-trips",
				Value: services.MaxTripsPerVehicle,
				Usage: "specify the trip ceiling per vehicle",
			},
			&cli.BoolFlag{
				Name:  "diagnostics",
				Usage: "include remaining supply and unmet demand in the output",
			},
		},
		Action: func(ctx *cli.Context) error {
			opts := options{
				input:       ctx.String("input"),
				output:      ctx.String("output"),
				variant:     ctx.String("variant"),
				maxTrips:    ctx.Int("max-trips"),
				diagnostics: ctx.Bool("diagnostics"),
			}
			if opts.maxTrips <= 0 {
				return errors.New("invalid max-trips")
			}
			return doAllocate(ctx.Context, opts, os.Stdout)
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error: ", err)
		os.Exit(1)
	}
}
