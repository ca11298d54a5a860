package main

import (
	"context"

	"github.com/mklimuk/haptics/cmd/haptics/console"
	"github.com/urfave/cli/v2"
)

var calibrateCmd = cli.Command{
	Name:  "calibrate",
	Usage: "run the chip's auto-calibration routine",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "yes",
			Usage: "skip the confirmation prompt",
		},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		if !c.Bool("yes") {
			answer, err := console.YesOrNo("the motor will vibrate during calibration, continue?")
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if answer != console.Yes {
				console.Info("calibration aborted")
				return nil
			}
		}
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		drv, err := openDriver(ctx, c)
		if err != nil {
			return console.Exit(1, "driver error: %s", console.Red(err))
		}
		ok, err := drv.Calibrate(ctx)
		if err != nil {
			return console.Exit(1, "calibration error: %s", console.Red(err))
		}
		if !ok {
			return console.Exit(1, "calibration finished with a %s diagnostic", console.Red("failed"))
		}
		console.PInfof(console.PictoWrench, "calibration %s", console.Green("passed"))
		return nil
	},
}
