package main

import (
	"context"
	"time"

	"github.com/mklimuk/haptics/cmd/haptics/console"
	"github.com/mklimuk/haptics/haptic"
	"github.com/urfave/cli/v2"
)

var realtimeCmd = cli.Command{
	Name:    "realtime",
	Aliases: []string{"rtp"},
	Usage:   "drive the motor in real-time playback mode",
	Flags: append([]cli.Flag{
		&cli.IntFlag{
			Name:  "value",
			Usage: "drive amplitude (-127 to 255)",
			Value: 127,
		},
		&cli.DurationFlag{
			Name:  "duration",
			Usage: "how long to drive the motor",
			Value: time.Second,
		},
		&cli.BoolFlag{
			Name:  "ramp",
			Usage: "ramp the amplitude from 0 up to the target value",
		},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		drv, err := openDriver(ctx, c)
		if err != nil {
			return console.Exit(1, "driver error: %s", console.Red(err))
		}
		err = drv.SetRealtimeValue(ctx, 0)
		if err != nil {
			return console.Exit(1, "real-time value error: %s", console.Red(err))
		}
		err = drv.SetMode(ctx, haptic.ModeRealtime)
		if err != nil {
			return console.Exit(1, "mode error: %s", console.Red(err))
		}
		target := c.Int("value")
		duration := c.Duration("duration")
		if c.Bool("ramp") {
			steps := 10
			for i := 1; i <= steps; i++ {
				err = drv.SetRealtimeValue(ctx, target*i/steps)
				if err != nil {
					return console.Exit(1, "real-time value error: %s", console.Red(err))
				}
				time.Sleep(duration / time.Duration(steps))
			}
		} else {
			console.PInfof(console.PictoVibration, "driving at %s for %s", console.White(target), console.White(duration))
			err = drv.SetRealtimeValue(ctx, target)
			if err != nil {
				return console.Exit(1, "real-time value error: %s", console.Red(err))
			}
			time.Sleep(duration)
		}
		// silence the motor and leave real-time mode
		err = drv.SetRealtimeValue(ctx, 0)
		if err != nil {
			return console.Exit(1, "real-time value error: %s", console.Red(err))
		}
		err = drv.SetMode(ctx, haptic.ModeInternalTrigger)
		if err != nil {
			return console.Exit(1, "mode error: %s", console.Red(err))
		}
		return nil
	},
}
