package main

import (
	"context"
	"time"

	"github.com/mklimuk/haptics/cmd/haptics/console"
	"github.com/mklimuk/haptics/haptic"
	"github.com/urfave/cli/v2"
)

var playCmd = cli.Command{
	Name:      "play",
	Usage:     "program the waveform sequence and start playback",
	ArgsUsage: "[effect id or pause:<seconds>, up to 8 tokens]",
	Flags: append([]cli.Flag{
		&cli.IntFlag{
			Name:  "library",
			Usage: "effect library to select (0-6)",
			Value: int(haptic.LibraryTS2200A),
		},
		&cli.BoolFlag{
			Name:  "sweep",
			Usage: "play every library effect (1-123) in turn instead of a sequence",
		},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		drv, err := openDriver(ctx, c)
		if err != nil {
			return console.Exit(1, "driver error: %s", console.Red(err))
		}
		err = drv.SetLibrary(ctx, haptic.Library(c.Int("library")))
		if err != nil {
			return console.Exit(1, "library selection error: %s", console.Red(err))
		}
		if c.Bool("sweep") {
			return sweep(ctx, drv)
		}
		if c.NArg() == 0 {
			return console.Exit(1, "nothing to play, pass effect ids or pause:<seconds> tokens")
		}
		if c.NArg() > 8 {
			return console.Exit(1, "a sequence holds at most 8 slots, got %d tokens", c.NArg())
		}
		seq := drv.Sequence()
		slot := 0
		for _, token := range c.Args().Slice() {
			value, err := parseSlotValue(token)
			if err != nil {
				return console.Exit(1, "invalid sequence token: %s", console.Red(err))
			}
			err = seq.Set(ctx, slot, value)
			if err != nil {
				return console.Exit(1, "slot write error: %s", console.Red(err))
			}
			console.PInfof(console.PictoPin, "slot %s <- %s", console.White(slot), console.White(value))
			slot++
		}
		if slot < 8 {
			// terminate the sequence so stale slots do not play
			end, err := haptic.NewEffect(0)
			if err != nil {
				return console.Exit(1, "internal error: %s", console.Red(err))
			}
			err = seq.Set(ctx, slot, end)
			if err != nil {
				return console.Exit(1, "slot write error: %s", console.Red(err))
			}
		}
		err = drv.Play(ctx)
		if err != nil {
			return console.Exit(1, "playback error: %s", console.Red(err))
		}
		console.PInfof(console.PictoPlay, "sequence playing")
		return nil
	},
}

func sweep(ctx context.Context, drv *haptic.DRV2605) error {
	for id := 1; id <= 123; id++ {
		console.PInfof(console.PictoVibration, "effect %s", console.White(id))
		err := drv.SetWaveform(ctx, id, 0)
		if err != nil {
			return console.Exit(1, "slot write error: %s", console.Red(err))
		}
		err = drv.SetWaveform(ctx, 0, 1)
		if err != nil {
			return console.Exit(1, "slot write error: %s", console.Red(err))
		}
		err = drv.Play(ctx)
		if err != nil {
			return console.Exit(1, "playback error: %s", console.Red(err))
		}
		time.Sleep(500 * time.Millisecond)
		err = drv.Stop(ctx)
		if err != nil {
			return console.Exit(1, "playback error: %s", console.Red(err))
		}
	}
	return nil
}

var motorCmd = cli.Command{
	Name:  "motor",
	Usage: "select the motor type the chip drives",
	Subcommands: cli.Commands{
		&cli.Command{
			Name:  "erm",
			Usage: "eccentric rotating mass motor (the default)",
			Flags: busFlags,
			Action: func(c *cli.Context) error {
				ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
				drv, err := openDriver(ctx, c)
				if err != nil {
					return console.Exit(1, "driver error: %s", console.Red(err))
				}
				err = drv.UseERM(ctx)
				if err != nil {
					return console.Exit(1, "motor selection error: %s", console.Red(err))
				}
				console.PInfof(console.PictoMotor, "ERM feedback selected")
				return nil
			},
		},
		&cli.Command{
			Name:  "lra",
			Usage: "linear resonant actuator motor",
			Flags: busFlags,
			Action: func(c *cli.Context) error {
				ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
				drv, err := openDriver(ctx, c)
				if err != nil {
					return console.Exit(1, "driver error: %s", console.Red(err))
				}
				err = drv.UseLRA(ctx)
				if err != nil {
					return console.Exit(1, "motor selection error: %s", console.Red(err))
				}
				console.PInfof(console.PictoMotor, "LRA feedback selected")
				return nil
			},
		},
	},
}
