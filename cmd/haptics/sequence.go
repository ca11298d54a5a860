package main

import (
	"context"
	"strconv"

	"github.com/mklimuk/haptics/cmd/haptics/console"
	"github.com/urfave/cli/v2"
)

var sequenceCmd = cli.Command{
	Name:    "sequence",
	Aliases: []string{"seq"},
	Usage:   "inspect and program waveform sequence slots",
	Subcommands: cli.Commands{
		&sequenceShowCmd,
		&sequenceSetCmd,
	},
}

var sequenceShowCmd = cli.Command{
	Name:  "show",
	Usage: "read and print all 8 sequence slots",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		drv, err := openDriver(ctx, c)
		if err != nil {
			return console.Exit(1, "driver error: %s", console.Red(err))
		}
		slot := 0
		for value, err := range drv.Sequence().Values(ctx) {
			if err != nil {
				return console.Exit(1, "slot read error: %s", console.Red(err))
			}
			console.PInfof(console.PictoPin, "slot %s: %s", console.White(slot), console.White(value))
			slot++
		}
		return nil
	},
}

var sequenceSetCmd = cli.Command{
	Name:      "set",
	Usage:     "program one sequence slot",
	ArgsUsage: "<slot 0-7> <effect id or pause:<seconds>>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return console.Exit(1, "usage: haptics sequence set <slot> <value>")
		}
		slot, err := strconv.Atoi(c.Args().Get(0))
		if err != nil {
			return console.Exit(1, "invalid slot: %s", console.Red(err))
		}
		value, err := parseSlotValue(c.Args().Get(1))
		if err != nil {
			return console.Exit(1, "invalid value: %s", console.Red(err))
		}
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		drv, err := openDriver(ctx, c)
		if err != nil {
			return console.Exit(1, "driver error: %s", console.Red(err))
		}
		err = drv.Sequence().Set(ctx, slot, value)
		if err != nil {
			return console.Exit(1, "slot write error: %s", console.Red(err))
		}
		console.PInfof(console.PictoPin, "slot %s <- %s", console.White(slot), console.White(value))
		return nil
	},
}
