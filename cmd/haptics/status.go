package main

import (
	"context"
	"os"

	"github.com/mklimuk/haptics/cmd/haptics/console"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

var statusCmd = cli.Command{
	Name:  "status",
	Usage: "print the chip status and current configuration",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		drv, err := openDriver(ctx, c)
		if err != nil {
			return console.Exit(1, "driver error: %s", console.Red(err))
		}
		status, err := drv.Status(ctx)
		if err != nil {
			return console.Exit(1, "status read error: %s", console.Red(err))
		}
		mode, err := drv.Mode(ctx)
		if err != nil {
			return console.Exit(1, "mode read error: %s", console.Red(err))
		}
		library, err := drv.Library(ctx)
		if err != nil {
			return console.Exit(1, "library read error: %s", console.Red(err))
		}
		report := struct {
			DeviceID    int    `yaml:"device_id"`
			Mode        string `yaml:"mode"`
			Library     string `yaml:"library"`
			DiagFailed  bool   `yaml:"diag_failed"`
			OverTemp    bool   `yaml:"over_temp"`
			OverCurrent bool   `yaml:"over_current"`
		}{
			DeviceID:    status.DeviceID,
			Mode:        mode.String(),
			Library:     library.String(),
			DiagFailed:  status.DiagFailed,
			OverTemp:    status.OverTemp,
			OverCurrent: status.OverCurrent,
		}
		enc := yaml.NewEncoder(os.Stdout)
		err = enc.Encode(report)
		if err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
		return nil
	},
}
