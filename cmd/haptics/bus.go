package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mklimuk/haptics"
	"github.com/mklimuk/haptics/adapter"
	"github.com/mklimuk/haptics/haptic"
	"github.com/mklimuk/haptics/i2c"
	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
)

var busFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "adapter",
		Usage: "bus adapter to use (mcp2221, i2c, gobot)",
		Value: "mcp2221",
	},
	&cli.StringFlag{
		Name:  "device",
		Usage: "i2c bus device name (i2c adapter only)",
		Value: "/dev/i2c-1",
	},
	&cli.IntFlag{
		Name:  "bus",
		Usage: "i2c bus number (gobot adapter only)",
		Value: 0,
	},
	&cli.IntFlag{
		Name:  "address",
		Usage: "device i2c address",
		Value: 0x5A,
	},
	&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
}

func openBus(c *cli.Context) (haptics.I2CBus, error) {
	switch c.String("adapter") {
	case "mcp2221":
		return adapter.NewMCP2221(), nil
	case "i2c":
		bus, err := i2c.NewGenericBus(c.String("device"))
		if err != nil {
			return nil, fmt.Errorf("could not open i2c bus: %w", err)
		}
		return bus, nil
	case "gobot":
		npi := nanopi.NewNeoAdaptor()
		err := npi.I2cBusAdaptor.Connect()
		if err != nil {
			return nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		return adapter.NewGobotBus(npi, c.Int("bus")), nil
	default:
		return nil, fmt.Errorf("unknown adapter: %s", c.String("adapter"))
	}
}

func openDriver(ctx context.Context, c *cli.Context) (*haptic.DRV2605, error) {
	bus, err := openBus(c)
	if err != nil {
		return nil, err
	}
	drv, err := haptic.New(ctx, bus, haptic.WithAddress(byte(c.Int("address"))))
	if err != nil {
		return nil, fmt.Errorf("driver initialization error: %w", err)
	}
	return drv, nil
}

// parseSlotValue turns a program token into a slot value: a bare integer is
// an effect id, "pause:<seconds>" is a timed pause.
func parseSlotValue(token string) (haptic.SlotValue, error) {
	if seconds, ok := strings.CutPrefix(token, "pause:"); ok {
		duration, err := strconv.ParseFloat(seconds, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid pause duration %q: %w", seconds, err)
		}
		pause, err := haptic.NewPause(duration)
		if err != nil {
			return nil, err
		}
		return pause, nil
	}
	id, err := strconv.Atoi(token)
	if err != nil {
		return nil, fmt.Errorf("invalid effect id %q: %w", token, err)
	}
	effect, err := haptic.NewEffect(id)
	if err != nil {
		return nil, err
	}
	return effect, nil
}
