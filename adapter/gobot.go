package adapter

import (
	"context"
	"fmt"
	"sync"

	"github.com/mklimuk/haptics"
	"gobot.io/x/gobot/v2/drivers/i2c"
)

var _ haptics.I2CBus = &GobotBus{}

// GobotBus bridges a gobot I2C adaptor to the module's transport contract.
// Gobot binds a driver to one device address, so drivers are created lazily
// per address and halted on Release.
type GobotBus struct {
	mx      sync.Mutex
	adaptor i2c.Connector
	bus     int
	drivers map[byte]*i2c.GenericDriver
}

func NewGobotBus(adaptor i2c.Connector, bus int) *GobotBus {
	return &GobotBus{
		adaptor: adaptor,
		bus:     bus,
		drivers: make(map[byte]*i2c.GenericDriver),
	}
}

func (b *GobotBus) driver(address byte) (*i2c.GenericDriver, error) {
	drv, ok := b.drivers[address]
	if ok {
		return drv, nil
	}
	drv = i2c.NewGenericDriver(b.adaptor, "haptics", int(address), func(c i2c.Config) {
		c.SetBus(b.bus)
	})
	err := drv.Start()
	if err != nil {
		return nil, fmt.Errorf("could not start driver for address %#x: %w", address, err)
	}
	b.drivers[address] = drv
	return drv, nil
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	drv, err := b.driver(address)
	if err != nil {
		return err
	}
	err = drv.Write(buffer)
	if err != nil {
		return fmt.Errorf("could not write to address %#x: %w", address, err)
	}
	return nil
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	drv, err := b.driver(address)
	if err != nil {
		return err
	}
	err = drv.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from address %#x: %w", address, err)
	}
	return nil
}

// Release halts all drivers started on this bus.
func (b *GobotBus) Release(ctx context.Context) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var firstErr error
	for address, drv := range b.drivers {
		err := drv.Halt()
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not halt driver for address %#x: %w", address, err)
		}
		delete(b.drivers, address)
	}
	return firstErr
}
