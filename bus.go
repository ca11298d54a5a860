package haptics

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// I2CBus is the transport contract consumed by the drivers in this module.
// Implementations perform one addressed transaction per call and hold the bus
// only for the duration of that transaction.
type I2CBus interface {
	AddressableReader
	AddressableWriter
}
