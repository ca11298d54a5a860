package haptic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockI2CBus is a mock implementation of haptics.I2CBus using testify/mock
type MockI2CBus struct {
	mock.Mock
}

func (m *MockI2CBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, append([]byte(nil), buffer...))
	return args.Error(0)
}

func (m *MockI2CBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	if args.Get(0) != nil {
		if data, ok := args.Get(0).([]byte); ok && len(data) <= len(buffer) {
			copy(buffer, data)
		}
	}
	return args.Error(1)
}

func (m *MockI2CBus) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// simulatedChip emulates the chip's register file behind the bus contract:
// a one-byte write moves the register pointer, a two-byte write stores a
// value, a read returns the byte at the current pointer.
type simulatedChip struct {
	registers map[byte]byte
	pointer   byte
	writes    int
	onWrite   func(reg, value byte) (byte, bool)
}

func newSimulatedChip(status byte) *simulatedChip {
	return &simulatedChip{
		registers: map[byte]byte{regStatus: status},
	}
}

func (c *simulatedChip) WriteToAddr(_ context.Context, _ byte, buffer []byte) error {
	switch len(buffer) {
	case 1:
		c.pointer = buffer[0]
	case 2:
		value := buffer[1]
		if c.onWrite != nil {
			if v, ok := c.onWrite(buffer[0], value); ok {
				value = v
			}
		}
		c.registers[buffer[0]] = value
		c.writes++
	}
	return nil
}

func (c *simulatedChip) ReadFromAddr(_ context.Context, _ byte, buffer []byte) error {
	buffer[0] = c.registers[c.pointer]
	return nil
}

func (c *simulatedChip) Release(_ context.Context) error {
	return nil
}

func TestDRV2605_New_InitializesChip(t *testing.T) {
	// device id 3 at bit offset 5
	chip := newSimulatedChip(0x60)
	drv, err := New(context.Background(), chip)
	assert.NoError(t, err)
	assert.NotNil(t, drv)

	assert.Equal(t, byte(0), chip.registers[regMode])
	assert.Equal(t, byte(1), chip.registers[regLibrary])
	assert.Equal(t, byte(0), chip.registers[regRTPInput])
	assert.Equal(t, byte(1), chip.registers[regWaveSeq1])
	assert.Equal(t, byte(0), chip.registers[regWaveSeq1+1])
	assert.Equal(t, byte(0x64), chip.registers[regAudioMax])
	assert.Zero(t, chip.registers[regFeedback]&0x80, "feedback bit7 cleared (ERM)")
	assert.NotZero(t, chip.registers[regControl3]&0x20, "control3 bit5 set (ERM open loop)")
}

func TestDRV2605_New_SupportsBothRevisions(t *testing.T) {
	tests := []struct {
		name   string
		status byte
		err    error
	}{
		{"device id 3 (DRV2605)", 0x60, nil},
		{"device id 7 (DRV2605L)", 0xE0, nil},
		{"device id 5", 0xA0, ErrDeviceNotFound},
		{"device id 0", 0x00, ErrDeviceNotFound},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			chip := newSimulatedChip(test.status)
			drv, err := New(context.Background(), chip)
			if test.err != nil {
				assert.ErrorIs(t, err, test.err)
				assert.Nil(t, drv)
				assert.Zero(t, chip.writes, "no register writes after failed identity check")
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, drv)
		})
	}
}

func TestDRV2605_New_TransportError(t *testing.T) {
	bus := &MockI2CBus{}
	busErr := errors.New("bus unavailable")
	bus.On("WriteToAddr", mock.Anything, byte(0x5A), mock.Anything).Return(busErr)

	drv, err := New(context.Background(), bus)
	assert.ErrorIs(t, err, busErr)
	assert.Nil(t, drv)
}

func TestDRV2605_CustomAddress(t *testing.T) {
	bus := &MockI2CBus{}
	busErr := errors.New("nack")
	bus.On("WriteToAddr", mock.Anything, byte(0x59), mock.Anything).Return(busErr)

	_, err := New(context.Background(), bus, WithAddress(0x59))
	assert.ErrorIs(t, err, busErr)
	bus.AssertNotCalled(t, "WriteToAddr", mock.Anything, byte(0x5A), mock.Anything)
}

func newTestDriver(t *testing.T) (*DRV2605, *simulatedChip) {
	t.Helper()
	chip := newSimulatedChip(0x60)
	drv, err := New(context.Background(), chip)
	assert.NoError(t, err)
	return drv, chip
}

func TestDRV2605_PlayStop(t *testing.T) {
	drv, chip := newTestDriver(t)
	ctx := context.Background()

	assert.NoError(t, drv.Play(ctx))
	assert.Equal(t, byte(1), chip.registers[regGo])
	assert.NoError(t, drv.Stop(ctx))
	assert.Equal(t, byte(0), chip.registers[regGo])
}

func TestDRV2605_Mode(t *testing.T) {
	drv, chip := newTestDriver(t)
	ctx := context.Background()

	err := drv.SetMode(ctx, Mode(8))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, byte(0), chip.registers[regMode], "failed set must not touch the register")

	for mode := ModeInternalTrigger; mode <= ModeAutoCalibration; mode++ {
		assert.NoError(t, drv.SetMode(ctx, mode))
		got, err := drv.Mode(ctx)
		assert.NoError(t, err)
		assert.Equal(t, mode, got)
	}
}

func TestDRV2605_Library(t *testing.T) {
	drv, chip := newTestDriver(t)
	ctx := context.Background()

	err := drv.SetLibrary(ctx, Library(7))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, byte(1), chip.registers[regLibrary])

	for lib := LibraryEmpty; lib <= LibraryLRA; lib++ {
		assert.NoError(t, drv.SetLibrary(ctx, lib))
		got, err := drv.Library(ctx)
		assert.NoError(t, err)
		assert.Equal(t, lib, got)
	}

	// the getter masks to the low 3 bits
	chip.registers[regLibrary] = 0xF0 | byte(LibraryLRA)
	got, err := drv.Library(ctx)
	assert.NoError(t, err)
	assert.Equal(t, LibraryLRA, got)
}

func TestDRV2605_RealtimeValue(t *testing.T) {
	drv, chip := newTestDriver(t)
	ctx := context.Background()

	for _, value := range []int{-128, 256, 1000} {
		assert.ErrorIs(t, drv.SetRealtimeValue(ctx, value), ErrInvalidArgument)
	}

	// both signed and unsigned callers land on the same 8 bits
	assert.NoError(t, drv.SetRealtimeValue(ctx, -127))
	assert.Equal(t, byte(0x81), chip.registers[regRTPInput])
	assert.NoError(t, drv.SetRealtimeValue(ctx, 255))
	assert.Equal(t, byte(0xFF), chip.registers[regRTPInput])
	assert.NoError(t, drv.SetRealtimeValue(ctx, 64))
	got, err := drv.RealtimeValue(ctx)
	assert.NoError(t, err)
	assert.Equal(t, byte(64), got)
}

func TestDRV2605_SetWaveform(t *testing.T) {
	drv, chip := newTestDriver(t)
	ctx := context.Background()

	assert.ErrorIs(t, drv.SetWaveform(ctx, 124, 0), ErrInvalidArgument)
	assert.ErrorIs(t, drv.SetWaveform(ctx, -1, 0), ErrInvalidArgument)
	assert.ErrorIs(t, drv.SetWaveform(ctx, 1, 8), ErrSlotOutOfRange)
	assert.ErrorIs(t, drv.SetWaveform(ctx, 1, -1), ErrSlotOutOfRange)

	assert.NoError(t, drv.SetWaveform(ctx, 47, 7))
	assert.Equal(t, byte(47), chip.registers[regWaveSeq1+7])
}

func TestDRV2605_MotorSelection(t *testing.T) {
	drv, chip := newTestDriver(t)
	ctx := context.Background()

	// preserve unrelated feedback bits across the read-modify-write
	chip.registers[regFeedback] = 0x36
	assert.NoError(t, drv.UseLRA(ctx))
	assert.Equal(t, byte(0xB6), chip.registers[regFeedback])
	assert.NoError(t, drv.UseERM(ctx))
	assert.Equal(t, byte(0x36), chip.registers[regFeedback])
}

func TestDRV2605_Sequence(t *testing.T) {
	drv, chip := newTestDriver(t)
	ctx := context.Background()
	seq := drv.Sequence()

	effect, err := NewEffect(47)
	assert.NoError(t, err)
	assert.NoError(t, seq.Set(ctx, 2, effect))
	got, err := seq.Get(ctx, 2)
	assert.NoError(t, err)
	assert.Equal(t, effect, got)

	pause, err := NewPause(0.30)
	assert.NoError(t, err)
	assert.NoError(t, seq.Set(ctx, 3, pause))
	got, err = seq.Get(ctx, 3)
	assert.NoError(t, err)
	assert.Equal(t, pause, got)
	assert.Equal(t, byte(0x80|30), chip.registers[regWaveSeq1+3])
}

func TestDRV2605_Sequence_Bounds(t *testing.T) {
	drv, _ := newTestDriver(t)
	ctx := context.Background()
	seq := drv.Sequence()

	effect, err := NewEffect(1)
	assert.NoError(t, err)
	assert.ErrorIs(t, seq.Set(ctx, 8, effect), ErrSlotOutOfRange)
	assert.ErrorIs(t, seq.Set(ctx, -1, effect), ErrSlotOutOfRange)
	assert.ErrorIs(t, seq.Set(ctx, 0, nil), ErrInvalidSlotValue)

	_, err = seq.Get(ctx, 8)
	assert.ErrorIs(t, err, ErrSlotOutOfRange)
	_, err = seq.Get(ctx, -1)
	assert.ErrorIs(t, err, ErrSlotOutOfRange)
}

func TestDRV2605_Sequence_Values(t *testing.T) {
	drv, chip := newTestDriver(t)
	ctx := context.Background()
	seq := drv.Sequence()

	chip.registers[regWaveSeq1] = 12
	chip.registers[regWaveSeq1+1] = 0x80 | 50
	for slot := 2; slot < 8; slot++ {
		chip.registers[regWaveSeq1+byte(slot)] = 0
	}

	var values []SlotValue
	for value, err := range seq.Values(ctx) {
		assert.NoError(t, err)
		values = append(values, value)
	}
	assert.Len(t, values, 8)
	assert.Equal(t, 12, values[0].(Effect).ID())
	assert.Equal(t, 0.5, values[1].(Pause).Duration())

	// iteration reads fresh values, so a restart observes external changes
	chip.registers[regWaveSeq1] = 88
	for value, err := range seq.Values(ctx) {
		assert.NoError(t, err)
		assert.Equal(t, 88, value.(Effect).ID())
		break
	}
}

func TestDRV2605_Status(t *testing.T) {
	drv, chip := newTestDriver(t)
	ctx := context.Background()

	chip.registers[regStatus] = 0x60 | 0x08 | 0x01
	status, err := drv.Status(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, status.DeviceID)
	assert.True(t, status.DiagFailed)
	assert.False(t, status.OverTemp)
	assert.True(t, status.OverCurrent)
}

func TestDRV2605_Calibrate(t *testing.T) {
	drv, chip := newTestDriver(t)
	ctx := context.Background()

	// calibration completes instantly: the chip clears GO as soon as it is set
	chip.registers[regStatus] = 0x60
	chip.onWrite = func(reg, value byte) (byte, bool) {
		if reg == regGo && value == 1 {
			return 0, true
		}
		return 0, false
	}
	ok, err := drv.Calibrate(ctx)
	assert.NoError(t, err)
	assert.True(t, ok)
	mode, err := drv.Mode(ctx)
	assert.NoError(t, err)
	assert.Equal(t, ModeInternalTrigger, mode)
}

func TestDRV2605_TransportErrorPropagation(t *testing.T) {
	chip := newSimulatedChip(0x60)
	drv, err := New(context.Background(), chip)
	assert.NoError(t, err)

	// swap in a failing bus after construction
	bus := &MockI2CBus{}
	busErr := errors.New("no ack")
	bus.On("WriteToAddr", mock.Anything, byte(0x5A), mock.Anything).Return(busErr)
	drv.transport = bus

	assert.ErrorIs(t, drv.Play(context.Background()), busErr)
	assert.ErrorIs(t, drv.SetMode(context.Background(), ModeRealtime), busErr)
	_, err = drv.Mode(context.Background())
	assert.ErrorIs(t, err, busErr)
}
