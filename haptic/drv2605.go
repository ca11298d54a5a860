package haptic

import (
	"context"
	"fmt"
	"time"

	"github.com/mklimuk/haptics"
)

const drv2605DefaultAddress = 0x5A

// Register map (per datasheet)
const (
	regStatus     byte = 0x00
	regMode       byte = 0x01
	regRTPInput   byte = 0x02
	regLibrary    byte = 0x03
	regWaveSeq1   byte = 0x04 // slots 0-7 occupy 0x04-0x0B
	regGo         byte = 0x0C
	regOverdrive  byte = 0x0D
	regSustainPos byte = 0x0E
	regSustainNeg byte = 0x0F
	regBreak      byte = 0x10
	regAudioMax   byte = 0x13
	regFeedback   byte = 0x1A
	regControl3   byte = 0x1D
)

// Status byte bit layout:
// Bit7..5: DEVICE_ID (3 = DRV2605, 7 = DRV2605L)
// Bit3: DIAG_RESULT (0 = last diagnostic/calibration passed)
// Bit1: OVER_TEMP
// Bit0: OC_DETECT (overcurrent)
const (
	statusBitDiagFailed  = 0x08
	statusBitOverTemp    = 0x02
	statusBitOverCurrent = 0x01
)

const feedbackBitLRA = 0x80
const control3BitERMOpenLoop = 0x20

var ErrDeviceNotFound = fmt.Errorf("drv2605: no supported device found, check wiring")
var ErrInvalidArgument = fmt.Errorf("value out of range")
var ErrSlotOutOfRange = fmt.Errorf("slot must be a value within 0-7")
var ErrInvalidSlotValue = fmt.Errorf("slot value must be an Effect or a Pause")

// Mode is the chip operating mode (MODE register, 0x01).
type Mode byte

const (
	ModeInternalTrigger Mode = 0x00
	ModeExternalEdge    Mode = 0x01
	ModeExternalLevel   Mode = 0x02
	ModePWMAnalog       Mode = 0x03
	ModeAudioVibe       Mode = 0x04
	ModeRealtime        Mode = 0x05
	ModeDiagnostics     Mode = 0x06
	ModeAutoCalibration Mode = 0x07
)

func (m Mode) String() string {
	switch m {
	case ModeInternalTrigger:
		return "internal-trigger"
	case ModeExternalEdge:
		return "external-trigger-edge"
	case ModeExternalLevel:
		return "external-trigger-level"
	case ModePWMAnalog:
		return "pwm-analog"
	case ModeAudioVibe:
		return "audio-to-vibration"
	case ModeRealtime:
		return "realtime-playback"
	case ModeDiagnostics:
		return "diagnostics"
	case ModeAutoCalibration:
		return "auto-calibration"
	default:
		return fmt.Sprintf("unknown(%#x)", byte(m))
	}
}

// Library selects the built-in effect waveform library (LIBRARY register, 0x03).
type Library byte

const (
	LibraryEmpty   Library = 0x00
	LibraryTS2200A Library = 0x01
	LibraryTS2200B Library = 0x02
	LibraryTS2200C Library = 0x03
	LibraryTS2200D Library = 0x04
	LibraryTS2200E Library = 0x05
	LibraryLRA     Library = 0x06
)

func (l Library) String() string {
	switch l {
	case LibraryEmpty:
		return "empty"
	case LibraryTS2200A, LibraryTS2200B, LibraryTS2200C, LibraryTS2200D, LibraryTS2200E:
		return fmt.Sprintf("TS2200-%c", 'A'+byte(l)-1)
	case LibraryLRA:
		return "LRA"
	default:
		return fmt.Sprintf("unknown(%#x)", byte(l))
	}
}

// DRV2605 represents a TI DRV2605/DRV2605L haptic motor driver.
// See: https://www.ti.com/lit/ds/symlink/drv2605.pdf
//
// The instance reuses a two-byte scratch buffer across register transactions
// and is therefore not safe for concurrent use. Callers sharing one chip
// between goroutines must serialize access externally.
type DRV2605 struct {
	transport haptics.I2CBus
	address   byte
	buf       []byte
}

type DRV2605Config struct {
	Address byte
}

type DRV2605ConfigOption func(*DRV2605Config)

func WithAddress(address byte) DRV2605ConfigOption {
	return func(c *DRV2605Config) {
		c.Address = address
	}
}

// New binds a DRV2605 driver to the given transport, verifies the device
// identity and initializes the chip into internal-trigger mode with the
// TS2200-A library, ERM open-loop drive and an empty-ish sequence (slot 0
// preloaded with effect 1, "strong click"). Any transport failure aborts
// construction and leaves the driver unusable.
func New(ctx context.Context, trans haptics.I2CBus, opts ...DRV2605ConfigOption) (*DRV2605, error) {
	config := &DRV2605Config{
		Address: drv2605DefaultAddress,
	}
	for _, opt := range opts {
		opt(config)
	}
	d := &DRV2605{
		transport: trans,
		address:   config.Address,
		buf:       make([]byte, 2),
	}
	status, err := d.readRegister(ctx, regStatus)
	if err != nil {
		return nil, fmt.Errorf("drv2605: could not read status register: %w", err)
	}
	// device id lives in status bits 5-7
	deviceID := (status >> 5) & 0x07
	if deviceID != 3 && deviceID != 7 {
		return nil, fmt.Errorf("%w (device id %d)", ErrDeviceNotFound, deviceID)
	}
	init := []struct {
		reg   byte
		value byte
	}{
		{regMode, 0x00},      // out of standby
		{regRTPInput, 0x00},  // no real-time playback
		{regWaveSeq1, 1},     // strong click in slot 0
		{regWaveSeq1 + 1, 0}, // end of sequence
		{regOverdrive, 0},
		{regSustainPos, 0},
		{regSustainNeg, 0},
		{regBreak, 0},
		{regAudioMax, 0x64},
	}
	for _, w := range init {
		err = d.writeRegister(ctx, w.reg, w.value)
		if err != nil {
			return nil, fmt.Errorf("drv2605: could not initialize register %#x: %w", w.reg, err)
		}
	}
	err = d.UseERM(ctx)
	if err != nil {
		return nil, err
	}
	control3, err := d.readRegister(ctx, regControl3)
	if err != nil {
		return nil, fmt.Errorf("drv2605: could not read control register 3: %w", err)
	}
	err = d.writeRegister(ctx, regControl3, control3|control3BitERMOpenLoop)
	if err != nil {
		return nil, fmt.Errorf("drv2605: could not enable ERM open-loop: %w", err)
	}
	err = d.SetMode(ctx, ModeInternalTrigger)
	if err != nil {
		return nil, err
	}
	err = d.SetLibrary(ctx, LibraryTS2200A)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// readRegister sets the register pointer and reads the byte back. The scratch
// buffer is reused across calls, hence the non-reentrancy note on the type.
func (d *DRV2605) readRegister(ctx context.Context, reg byte) (byte, error) {
	d.buf[0] = reg
	err := d.transport.WriteToAddr(ctx, d.address, d.buf[:1])
	if err != nil {
		return 0, fmt.Errorf("could not set register pointer to %#x: %w", reg, err)
	}
	err = d.transport.ReadFromAddr(ctx, d.address, d.buf[:1])
	if err != nil {
		return 0, fmt.Errorf("could not read register %#x: %w", reg, err)
	}
	return d.buf[0], nil
}

func (d *DRV2605) writeRegister(ctx context.Context, reg, value byte) error {
	d.buf[0] = reg
	d.buf[1] = value
	err := d.transport.WriteToAddr(ctx, d.address, d.buf[:2])
	if err != nil {
		return fmt.Errorf("could not write register %#x: %w", reg, err)
	}
	return nil
}

// Play starts playback of the programmed waveform sequence. The chip executes
// the sequence on its own timing; this call does not block until it finishes.
func (d *DRV2605) Play(ctx context.Context) error {
	err := d.writeRegister(ctx, regGo, 1)
	if err != nil {
		return fmt.Errorf("drv2605: could not start playback: %w", err)
	}
	return nil
}

// Stop halts in-progress playback.
func (d *DRV2605) Stop(ctx context.Context) error {
	err := d.writeRegister(ctx, regGo, 0)
	if err != nil {
		return fmt.Errorf("drv2605: could not stop playback: %w", err)
	}
	return nil
}

// Mode reads the current operating mode from the chip.
func (d *DRV2605) Mode(ctx context.Context) (Mode, error) {
	val, err := d.readRegister(ctx, regMode)
	if err != nil {
		return 0, fmt.Errorf("drv2605: %w", err)
	}
	return Mode(val), nil
}

func (d *DRV2605) SetMode(ctx context.Context, mode Mode) error {
	if mode > ModeAutoCalibration {
		return fmt.Errorf("drv2605: mode must be a value within 0-7, got %d: %w", mode, ErrInvalidArgument)
	}
	err := d.writeRegister(ctx, regMode, byte(mode))
	if err != nil {
		return fmt.Errorf("drv2605: %w", err)
	}
	return nil
}

// Library reads the selected waveform library (low 3 bits of the register).
func (d *DRV2605) Library(ctx context.Context) (Library, error) {
	val, err := d.readRegister(ctx, regLibrary)
	if err != nil {
		return 0, fmt.Errorf("drv2605: %w", err)
	}
	return Library(val & 0x07), nil
}

func (d *DRV2605) SetLibrary(ctx context.Context, lib Library) error {
	if lib > LibraryLRA {
		return fmt.Errorf("drv2605: library must be a value within 0-6, got %d: %w", lib, ErrInvalidArgument)
	}
	err := d.writeRegister(ctx, regLibrary, byte(lib))
	if err != nil {
		return fmt.Errorf("drv2605: %w", err)
	}
	return nil
}

// RealtimeValue reads the raw real-time playback input register.
func (d *DRV2605) RealtimeValue(ctx context.Context) (byte, error) {
	val, err := d.readRegister(ctx, regRTPInput)
	if err != nil {
		return 0, fmt.Errorf("drv2605: %w", err)
	}
	return val, nil
}

// SetRealtimeValue sets the drive amplitude used in real-time playback mode.
// The chip interprets the register as signed or unsigned depending on its
// data-format configuration, so both representations are accepted here and
// the low 8 bits are written as-is.
func (d *DRV2605) SetRealtimeValue(ctx context.Context, value int) error {
	if value < -127 || value > 255 {
		return fmt.Errorf("drv2605: real-time playback value must be between -127 and 255, got %d: %w", value, ErrInvalidArgument)
	}
	err := d.writeRegister(ctx, regRTPInput, byte(value))
	if err != nil {
		return fmt.Errorf("drv2605: %w", err)
	}
	return nil
}

// SetWaveform selects an effect waveform for the given sequence slot (0-7).
// Shorthand for Sequence().Set with an Effect value.
func (d *DRV2605) SetWaveform(ctx context.Context, effectID, slot int) error {
	if effectID < 0 || effectID > 123 {
		return fmt.Errorf("drv2605: effect id must be a value within 0-123, got %d: %w", effectID, ErrInvalidArgument)
	}
	if slot < 0 || slot > 7 {
		return fmt.Errorf("drv2605: %w, got %d", ErrSlotOutOfRange, slot)
	}
	err := d.writeRegister(ctx, regWaveSeq1+byte(slot), byte(effectID))
	if err != nil {
		return fmt.Errorf("drv2605: %w", err)
	}
	return nil
}

// UseERM selects eccentric rotating mass motor feedback (the default).
func (d *DRV2605) UseERM(ctx context.Context) error {
	feedback, err := d.readRegister(ctx, regFeedback)
	if err != nil {
		return fmt.Errorf("drv2605: could not read feedback control: %w", err)
	}
	err = d.writeRegister(ctx, regFeedback, feedback&^byte(feedbackBitLRA))
	if err != nil {
		return fmt.Errorf("drv2605: could not select ERM feedback: %w", err)
	}
	return nil
}

// UseLRA selects linear resonant actuator motor feedback.
func (d *DRV2605) UseLRA(ctx context.Context) error {
	feedback, err := d.readRegister(ctx, regFeedback)
	if err != nil {
		return fmt.Errorf("drv2605: could not read feedback control: %w", err)
	}
	err = d.writeRegister(ctx, regFeedback, feedback|feedbackBitLRA)
	if err != nil {
		return fmt.Errorf("drv2605: could not select LRA feedback: %w", err)
	}
	return nil
}

// Sequence returns the indexed accessor for the 8 waveform sequence slots.
func (d *DRV2605) Sequence() *Sequence {
	return &Sequence{drv: d}
}

// Status is the parsed content of the status register.
type Status struct {
	DeviceID    int  `yaml:"device_id"`
	DiagFailed  bool `yaml:"diag_failed"`
	OverTemp    bool `yaml:"over_temp"`
	OverCurrent bool `yaml:"over_current"`
}

func (d *DRV2605) Status(ctx context.Context) (Status, error) {
	raw, err := d.readRegister(ctx, regStatus)
	if err != nil {
		return Status{}, fmt.Errorf("drv2605: could not read status register: %w", err)
	}
	return Status{
		DeviceID:    int((raw >> 5) & 0x07),
		DiagFailed:  raw&statusBitDiagFailed != 0,
		OverTemp:    raw&statusBitOverTemp != 0,
		OverCurrent: raw&statusBitOverCurrent != 0,
	}, nil
}

// Calibrate runs the chip's auto-calibration routine and restores
// internal-trigger mode afterwards. The motor will twitch during calibration.
// Returns the diagnostic verdict from the status register. The routine
// typically finishes in about a second; completion is detected by polling
// the GO register, which the chip clears itself.
func (d *DRV2605) Calibrate(ctx context.Context) (bool, error) {
	err := d.SetMode(ctx, ModeAutoCalibration)
	if err != nil {
		return false, err
	}
	err = d.Play(ctx)
	if err != nil {
		return false, err
	}
	for {
		running, err := d.readRegister(ctx, regGo)
		if err != nil {
			return false, fmt.Errorf("drv2605: could not poll calibration progress: %w", err)
		}
		if running&0x01 == 0 {
			break
		}
		timer := time.NewTimer(50 * time.Millisecond)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		}
	}
	status, err := d.Status(ctx)
	if err != nil {
		return false, err
	}
	err = d.SetMode(ctx, ModeInternalTrigger)
	if err != nil {
		return false, err
	}
	return !status.DiagFailed, nil
}
