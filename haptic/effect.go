package haptic

import (
	"fmt"
	"math"
)

// SlotValue is the content of one waveform sequence slot: either a built-in
// Effect or a timed Pause. The raw byte encoding discriminates on bit 7
// (set for a pause, clear for an effect).
type SlotValue interface {
	RawValue() byte
	slotValue()
}

const pauseFlag = 0x80

// Effect references one of the chip's built-in waveforms by id (0-123).
type Effect struct {
	id byte
}

func NewEffect(id int) (Effect, error) {
	if id < 0 || id > 123 {
		return Effect{}, fmt.Errorf("effect id must be within 0-123, got %d: %w", id, ErrInvalidArgument)
	}
	return Effect{id: byte(id)}, nil
}

func (e Effect) ID() int {
	return int(e.id)
}

func (e Effect) RawValue() byte {
	return e.id
}

func (e Effect) String() string {
	return fmt.Sprintf("Effect(%d)", e.id)
}

func (Effect) slotValue() {}

// Pause is a timed silence between sequence steps. The chip stores it with
// 10ms granularity, so the duration round-trips lossy to 1/100s.
type Pause struct {
	raw byte
}

func NewPause(seconds float64) (Pause, error) {
	// inclusion test so NaN fails the range check as well
	if !(seconds >= 0.0 && seconds <= 1.27) {
		return Pause{}, fmt.Errorf("pause duration must be within 0.0-1.27s, got %g: %w", seconds, ErrInvalidArgument)
	}
	return Pause{raw: pauseFlag | byte(math.Round(seconds*100.0))}, nil
}

// Duration returns the pause length in seconds.
func (p Pause) Duration() float64 {
	return float64(p.raw&0x7F) / 100.0
}

func (p Pause) RawValue() byte {
	return p.raw
}

func (p Pause) String() string {
	return fmt.Sprintf("Pause(%gs)", p.Duration())
}

func (Pause) slotValue() {}

// decodeSlot maps a raw sequence register byte back to its slot value.
func decodeSlot(raw byte) SlotValue {
	if raw&pauseFlag != 0 {
		return Pause{raw: raw}
	}
	return Effect{id: raw}
}
