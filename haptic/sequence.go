package haptic

import (
	"context"
	"fmt"
	"iter"
)

const slotCount = 8

// Sequence provides indexed access to the 8 waveform sequence slots
// (registers 0x04-0x0B). Slot contents are never cached: every Get, Set and
// iteration step is a live transaction against the chip, so concurrent
// external changes become visible between reads.
type Sequence struct {
	drv *DRV2605
}

// Get reads the slot's register and decodes it into an Effect or a Pause.
func (s *Sequence) Get(ctx context.Context, slot int) (SlotValue, error) {
	if slot < 0 || slot >= slotCount {
		return nil, fmt.Errorf("drv2605: %w, got %d", ErrSlotOutOfRange, slot)
	}
	raw, err := s.drv.readRegister(ctx, regWaveSeq1+byte(slot))
	if err != nil {
		return nil, fmt.Errorf("drv2605: could not read sequence slot %d: %w", slot, err)
	}
	return decodeSlot(raw), nil
}

// Set writes the value's raw encoding to the slot's register.
func (s *Sequence) Set(ctx context.Context, slot int, value SlotValue) error {
	if slot < 0 || slot >= slotCount {
		return fmt.Errorf("drv2605: %w, got %d", ErrSlotOutOfRange, slot)
	}
	if value == nil {
		return fmt.Errorf("drv2605: %w", ErrInvalidSlotValue)
	}
	err := s.drv.writeRegister(ctx, regWaveSeq1+byte(slot), value.RawValue())
	if err != nil {
		return fmt.Errorf("drv2605: could not write sequence slot %d: %w", slot, err)
	}
	return nil
}

// Values iterates over the 8 slots in order, reading each one freshly from
// the chip when the iteration reaches it. The sequence is restartable; a
// failed read yields a nil value together with the error and ends the pass.
func (s *Sequence) Values(ctx context.Context) iter.Seq2[SlotValue, error] {
	return func(yield func(SlotValue, error) bool) {
		for slot := 0; slot < slotCount; slot++ {
			value, err := s.Get(ctx, slot)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(value, nil) {
				return
			}
		}
	}
}
