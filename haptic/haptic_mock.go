package haptic

import (
	"context"
)

// PlaybackBehaviorFunc defines the function signature for playback behavior.
type PlaybackBehaviorFunc func(ctx context.Context) error

// MockVibrator is a mock implementation of a haptic playback device that uses
// behavior functions to produce results without requiring hardware. It can be
// used in place of a DRV2605 by consumers that only trigger playback.
type MockVibrator struct {
	playBehavior PlaybackBehaviorFunc
	stopBehavior PlaybackBehaviorFunc
	waveforms    map[int]int
}

// NewMockVibrator creates a new mock vibrator with the given play and stop
// behavior functions. Programmed waveforms are recorded and can be inspected
// with Waveform.
//
// Example usage:
//
//	v := NewMockVibrator(func(ctx context.Context) error { return nil }, nil)
func NewMockVibrator(play, stop PlaybackBehaviorFunc) *MockVibrator {
	return &MockVibrator{
		playBehavior: play,
		stopBehavior: stop,
		waveforms:    make(map[int]int),
	}
}

// Play invokes the play behavior function.
func (m *MockVibrator) Play(ctx context.Context) error {
	if m.playBehavior == nil {
		return nil
	}
	return m.playBehavior(ctx)
}

// Stop invokes the stop behavior function.
func (m *MockVibrator) Stop(ctx context.Context) error {
	if m.stopBehavior == nil {
		return nil
	}
	return m.stopBehavior(ctx)
}

// SetWaveform records the effect programmed into the given slot.
func (m *MockVibrator) SetWaveform(ctx context.Context, effectID, slot int) error {
	m.waveforms[slot] = effectID
	return nil
}

// Waveform returns the last effect id recorded for the slot, or -1 when the
// slot was never programmed.
func (m *MockVibrator) Waveform(slot int) int {
	id, ok := m.waveforms[slot]
	if !ok {
		return -1
	}
	return id
}
