package haptic

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffect_RawValue(t *testing.T) {
	for id := 0; id <= 123; id++ {
		effect, err := NewEffect(id)
		assert.NoError(t, err)
		assert.Equal(t, byte(id), effect.RawValue())
		assert.Equal(t, id, effect.ID())
		// the high bit discriminates pauses, effects must never set it
		assert.Zero(t, effect.RawValue()&0x80)
	}
}

func TestEffect_InvalidID(t *testing.T) {
	for _, id := range []int{-1, 124, 255, 1000} {
		t.Run(fmt.Sprintf("%d", id), func(t *testing.T) {
			_, err := NewEffect(id)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestPause_RawValue(t *testing.T) {
	tests := []struct {
		duration float64
		raw      byte
	}{
		{0.0, 0x80},
		{0.01, 0x81},
		{0.30, 0x80 | 30},
		{0.5, 0x80 | 50},
		{1.27, 0xFF},
		{0.005, 0x80}, // rounds down to 0ms
		{0.015, 0x82}, // rounds up to 20ms
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%g", test.duration), func(t *testing.T) {
			pause, err := NewPause(test.duration)
			assert.NoError(t, err)
			assert.Equal(t, test.raw, pause.RawValue())
			assert.NotZero(t, pause.RawValue()&0x80)
		})
	}
}

func TestPause_RoundTrip(t *testing.T) {
	// durations survive the raw encoding with 10ms granularity
	for cs := 0; cs <= 127; cs++ {
		duration := float64(cs) / 100.0
		pause, err := NewPause(duration)
		assert.NoError(t, err)
		assert.Equal(t, duration, pause.Duration())
	}
}

func TestPause_InvalidDuration(t *testing.T) {
	for _, duration := range []float64{-0.1, 1.28, 2.0, math.NaN(), math.Inf(1), math.Inf(-1)} {
		t.Run(fmt.Sprintf("%g", duration), func(t *testing.T) {
			_, err := NewPause(duration)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestDecodeSlot(t *testing.T) {
	for b := 0; b <= 0xFF; b++ {
		raw := byte(b)
		value := decodeSlot(raw)
		if raw&0x80 != 0 {
			pause, ok := value.(Pause)
			assert.True(t, ok, "bytes with bit7 set decode as pauses")
			assert.Equal(t, float64(raw&0x7F)/100.0, pause.Duration())
		} else {
			effect, ok := value.(Effect)
			assert.True(t, ok, "bytes with bit7 clear decode as effects")
			assert.Equal(t, int(raw), effect.ID())
		}
		assert.Equal(t, raw, value.RawValue())
	}
}
