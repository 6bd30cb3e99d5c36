package jitter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration_StaysInRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := Duration(100*time.Millisecond, DefaultFactor)
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}

func TestDuration_ZeroFactor(t *testing.T) {
	assert.Equal(t, time.Second, Duration(time.Second, 0))
}

func TestBackoff_Delay(t *testing.T) {
	b := Backoff{Base: 100 * time.Millisecond, Max: time.Second, Factor: 0.5, rnd: func() float64 { return 0 }}

	assert.Equal(t, 100*time.Millisecond, b.Delay(0))
	assert.Equal(t, 200*time.Millisecond, b.Delay(1))
	assert.Equal(t, 800*time.Millisecond, b.Delay(3))
	assert.Equal(t, time.Second, b.Delay(4))
	assert.Equal(t, time.Second, b.Delay(60))
}

func TestBackoff_DelayWithMaxJitter(t *testing.T) {
	b := Backoff{Base: 100 * time.Millisecond, Max: time.Second, Factor: 0.5, rnd: func() float64 { return 1 }}

	assert.Equal(t, 150*time.Millisecond, b.Delay(0))
	assert.Equal(t, 1500*time.Millisecond, b.Delay(10))
}
