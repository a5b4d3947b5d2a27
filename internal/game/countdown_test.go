package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountdownTicksToZero(t *testing.T) {
	c := NewCountdown(3)

	assert.False(t, c.Tick())
	assert.Equal(t, 2, c.Remaining())
	assert.False(t, c.Tick())
	assert.True(t, c.Tick())
	assert.Equal(t, 0, c.Remaining())
	assert.True(t, c.Expired())
}

func TestCountdownZeroIsOneWay(t *testing.T) {
	c := NewCountdown(1)

	assert.True(t, c.Tick())
	assert.True(t, c.Tick())
	assert.Equal(t, 0, c.Remaining())
}

func TestCountdownBonusClampsAtMax(t *testing.T) {
	c := NewCountdown(60)

	assert.Equal(t, 60, c.Bonus(5))

	c.Tick()
	c.Tick()
	assert.Equal(t, 60, c.Bonus(5))
}

func TestCountdownBonusBelowMax(t *testing.T) {
	c := NewCountdown(60)
	for i := 0; i < 10; i++ {
		c.Tick()
	}

	assert.Equal(t, 55, c.Bonus(5))
	assert.Equal(t, 55, c.Remaining())
}
