package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAnyFold(t *testing.T) {
	assert.True(t, HasAnyFold("Light Rain", "rain"))
	assert.True(t, HasAnyFold("THUNDERSTORM", "snow", "thunder"))
	assert.False(t, HasAnyFold("Sunny", "rain", "snow"))
	assert.False(t, HasAnyFold("Sunny"))
}

func TestRoundInt(t *testing.T) {
	assert.Equal(t, 3, RoundInt(2.5))
	assert.Equal(t, -3, RoundInt(-2.5))
	assert.Equal(t, 21, RoundInt(20.6))
	assert.Equal(t, 0, RoundInt(math.NaN()))
	assert.Equal(t, 0, RoundInt(math.Inf(1)))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(120, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
}
