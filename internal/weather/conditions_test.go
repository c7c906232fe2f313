package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapConditionKnownCodes(t *testing.T) {
	for _, code := range KnownCodes() {
		for _, isDay := range []bool{true, false} {
			got := MapCondition(code, isDay)
			assert.NotEmpty(t, got, "code %d", code)
			assert.NotEqual(t, UnknownCondition, got, "code %d", code)
		}
		assert.NotEqual(t, CategoryUnknown, CategoryOf(code), "code %d", code)
		assert.NotEmpty(t, MapAttributes(code).Icon, "code %d", code)
	}
}

func TestMapConditionUnknownCodes(t *testing.T) {
	for _, code := range []int{-1, 0, 999, 1234, 9999} {
		assert.Equal(t, UnknownCondition, MapCondition(code, true))
		assert.Equal(t, UnknownCondition, MapCondition(code, false))
		assert.Equal(t, CategoryUnknown, CategoryOf(code))
		assert.False(t, KnownCode(code))
	}
}

func TestMapConditionDayNight(t *testing.T) {
	assert.Equal(t, "Sunny", MapCondition(CodeClear, true))
	assert.Equal(t, "Clear Night", MapCondition(CodeClear, false))
	assert.Equal(t, "Partly Cloudy Night", MapCondition(CodePartlyCloudy, false))
	assert.Equal(t, "Rain", MapCondition(CodeRain, false))
}

func TestCategoryBands(t *testing.T) {
	cases := map[int]Category{
		CodeClear:             CategoryClear,
		CodeMostlyClear:       CategoryClear,
		CodeCloudy:            CategoryCloud,
		CodeLightFog:          CategoryFog,
		CodeStrongWind:        CategoryWind,
		CodeDrizzle:           CategoryRain,
		CodeHeavySnow:         CategorySnow,
		CodeLightFreezingRain: CategoryFreezingRain,
		CodeIcePellets:        CategorySleet,
		CodeThunderstorm:      CategoryThunderstorm,
	}
	for code, want := range cases {
		assert.Equal(t, want, CategoryOf(code), "code %d", code)
	}
}

func TestMapAttributesNightIcon(t *testing.T) {
	a := MapAttributes(CodeClear)
	assert.Equal(t, "wi-day-sunny", a.Icon)
	assert.Equal(t, "wi-night-clear", a.NightIcon)
	assert.Equal(t, "wi-na", MapAttributes(42).Icon)
}
