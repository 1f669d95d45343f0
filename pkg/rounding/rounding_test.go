package rounding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply_NoIncrementReturnsMinutesUnchanged(t *testing.T) {
	for _, minutes := range []int{0, 1, 7, 59, 60, 481} {
		assert.Equal(t, minutes, Apply(minutes, IncrementNone))
	}
}

func TestApply_RoundsUpToNextMultiple(t *testing.T) {
	tests := []struct {
		minutes   int
		increment int
		expected  int
	}{
		{0, 15, 0},
		{1, 5, 5},
		{5, 5, 5},
		{6, 5, 10},
		{8, 15, 15},
		{15, 15, 15},
		{16, 15, 30},
		{8, 30, 30},
		{30, 30, 30},
		{31, 30, 60},
		{400, 15, 405},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Apply(tt.minutes, tt.increment),
			"Apply(%d, %d)", tt.minutes, tt.increment)
	}
}

func TestApply_ResultIsValidForAllIncrements(t *testing.T) {
	// Apply(m, i) >= m and Apply(m, i) mod i == 0 for every supported increment.
	for _, increment := range []int{IncrementFiveMinutes, IncrementQuarterHour, IncrementHalfHour} {
		for minutes := 0; minutes <= 200; minutes++ {
			rounded := Apply(minutes, increment)
			assert.GreaterOrEqual(t, rounded, minutes)
			assert.Zero(t, rounded%increment)
			assert.Less(t, rounded-minutes, increment)
		}
	}
}

func TestApply_PerTaskRoundingExceedsRoundingOfSum(t *testing.T) {
	// Two 8-minute tasks at a 15-minute increment bill 30 minutes, not the 15
	// a single rounding of the 16-minute total would produce.
	perTask := Apply(8, IncrementQuarterHour) + Apply(8, IncrementQuarterHour)
	ofSum := Apply(8+8, IncrementQuarterHour)
	assert.Equal(t, 30, perTask)
	assert.Equal(t, 15, ofSum)
}

func TestValidIncrement(t *testing.T) {
	for _, increment := range []int{0, 5, 15, 30} {
		assert.True(t, ValidIncrement(increment))
	}
	for _, increment := range []int{-5, 1, 10, 20, 60} {
		assert.False(t, ValidIncrement(increment))
	}
}
