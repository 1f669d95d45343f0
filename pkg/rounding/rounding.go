package rounding

// Supported billing increments in minutes. Zero means actual-time billing.
const (
	IncrementNone        = 0
	IncrementFiveMinutes = 5
	IncrementQuarterHour = 15
	IncrementHalfHour    = 30
)

// ValidIncrement reports whether increment is one of the supported billing
// increments.
func ValidIncrement(increment int) bool {
	switch increment {
	case IncrementNone, IncrementFiveMinutes, IncrementQuarterHour, IncrementHalfHour:
		return true
	}
	return false
}

// Apply quantizes a single task's raw minutes to the billing increment.
// An increment of 0 returns minutes unchanged. Otherwise the result is the
// smallest multiple of increment that is >= minutes: rounding always goes up,
// never down.
//
// Apply must be called per task before any aggregation. Two 8-minute tasks at
// a 15-minute increment bill as 15+15=30 minutes, not 15 for the 16-minute
// total. That is the billing convention, not an accident.
func Apply(minutes int, increment int) int {
	if increment <= 0 {
		return minutes
	}
	remainder := minutes % increment
	if remainder == 0 {
		return minutes
	}
	return minutes + increment - remainder
}
