package utils

import (
	"fmt"
	"time"
)

// Month identifies a calendar month without a timezone. It is the unit of all
// billing periods: configuration overrides take effect on a Month, carryover
// expiry is counted in Months, and reports are materialized per Month.
//
// Internally it is the number of months since January of year 0, so month
// arithmetic is plain integer arithmetic.
type Month int

const monthWireFormat = "2006-01"

// NewMonth builds a Month from a year and a calendar month.
func NewMonth(year int, month time.Month) Month {
	return Month(year*12 + int(month) - 1)
}

// MonthOf returns the Month containing the given point in time.
func MonthOf(t time.Time) Month {
	return NewMonth(t.Year(), t.Month())
}

// ParseMonth parses the wire format "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthWireFormat, s)
	if err != nil {
		return 0, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

func (m Month) Year() int {
	return int(m) / 12
}

func (m Month) Month() time.Month {
	return time.Month(int(m)%12 + 1)
}

// String renders the wire format "YYYY-MM".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year(), int(m.Month()))
}

// Add returns the month n months later (or earlier for negative n).
func (m Month) Add(n int) Month {
	return m + Month(n)
}

// Sub returns the whole-month distance m - other.
func (m Month) Sub(other Month) int {
	return int(m - other)
}

func (m Month) Before(other Month) bool {
	return m < other
}

func (m Month) After(other Month) bool {
	return m > other
}

// Start returns midnight UTC on the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// End returns midnight UTC on the first day of the following month, so a
// timestamp t belongs to m when Start() <= t < End().
func (m Month) End() time.Time {
	return m.Add(1).Start()
}
