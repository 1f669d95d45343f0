package billing

import (
	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

// RoundCurrency applies the single money rounding rule used everywhere
// revenue is computed: round half-up (away from zero) to the cent. A revenue
// of 10.005 becomes 10.01, never 10.00.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Calculate turns rounded minutes, effective configuration, and carryover
// into the billed result for one (project, month). It is pure: identical
// inputs always produce identical outputs, so re-running a month is always
// safe.
//
// The evaluation order is fixed because reordering changes the result:
// carryover-in is added before the minimum check, and the minimum is applied
// before the maximum cap produces carryover-out.
func Calculate(in Input) Result {
	baseHours := decimal.NewFromInt(int64(in.RoundedMinutes)).Div(minutesPerHour)

	effectiveHours := baseHours
	if in.CarryoverEnabled {
		effectiveHours = effectiveHours.Add(in.CarryoverIn)
	}

	billedHours := effectiveHours
	minimumApplied := false
	// Inactive projects never receive minimum padding.
	if in.MinimumHours != nil && in.Active && effectiveHours.LessThan(*in.MinimumHours) {
		billedHours = *in.MinimumHours
		minimumApplied = true
	}

	carryoverOut := decimal.Zero
	maximumApplied := false
	if in.MaximumHours != nil && billedHours.GreaterThan(*in.MaximumHours) {
		carryoverOut = billedHours.Sub(*in.MaximumHours)
		billedHours = *in.MaximumHours
		maximumApplied = true
	}

	return Result{
		RawRoundedHours: baseHours,
		Rate:            in.Rate,
		BilledHours:     billedHours,
		BilledRevenue:   RoundCurrency(billedHours.Mul(in.Rate)),
		MinimumApplied:  minimumApplied,
		MaximumApplied:  maximumApplied,
		CarryoverIn:     in.CarryoverIn,
		CarryoverOut:    carryoverOut,
		ActualHours:     effectiveHours,
	}
}
