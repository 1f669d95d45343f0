package billing

import (
	"github.com/shopspring/decimal"

	"github.com/revloop/revloop/internal/utils"
	"github.com/revloop/revloop/pkg/billing_config"
	"github.com/revloop/revloop/pkg/entry"
	"github.com/revloop/revloop/pkg/project"
)

// Input is everything the calculator needs for one (project, month).
// RoundedMinutes must already be the sum of per-task rounded minutes;
// rounding is never applied to a summed total.
type Input struct {
	RoundedMinutes   int
	Rate             decimal.Decimal
	MinimumHours     *decimal.Decimal
	MaximumHours     *decimal.Decimal
	Active           bool
	CarryoverEnabled bool
	CarryoverIn      decimal.Decimal
}

// Result is the billed outcome for one (project, month). It is ephemeral:
// recomputed on demand, never persisted.
type Result struct {
	// RawRoundedHours is the sum of per-task rounded minutes expressed in
	// hours, before carryover and limits.
	RawRoundedHours decimal.Decimal
	Rate            decimal.Decimal
	BilledHours     decimal.Decimal
	BilledRevenue   decimal.Decimal
	MinimumApplied  bool
	MaximumApplied  bool
	CarryoverIn     decimal.Decimal
	CarryoverOut    decimal.Decimal
	// ActualHours is the effective hours before the maximum was applied;
	// it is recorded in the carryover ledger for display.
	ActualHours decimal.Decimal
}

// BilledEntry pairs a timesheet entry with its rounded minutes, kept so the
// hierarchical report can attribute the project's billed totals to employees,
// days, and tasks by their share of rounded time.
type BilledEntry struct {
	Entry          entry.TimesheetEntry
	RoundedMinutes int
}

// ProjectBilling is the full billed picture of one project for one month.
type ProjectBilling struct {
	Project project.Project
	Config  billing_config.EffectiveConfig
	Result  Result
	// RoundedMinutes is the project total of per-task rounded minutes.
	RoundedMinutes int
	Entries        []BilledEntry
}

// MonthlyBilling is the output of one billing run.
type MonthlyBilling struct {
	Month    utils.Month
	Projects []ProjectBilling

	// DroppedInvalid counts entries rejected at the boundary (negative
	// minutes, missing project reference).
	DroppedInvalid int
	// DroppedUnknownProject counts entries whose project reference matched
	// no known project. They are excluded from every aggregate, never folded
	// into a catch-all bucket, and this counter makes the loss observable.
	DroppedUnknownProject int

	TotalHours   decimal.Decimal
	TotalRevenue decimal.Decimal
}
