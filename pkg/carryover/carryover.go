package carryover

import (
	"github.com/shopspring/decimal"

	"github.com/revloop/revloop/internal/utils"
)

// LedgerEntry is one persisted carryover row: hours that month SourceMonth
// could not bill (overage above the configured maximum) waiting to be billed
// in a later month. There is at most one row per (project, source month);
// recomputing a month overwrites it, so the ledger is always a pure function
// of the billing inputs, never an accumulator.
type LedgerEntry struct {
	ProjectID   int
	SourceMonth utils.Month
	// CarryoverHours is the overage to carry forward.
	CarryoverHours decimal.Decimal
	// ActualHoursWorked is the effective hours of the source month before the
	// maximum was applied, kept for display.
	ActualHoursWorked decimal.Decimal
	MaximumApplied    bool
}
