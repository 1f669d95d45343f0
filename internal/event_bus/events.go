package event_bus

import (
	"github.com/shopspring/decimal"

	"github.com/revloop/revloop/internal/utils"
)

// CarryoverComputed is published by the billing service after each project's
// monthly result is computed. The carryover ledger writer consumes it to sync
// persisted carryover state; handler failures never affect the billing result.
const CarryoverComputed EventType = "billing.carryover.computed"

type CarryoverComputedPayload struct {
	ProjectID int
	// Month is the source month the carryover originates from.
	Month utils.Month
	// CarryoverOut is the overage to carry into a later month. Zero means any
	// persisted row for (ProjectID, Month) must be removed.
	CarryoverOut decimal.Decimal
	// ActualHoursWorked is the effective hours before the maximum was applied.
	ActualHoursWorked decimal.Decimal
	MaximumApplied    bool
}
