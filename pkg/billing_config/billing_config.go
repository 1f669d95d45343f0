package billing_config

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/revloop/revloop/internal/utils"
	"github.com/revloop/revloop/pkg/rounding"
)

// Attribute is one independently versioned billing configuration track.
// Changing one attribute in a month never implies a change to any other.
type Attribute string

const (
	AttrRate                  Attribute = "rate"
	AttrRoundingIncrement     Attribute = "rounding_increment"
	AttrMinimumHours          Attribute = "minimum_hours"
	AttrMaximumHours          Attribute = "maximum_hours"
	AttrCarryoverEnabled      Attribute = "carryover_enabled"
	AttrCarryoverMaxHours     Attribute = "carryover_max_hours"
	AttrCarryoverExpiryMonths Attribute = "carryover_expiry_months"
	AttrActive                Attribute = "active"
)

// Attributes lists every configurable track.
var Attributes = []Attribute{
	AttrRate,
	AttrRoundingIncrement,
	AttrMinimumHours,
	AttrMaximumHours,
	AttrCarryoverEnabled,
	AttrCarryoverMaxHours,
	AttrCarryoverExpiryMonths,
	AttrActive,
}

// Source tells callers where a resolved value came from, so displays can
// distinguish "explicitly set this month" from "inherited from an earlier
// month" from "nothing configured at all".
type Source string

const (
	SourceExplicit  Source = "explicit"
	SourceInherited Source = "inherited"
	SourceDefault   Source = "default"
)

// Global defaults, applied when a project has no override for an attribute in
// any month up to the target. They are deliberately exported: a default rate
// silently standing in for missing configuration must be discoverable.
var (
	// DefaultHourlyRate is billed when no rate was ever configured for a
	// project. Missing configuration is not a failure; it bills at this rate.
	DefaultHourlyRate = decimal.NewFromInt(100)

	// DefaultRoundingIncrement bills actual time.
	DefaultRoundingIncrement = rounding.IncrementNone

	// DefaultCarryoverExpiryMonths applies when carryover is enabled without
	// an explicit expiry: an overage survives one month.
	DefaultCarryoverExpiryMonths = 1
)

// Override is one explicit value for one attribute track, in force from
// EffectiveMonth until a strictly later override of the same attribute.
type Override struct {
	ID             int
	ProjectID      int
	Attribute      Attribute
	EffectiveMonth utils.Month
	// Value is the serialized attribute value; its format depends on the
	// attribute (decimal string, integer, or boolean).
	Value string
}

// Resolved wraps an effective value together with its provenance.
// SourceMonth is the month the value was explicitly set in; for
// SourceDefault it is meaningless and zero.
type Resolved[T any] struct {
	Value       T
	Source      Source
	SourceMonth utils.Month
}

// EffectiveConfig is the complete billing configuration of a project for one
// month, each track resolved independently.
type EffectiveConfig struct {
	ProjectID int
	Month     utils.Month

	Rate              Resolved[decimal.Decimal]
	RoundingIncrement Resolved[int]
	// MinimumHours and MaximumHours are nil when no limit is configured.
	MinimumHours Resolved[*decimal.Decimal]
	MaximumHours Resolved[*decimal.Decimal]

	CarryoverEnabled Resolved[bool]
	// CarryoverMaxHours is nil when carryover is uncapped.
	CarryoverMaxHours     Resolved[*decimal.Decimal]
	CarryoverExpiryMonths Resolved[int]

	Active Resolved[bool]
}

// ValidateValue checks that a serialized override value is well-formed for
// its attribute. Used at write time so the resolver never has to guess.
func ValidateValue(attribute Attribute, value string) error {
	switch attribute {
	case AttrRate, AttrMinimumHours, AttrMaximumHours, AttrCarryoverMaxHours:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("attribute %s requires a decimal value: %w", attribute, err)
		}
		if d.IsNegative() {
			return fmt.Errorf("attribute %s must not be negative", attribute)
		}
	case AttrRoundingIncrement:
		increment, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("attribute %s requires an integer value: %w", attribute, err)
		}
		if !rounding.ValidIncrement(increment) {
			return fmt.Errorf("attribute %s must be one of 0, 5, 15, 30", attribute)
		}
	case AttrCarryoverExpiryMonths:
		months, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("attribute %s requires an integer value: %w", attribute, err)
		}
		if months < 0 {
			return fmt.Errorf("attribute %s must not be negative", attribute)
		}
	case AttrCarryoverEnabled, AttrActive:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("attribute %s requires a boolean value: %w", attribute, err)
		}
	default:
		return fmt.Errorf("unknown attribute: %s", attribute)
	}
	return nil
}
