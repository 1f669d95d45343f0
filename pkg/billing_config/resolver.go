package billing_config

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/revloop/revloop/internal/utils"
)

// Resolver produces the effective billing configuration of a project for a
// target month. Every attribute track is resolved on its own: a rate change
// in one month never implies a rounding or limit change.
type Resolver interface {
	EffectiveConfig(ctx context.Context, projectId int, month utils.Month) (EffectiveConfig, error)
}

type ResolverImpl struct {
	repo OverrideRepo
}

func NewResolver(repo OverrideRepo) *ResolverImpl {
	return &ResolverImpl{repo: repo}
}

// timelines groups one typed Timeline per attribute track.
type timelines struct {
	rate                  Timeline[decimal.Decimal]
	roundingIncrement     Timeline[int]
	minimumHours          Timeline[*decimal.Decimal]
	maximumHours          Timeline[*decimal.Decimal]
	carryoverEnabled      Timeline[bool]
	carryoverMaxHours     Timeline[*decimal.Decimal]
	carryoverExpiryMonths Timeline[int]
	active                Timeline[bool]
}

func (r *ResolverImpl) EffectiveConfig(ctx context.Context, projectId int, month utils.Month) (EffectiveConfig, error) {
	overrides, err := r.repo.GetAllForProject(ctx, projectId)
	if err != nil {
		return EffectiveConfig{}, fmt.Errorf("failed to load configuration overrides: %w", err)
	}

	tl := buildTimelines(overrides)

	return EffectiveConfig{
		ProjectID: projectId,
		Month:     month,

		Rate:              tl.rate.Resolve(month, DefaultHourlyRate),
		RoundingIncrement: tl.roundingIncrement.Resolve(month, DefaultRoundingIncrement),
		MinimumHours:      tl.minimumHours.Resolve(month, nil),
		MaximumHours:      tl.maximumHours.Resolve(month, nil),

		CarryoverEnabled:      tl.carryoverEnabled.Resolve(month, false),
		CarryoverMaxHours:     tl.carryoverMaxHours.Resolve(month, nil),
		CarryoverExpiryMonths: tl.carryoverExpiryMonths.Resolve(month, DefaultCarryoverExpiryMonths),

		Active: tl.active.Resolve(month, true),
	}, nil
}

// buildTimelines sorts the stored overrides into per-attribute timelines.
// Values are validated at write time; a malformed stored value is skipped
// with a warning rather than failing the whole resolution.
func buildTimelines(overrides []Override) timelines {
	var tl timelines
	for _, o := range overrides {
		switch o.Attribute {
		case AttrRate:
			d, err := decimal.NewFromString(o.Value)
			if err != nil {
				logMalformedOverride(o, err)
				continue
			}
			tl.rate.Set(o.EffectiveMonth, d)
		case AttrRoundingIncrement:
			increment, err := strconv.Atoi(o.Value)
			if err != nil {
				logMalformedOverride(o, err)
				continue
			}
			tl.roundingIncrement.Set(o.EffectiveMonth, increment)
		case AttrMinimumHours:
			d, err := decimal.NewFromString(o.Value)
			if err != nil {
				logMalformedOverride(o, err)
				continue
			}
			tl.minimumHours.Set(o.EffectiveMonth, &d)
		case AttrMaximumHours:
			d, err := decimal.NewFromString(o.Value)
			if err != nil {
				logMalformedOverride(o, err)
				continue
			}
			tl.maximumHours.Set(o.EffectiveMonth, &d)
		case AttrCarryoverEnabled:
			enabled, err := strconv.ParseBool(o.Value)
			if err != nil {
				logMalformedOverride(o, err)
				continue
			}
			tl.carryoverEnabled.Set(o.EffectiveMonth, enabled)
		case AttrCarryoverMaxHours:
			d, err := decimal.NewFromString(o.Value)
			if err != nil {
				logMalformedOverride(o, err)
				continue
			}
			tl.carryoverMaxHours.Set(o.EffectiveMonth, &d)
		case AttrCarryoverExpiryMonths:
			months, err := strconv.Atoi(o.Value)
			if err != nil {
				logMalformedOverride(o, err)
				continue
			}
			tl.carryoverExpiryMonths.Set(o.EffectiveMonth, months)
		case AttrActive:
			active, err := strconv.ParseBool(o.Value)
			if err != nil {
				logMalformedOverride(o, err)
				continue
			}
			tl.active.Set(o.EffectiveMonth, active)
		default:
			log.Warnf("skipping override %d with unknown attribute %q", o.ID, o.Attribute)
		}
	}
	return tl
}

func logMalformedOverride(o Override, err error) {
	log.Warnf("skipping malformed override %d (project %d, attribute %s, month %s): %v",
		o.ID, o.ProjectID, o.Attribute, o.EffectiveMonth, err)
}
