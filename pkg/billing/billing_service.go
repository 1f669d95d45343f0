package billing

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/revloop/revloop/internal/event_bus"
	"github.com/revloop/revloop/internal/utils"
	"github.com/revloop/revloop/pkg/billing_config"
	"github.com/revloop/revloop/pkg/carryover"
	"github.com/revloop/revloop/pkg/entry"
	"github.com/revloop/revloop/pkg/project"
	"github.com/revloop/revloop/pkg/rounding"
)

type Service interface {
	// CalculateMonth computes the billed result for every project in the
	// given month. It loads the full working set up front and computes in a
	// single synchronous pass.
	CalculateMonth(ctx context.Context, month utils.Month) (MonthlyBilling, error)
}

type ServiceImpl struct {
	entryRepo        entry.EntryRepo
	projectRepo      project.ProjectRepo
	resolver         billing_config.Resolver
	carryoverService carryover.Service
	bus              *event_bus.EventBus
}

func NewService(
	entryRepo entry.EntryRepo,
	projectRepo project.ProjectRepo,
	resolver billing_config.Resolver,
	carryoverService carryover.Service,
	bus *event_bus.EventBus,
) *ServiceImpl {
	return &ServiceImpl{
		entryRepo:        entryRepo,
		projectRepo:      projectRepo,
		resolver:         resolver,
		carryoverService: carryoverService,
		bus:              bus,
	}
}

func (s *ServiceImpl) CalculateMonth(ctx context.Context, month utils.Month) (MonthlyBilling, error) {
	projects, err := s.projectRepo.GetAll(ctx)
	if err != nil {
		return MonthlyBilling{}, fmt.Errorf("failed to load projects: %w", err)
	}
	projectsByRef := make(map[string]project.Project, len(projects))
	for _, p := range projects {
		projectsByRef[p.ExternalRef] = p
	}

	entries, err := s.entryRepo.GetForMonth(ctx, month)
	if err != nil {
		return MonthlyBilling{}, fmt.Errorf("failed to load entries: %w", err)
	}

	result := MonthlyBilling{Month: month}
	entriesByProject := make(map[int][]entry.TimesheetEntry)
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			log.Warnf("dropping invalid timesheet entry %d: %v", e.ID, err)
			result.DroppedInvalid++
			continue
		}
		p, ok := projectsByRef[e.ProjectRef]
		if !ok {
			log.Warnf("dropping timesheet entry %d referencing unknown project %q", e.ID, e.ProjectRef)
			result.DroppedUnknownProject++
			continue
		}
		entriesByProject[p.ID] = append(entriesByProject[p.ID], e)
	}

	result.TotalHours = decimal.Zero
	result.TotalRevenue = decimal.Zero

	// Every known project is computed, not just the ones with entries: a
	// minimum or a pending carryover can bill hours in a month without any
	// logged time, and computing everything lets the ledger sync clear rows
	// that no longer apply.
	for _, p := range projects {
		projectBilling, err := s.calculateProject(ctx, p, month, entriesByProject[p.ID])
		if err != nil {
			return MonthlyBilling{}, err
		}

		s.notifyLedger(ctx, p, month, projectBilling.Result)

		if projectBilling.RoundedMinutes == 0 &&
			projectBilling.Result.BilledHours.IsZero() &&
			projectBilling.Result.CarryoverIn.IsZero() {
			continue
		}
		result.Projects = append(result.Projects, projectBilling)
		result.TotalHours = result.TotalHours.Add(projectBilling.Result.BilledHours)
		result.TotalRevenue = result.TotalRevenue.Add(projectBilling.Result.BilledRevenue)
	}

	sort.Slice(result.Projects, func(i, j int) bool {
		return result.Projects[i].Project.Name < result.Projects[j].Project.Name
	})

	return result, nil
}

func (s *ServiceImpl) calculateProject(
	ctx context.Context,
	p project.Project,
	month utils.Month,
	projectEntries []entry.TimesheetEntry,
) (ProjectBilling, error) {
	cfg, err := s.resolver.EffectiveConfig(ctx, p.ID, month)
	if err != nil {
		return ProjectBilling{}, fmt.Errorf("failed to resolve config for project %d: %w", p.ID, err)
	}

	// Per-task rounding happens here, before any summation.
	increment := cfg.RoundingIncrement.Value
	billedEntries := make([]BilledEntry, 0, len(projectEntries))
	roundedMinutes := 0
	for _, e := range projectEntries {
		rounded := rounding.Apply(e.TotalMinutes, increment)
		billedEntries = append(billedEntries, BilledEntry{Entry: e, RoundedMinutes: rounded})
		roundedMinutes += rounded
	}

	carryoverIn := decimal.Zero
	if cfg.CarryoverEnabled.Value {
		carryoverIn, err = s.carryoverService.AvailableIn(ctx, p.ID, month,
			cfg.CarryoverMaxHours.Value, cfg.CarryoverExpiryMonths.Value)
		if err != nil {
			return ProjectBilling{}, fmt.Errorf("failed to look up carryover for project %d: %w", p.ID, err)
		}
	}

	calcResult := Calculate(Input{
		RoundedMinutes:   roundedMinutes,
		Rate:             cfg.Rate.Value,
		MinimumHours:     cfg.MinimumHours.Value,
		MaximumHours:     cfg.MaximumHours.Value,
		Active:           cfg.Active.Value,
		CarryoverEnabled: cfg.CarryoverEnabled.Value,
		CarryoverIn:      carryoverIn,
	})

	if cfg.Rate.Source == billing_config.SourceDefault && roundedMinutes > 0 {
		log.Warnf("project %d (%s) has no configured rate for %s; billing at default rate %s",
			p.ID, p.Name, month, billing_config.DefaultHourlyRate)
	}

	return ProjectBilling{
		Project:        p,
		Config:         cfg,
		Result:         calcResult,
		RoundedMinutes: roundedMinutes,
		Entries:        billedEntries,
	}, nil
}

// notifyLedger dispatches the carryover-out of a computed result to the
// ledger writer. The write is best-effort: the billed result has already been
// produced from a pure computation, and a failed write only means the next
// recomputation will sync the ledger again.
func (s *ServiceImpl) notifyLedger(ctx context.Context, p project.Project, month utils.Month, r Result) {
	event := event_bus.NewEvent(ctx, event_bus.CarryoverComputed, event_bus.CarryoverComputedPayload{
		ProjectID:         p.ID,
		Month:             month,
		CarryoverOut:      r.CarryoverOut,
		ActualHoursWorked: r.ActualHours,
		MaximumApplied:    r.MaximumApplied,
	})
	if err := s.bus.Publish(event); err != nil {
		log.Warnf("carryover ledger sync failed for project %d month %s (billing result unaffected): %v",
			p.ID, month, err)
	}
}
