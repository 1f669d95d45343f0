package carryover

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/revloop/revloop/internal/event_bus"
	"github.com/revloop/revloop/internal/utils"
)

type Service interface {
	// AvailableIn returns the carryover hours usable as carryoverIn for
	// targetMonth: the latest ledger row strictly before the target, zero
	// when it is older than expiryMonths, clamped to [0, maxHours] when a
	// cap is configured.
	AvailableIn(ctx context.Context, projectId int, targetMonth utils.Month, maxHours *decimal.Decimal, expiryMonths int) (decimal.Decimal, error)
	GetAllForProject(ctx context.Context, projectId int) ([]LedgerEntry, error)
}

type ServiceImpl struct {
	repo LedgerRepo
}

func NewService(repo LedgerRepo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) AvailableIn(ctx context.Context, projectId int, targetMonth utils.Month, maxHours *decimal.Decimal, expiryMonths int) (decimal.Decimal, error) {
	entry, err := s.repo.FindLatestBefore(ctx, projectId, targetMonth)
	if err != nil {
		if errors.Is(err, ErrNoLedgerEntry) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to look up carryover: %w", err)
	}

	age := targetMonth.Sub(entry.SourceMonth)
	if age > expiryMonths {
		log.Debugf("carryover for project %d from %s expired for %s (age %d > expiry %d)",
			projectId, entry.SourceMonth, targetMonth, age, expiryMonths)
		return decimal.Zero, nil
	}

	hours := entry.CarryoverHours
	if hours.IsNegative() {
		hours = decimal.Zero
	}
	if maxHours != nil && hours.GreaterThan(*maxHours) {
		hours = *maxHours
	}
	return hours, nil
}

func (s *ServiceImpl) GetAllForProject(ctx context.Context, projectId int) ([]LedgerEntry, error) {
	return s.repo.GetAllForProject(ctx, projectId)
}

// LedgerSyncer keeps the persisted carryover ledger in sync with computed
// billing results. It listens on the event bus rather than being called by
// the billing calculator: the calculation is pure, and the ledger write is a
// best-effort notification after it. A failed write is logged and left for
// the next recomputation to heal; it never invalidates the billing result.
type LedgerSyncer struct {
	repo LedgerRepo
}

func NewLedgerSyncer(repo LedgerRepo) *LedgerSyncer {
	return &LedgerSyncer{repo: repo}
}

// Subscribe registers the syncer on the bus and returns the unsubscribe function.
func (ls *LedgerSyncer) Subscribe(bus *event_bus.EventBus) func() {
	return event_bus.SubscribeTyped(bus, event_bus.CarryoverComputed,
		func(e event_bus.EventT[event_bus.CarryoverComputedPayload]) error {
			return ls.sync(e.Context(), e.Data)
		})
}

func (ls *LedgerSyncer) sync(ctx context.Context, payload event_bus.CarryoverComputedPayload) error {
	if payload.CarryoverOut.IsZero() {
		// A stale row for this month must not feed a later calculation.
		if err := ls.repo.Delete(ctx, payload.ProjectID, payload.Month); err != nil {
			log.Errorf("failed to clear carryover ledger for project %d month %s: %v",
				payload.ProjectID, payload.Month, err)
			return err
		}
		return nil
	}

	entry := LedgerEntry{
		ProjectID:         payload.ProjectID,
		SourceMonth:       payload.Month,
		CarryoverHours:    payload.CarryoverOut,
		ActualHoursWorked: payload.ActualHoursWorked,
		MaximumApplied:    payload.MaximumApplied,
	}
	if err := ls.repo.Upsert(ctx, entry); err != nil {
		log.Errorf("failed to sync carryover ledger for project %d month %s: %v",
			payload.ProjectID, payload.Month, err)
		return err
	}
	log.Debugf("carryover ledger synced for project %d month %s: %s hours",
		payload.ProjectID, payload.Month, payload.CarryoverOut)
	return nil
}
