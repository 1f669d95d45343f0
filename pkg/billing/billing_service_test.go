package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revloop/revloop/internal/event_bus"
	"github.com/revloop/revloop/internal/utils"
	"github.com/revloop/revloop/pkg/billing_config"
	"github.com/revloop/revloop/pkg/carryover"
	"github.com/revloop/revloop/pkg/entry"
	"github.com/revloop/revloop/pkg/project"
)

var (
	entryStub    = entry.NewStubEntryRepo()
	projectStub  = project.NewStubProjectRepo()
	overrideStub = billing_config.NewStubOverrideRepo()
	ledgerStub   = carryover.NewStubLedgerRepo()
)

func setupService(t *testing.T) (Service, context.Context, func()) {
	bus := event_bus.NewEventBus()
	unsubscribe := carryover.NewLedgerSyncer(ledgerStub).Subscribe(bus)
	service := NewService(
		entryStub,
		projectStub,
		billing_config.NewResolver(overrideStub),
		carryover.NewService(ledgerStub),
		bus,
	)
	return service, context.Background(), func() {
		t.Log("Teardown after test")
		unsubscribe()
		entryStub.Cleanup()
		projectStub.Cleanup()
		overrideStub.Cleanup()
		ledgerStub.Cleanup()
	}
}

func storeProject(t *testing.T, ctx context.Context, name, externalRef string) project.Project {
	p := project.Project{Uid: "uid-" + externalRef, Name: name, ExternalRef: externalRef}
	id, err := projectStub.Store(ctx, p)
	require.NoError(t, err)
	p.ID = id
	return p
}

func storeEntry(t *testing.T, ctx context.Context, workDate time.Time, projectRef, userRef, taskName string, minutes int) {
	_, err := entryStub.Store(ctx, entry.TimesheetEntry{
		WorkDate:     workDate,
		ProjectRef:   projectRef,
		ClientRef:    "client-a",
		UserRef:      userRef,
		TaskName:     taskName,
		TotalMinutes: minutes,
	})
	require.NoError(t, err)
}

func storeOverride(t *testing.T, ctx context.Context, projectId int, attr billing_config.Attribute, month utils.Month, value string) int {
	id, err := overrideStub.Store(ctx, billing_config.Override{
		ProjectID:      projectId,
		Attribute:      attr,
		EffectiveMonth: month,
		Value:          value,
	})
	require.NoError(t, err)
	return id
}

func TestServiceImpl_CalculateMonth_EndToEnd(t *testing.T) {
	service, ctx, teardown := setupService(t)
	defer teardown()

	// given: a project billed at 50/h with 15-minute rounding and a
	// 10-hour monthly minimum
	march := utils.NewMonth(2024, time.March)
	p := storeProject(t, ctx, "Acme Website", "acme-web")
	storeOverride(t, ctx, p.ID, billing_config.AttrRate, march, "50")
	storeOverride(t, ctx, p.ID, billing_config.AttrRoundingIncrement, march, "15")
	storeOverride(t, ctx, p.ID, billing_config.AttrMinimumHours, march, "10")

	// given: two tasks of 8 and 400 minutes in March
	storeEntry(t, ctx, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), "acme-web", "alice", "Design review", 8)
	storeEntry(t, ctx, time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC), "acme-web", "alice", "Implementation", 400)

	// when
	result, err := service.CalculateMonth(ctx, march)

	// then: 8→15 and 400→405 per task, 420 minutes = 7h, padded to the
	// 10-hour minimum
	require.NoError(t, err)
	require.Len(t, result.Projects, 1)
	pb := result.Projects[0]
	assert.Equal(t, 420, pb.RoundedMinutes)
	assert.True(t, pb.Result.RawRoundedHours.Equal(decimal.NewFromInt(7)))
	assert.True(t, pb.Result.BilledHours.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "500.00", pb.Result.BilledRevenue.StringFixed(2))
	assert.True(t, pb.Result.MinimumApplied)
	assert.False(t, pb.Result.MaximumApplied)
	assert.True(t, result.TotalHours.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "500.00", result.TotalRevenue.StringFixed(2))
	assert.Equal(t, 0, result.DroppedInvalid)
	assert.Equal(t, 0, result.DroppedUnknownProject)
}

func TestServiceImpl_CalculateMonth_DropsAndCountsBadEntries(t *testing.T) {
	service, ctx, teardown := setupService(t)
	defer teardown()

	// given: one valid entry, one for an unknown project, one invalid
	march := utils.NewMonth(2024, time.March)
	storeProject(t, ctx, "Acme Website", "acme-web")
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	storeEntry(t, ctx, day, "acme-web", "alice", "Work", 60)
	storeEntry(t, ctx, day, "ghost-project", "alice", "Orphaned", 120)
	storeEntry(t, ctx, day, "acme-web", "alice", "Broken", -30)

	// when
	result, err := service.CalculateMonth(ctx, march)

	// then: dropped entries are counted, never folded into any total
	require.NoError(t, err)
	assert.Equal(t, 1, result.DroppedInvalid)
	assert.Equal(t, 1, result.DroppedUnknownProject)
	assert.True(t, result.TotalHours.Equal(decimal.NewFromInt(1)))
}

func TestServiceImpl_CalculateMonth_ProjectsSortedByName(t *testing.T) {
	service, ctx, teardown := setupService(t)
	defer teardown()

	march := utils.NewMonth(2024, time.March)
	storeProject(t, ctx, "Zeta", "zeta")
	storeProject(t, ctx, "Alpha", "alpha")
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	storeEntry(t, ctx, day, "zeta", "alice", "Work", 60)
	storeEntry(t, ctx, day, "alpha", "bob", "Work", 60)

	result, err := service.CalculateMonth(ctx, march)

	require.NoError(t, err)
	require.Len(t, result.Projects, 2)
	assert.Equal(t, "Alpha", result.Projects[0].Project.Name)
	assert.Equal(t, "Zeta", result.Projects[1].Project.Name)
}

func TestServiceImpl_CalculateMonth_ZeroActivityProjectOmitted(t *testing.T) {
	service, ctx, teardown := setupService(t)
	defer teardown()

	march := utils.NewMonth(2024, time.March)
	storeProject(t, ctx, "Dormant", "dormant")

	result, err := service.CalculateMonth(ctx, march)

	require.NoError(t, err)
	assert.Empty(t, result.Projects)
	assert.True(t, result.TotalRevenue.IsZero())
}

func TestServiceImpl_CalculateMonth_MinimumBillsWithoutEntries(t *testing.T) {
	service, ctx, teardown := setupService(t)
	defer teardown()

	// given: an active project with a minimum and no logged time at all
	march := utils.NewMonth(2024, time.March)
	p := storeProject(t, ctx, "Retainer", "retainer")
	storeOverride(t, ctx, p.ID, billing_config.AttrRate, march, "80")
	storeOverride(t, ctx, p.ID, billing_config.AttrMinimumHours, march, "10")

	// when
	result, err := service.CalculateMonth(ctx, march)

	// then: the retainer still appears, billed at the minimum
	require.NoError(t, err)
	require.Len(t, result.Projects, 1)
	assert.True(t, result.Projects[0].Result.MinimumApplied)
	assert.Equal(t, "800.00", result.Projects[0].Result.BilledRevenue.StringFixed(2))
}

func TestServiceImpl_CalculateMonth_WritesCarryoverLedger(t *testing.T) {
	service, ctx, teardown := setupService(t)
	defer teardown()

	// given: a 20-hour maximum and 25 hours of work
	march := utils.NewMonth(2024, time.March)
	p := storeProject(t, ctx, "Capped", "capped")
	storeOverride(t, ctx, p.ID, billing_config.AttrRate, march, "100")
	storeOverride(t, ctx, p.ID, billing_config.AttrMaximumHours, march, "20")
	storeEntry(t, ctx, time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC), "capped", "alice", "Big push", 1500)

	// when
	result, err := service.CalculateMonth(ctx, march)

	// then: the 5-hour overage lands in the ledger
	require.NoError(t, err)
	require.Len(t, result.Projects, 1)
	assert.True(t, result.Projects[0].Result.MaximumApplied)

	row, ok := ledgerStub.Get(p.ID, march)
	require.True(t, ok)
	assert.True(t, row.CarryoverHours.Equal(decimal.NewFromInt(5)))
	assert.True(t, row.ActualHoursWorked.Equal(decimal.NewFromInt(25)))
	assert.True(t, row.MaximumApplied)
}

func TestServiceImpl_CalculateMonth_ConsumesCarryoverNextMonth(t *testing.T) {
	service, ctx, teardown := setupService(t)
	defer teardown()

	march := utils.NewMonth(2024, time.March)
	april := march.Add(1)
	p := storeProject(t, ctx, "Capped", "capped")
	storeOverride(t, ctx, p.ID, billing_config.AttrRate, march, "100")
	storeOverride(t, ctx, p.ID, billing_config.AttrMaximumHours, march, "20")
	storeOverride(t, ctx, p.ID, billing_config.AttrCarryoverEnabled, march, "true")
	storeEntry(t, ctx, time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC), "capped", "alice", "Big push", 1500)
	storeEntry(t, ctx, time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC), "capped", "alice", "Follow-up", 600)

	// when: March produces the ledger row, April consumes it
	_, err := service.CalculateMonth(ctx, march)
	require.NoError(t, err)
	aprilResult, err := service.CalculateMonth(ctx, april)
	require.NoError(t, err)

	// then: April bills 10h logged + 5h carried over
	require.Len(t, aprilResult.Projects, 1)
	pb := aprilResult.Projects[0]
	assert.True(t, pb.Result.CarryoverIn.Equal(decimal.NewFromInt(5)))
	assert.True(t, pb.Result.BilledHours.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, "1500.00", pb.Result.BilledRevenue.StringFixed(2))
}

func TestServiceImpl_CalculateMonth_RecomputationClearsStaleLedgerRow(t *testing.T) {
	service, ctx, teardown := setupService(t)
	defer teardown()

	march := utils.NewMonth(2024, time.March)
	p := storeProject(t, ctx, "Capped", "capped")
	storeOverride(t, ctx, p.ID, billing_config.AttrRate, march, "100")
	maxOverrideId := storeOverride(t, ctx, p.ID, billing_config.AttrMaximumHours, march, "20")
	storeEntry(t, ctx, time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC), "capped", "alice", "Big push", 1500)

	// given: a first computation that recorded an overage
	_, err := service.CalculateMonth(ctx, march)
	require.NoError(t, err)
	_, ok := ledgerStub.Get(p.ID, march)
	require.True(t, ok)

	// when: the maximum is raised and March is recomputed
	require.NoError(t, overrideStub.Update(ctx, billing_config.Override{
		ID:             maxOverrideId,
		ProjectID:      p.ID,
		Attribute:      billing_config.AttrMaximumHours,
		EffectiveMonth: march,
		Value:          "40",
	}))
	_, err = service.CalculateMonth(ctx, march)
	require.NoError(t, err)

	// then: the stale row is gone
	_, ok = ledgerStub.Get(p.ID, march)
	assert.False(t, ok)
}

func TestServiceImpl_CalculateMonth_LedgerWriteFailureIsNotFatal(t *testing.T) {
	service, ctx, teardown := setupService(t)
	defer teardown()

	march := utils.NewMonth(2024, time.March)
	p := storeProject(t, ctx, "Capped", "capped")
	storeOverride(t, ctx, p.ID, billing_config.AttrRate, march, "100")
	storeOverride(t, ctx, p.ID, billing_config.AttrMaximumHours, march, "20")
	storeEntry(t, ctx, time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC), "capped", "alice", "Big push", 1500)

	// given: every ledger write fails
	ledgerStub.FailWrites = errors.New("disk full")

	// when
	result, err := service.CalculateMonth(ctx, march)

	// then: the billed result is still produced
	require.NoError(t, err)
	require.Len(t, result.Projects, 1)
	assert.Equal(t, "2000.00", result.Projects[0].Result.BilledRevenue.StringFixed(2))
}

func TestServiceImpl_CalculateMonth_UnconfiguredProjectUsesDefaults(t *testing.T) {
	service, ctx, teardown := setupService(t)
	defer teardown()

	march := utils.NewMonth(2024, time.March)
	storeProject(t, ctx, "Fresh", "fresh")
	storeEntry(t, ctx, time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC), "fresh", "bob", "Kickoff", 90)

	result, err := service.CalculateMonth(ctx, march)

	// then: no rounding, default rate, no limits
	require.NoError(t, err)
	require.Len(t, result.Projects, 1)
	pb := result.Projects[0]
	assert.Equal(t, 90, pb.RoundedMinutes)
	assert.Equal(t, billing_config.SourceDefault, pb.Config.Rate.Source)
	assert.Equal(t, "150.00", pb.Result.BilledRevenue.StringFixed(2))
}
