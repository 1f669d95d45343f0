package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revloop/revloop/internal/utils"
	"github.com/revloop/revloop/pkg/billing"
	"github.com/revloop/revloop/pkg/entry"
	"github.com/revloop/revloop/pkg/project"
)

type stubBillingService struct {
	results map[utils.Month]billing.MonthlyBilling
	err     error
}

func (s *stubBillingService) CalculateMonth(ctx context.Context, month utils.Month) (billing.MonthlyBilling, error) {
	if s.err != nil {
		return billing.MonthlyBilling{}, s.err
	}
	return s.results[month], nil
}

func billedEntry(workDate time.Time, userRef, taskName string, roundedMinutes int) billing.BilledEntry {
	return billing.BilledEntry{
		Entry: entry.TimesheetEntry{
			WorkDate:     workDate,
			ProjectRef:   "acme-web",
			ClientRef:    "client-a",
			UserRef:      userRef,
			TaskName:     taskName,
			TotalMinutes: roundedMinutes,
		},
		RoundedMinutes: roundedMinutes,
	}
}

func childSumsEqualParent(t *testing.T, node Node) {
	if len(node.Children) == 0 {
		return
	}
	hours := decimal.Zero
	revenue := decimal.Zero
	for _, child := range node.Children {
		hours = hours.Add(child.Hours)
		revenue = revenue.Add(child.Revenue)
	}
	assert.True(t, hours.Equal(node.Hours),
		"child hours of %q sum to %s, parent has %s", node.Label, hours, node.Hours)
	assert.True(t, revenue.Equal(node.Revenue),
		"child revenue of %q sums to %s, parent has %s", node.Label, revenue, node.Revenue)
	for _, child := range node.Children {
		childSumsEqualParent(t, child)
	}
}

func TestServiceImpl_MonthlyReport_ProportionalSumsAreExact(t *testing.T) {
	// given: a minimum-padded project, so billed totals diverge from the
	// raw time and must still distribute exactly
	march := utils.NewMonth(2024, time.March)
	day1 := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC)
	monthly := billing.MonthlyBilling{
		Month: march,
		Projects: []billing.ProjectBilling{{
			Project: project.Project{ID: 1, Name: "Acme Website"},
			Result: billing.Result{
				BilledHours:    decimal.NewFromInt(10),
				BilledRevenue:  decimal.RequireFromString("500.00"),
				MinimumApplied: true,
			},
			RoundedMinutes: 420,
			Entries: []billing.BilledEntry{
				billedEntry(day1, "alice", "Design review", 15),
				billedEntry(day2, "alice", "Implementation", 255),
				billedEntry(day2, "bob", "Code review", 150),
			},
		}},
		TotalHours:   decimal.NewFromInt(10),
		TotalRevenue: decimal.RequireFromString("500.00"),
	}
	service := NewService(&stubBillingService{results: map[utils.Month]billing.MonthlyBilling{march: monthly}}, 24)

	// when
	monthlyReport, err := service.MonthlyReport(context.Background(), march)

	// then: sums hold exactly at every level of the tree
	require.NoError(t, err)
	childSumsEqualParent(t, monthlyReport.Root)

	require.Len(t, monthlyReport.Root.Children, 1)
	projectNode := monthlyReport.Root.Children[0]
	assert.Equal(t, "Acme Website", projectNode.Label)
	assert.Equal(t, LevelProject, projectNode.Level)
	require.Len(t, projectNode.Children, 2)
	assert.Equal(t, "alice", projectNode.Children[0].Label)
	assert.Equal(t, "bob", projectNode.Children[1].Label)

	// alice logged 270 of 420 minutes and has two days; bob has one
	alice := projectNode.Children[0]
	require.Len(t, alice.Children, 2)
	assert.Equal(t, "2024-03-04", alice.Children[0].Label)
	assert.Equal(t, "2024-03-12", alice.Children[1].Label)
	require.Len(t, alice.Children[0].Children, 1)
	assert.Equal(t, "Design review", alice.Children[0].Children[0].Label)
	assert.Equal(t, LevelTask, alice.Children[0].Children[0].Level)
}

func TestServiceImpl_MonthlyReport_ZeroMinuteEntriesDistributeWithoutPanic(t *testing.T) {
	// given: alice logged two zero-minute standups on different days, so her
	// whole subtree has no minutes to apportion by
	march := utils.NewMonth(2024, time.March)
	day1 := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	monthly := billing.MonthlyBilling{
		Month: march,
		Projects: []billing.ProjectBilling{{
			Project: project.Project{ID: 1, Name: "Acme Website"},
			Result: billing.Result{
				BilledHours:   decimal.NewFromInt(2),
				BilledRevenue: decimal.RequireFromString("100.00"),
			},
			RoundedMinutes: 120,
			Entries: []billing.BilledEntry{
				billedEntry(day1, "alice", "Standup", 0),
				billedEntry(day2, "alice", "Standup", 0),
				billedEntry(day1, "bob", "Implementation", 120),
			},
		}},
		TotalHours:   decimal.NewFromInt(2),
		TotalRevenue: decimal.RequireFromString("100.00"),
	}
	service := NewService(&stubBillingService{results: map[utils.Month]billing.MonthlyBilling{march: monthly}}, 24)

	// when
	monthlyReport, err := service.MonthlyReport(context.Background(), march)

	// then: alice's share is zero at every level and sums still hold
	require.NoError(t, err)
	childSumsEqualParent(t, monthlyReport.Root)

	require.Len(t, monthlyReport.Root.Children, 1)
	projectNode := monthlyReport.Root.Children[0]
	require.Len(t, projectNode.Children, 2)
	alice := projectNode.Children[0]
	assert.Equal(t, "alice", alice.Label)
	assert.True(t, alice.Hours.IsZero())
	assert.True(t, alice.Revenue.IsZero())
	require.Len(t, alice.Children, 2)
	for _, day := range alice.Children {
		assert.True(t, day.Hours.IsZero())
		assert.True(t, day.Revenue.IsZero())
	}
	bob := projectNode.Children[1]
	assert.True(t, bob.Hours.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "100.00", bob.Revenue.StringFixed(2))
}

func TestServiceImpl_MonthlyReport_MinimumOnlyProjectGetsSyntheticChild(t *testing.T) {
	// given: a retainer billed with zero logged minutes
	march := utils.NewMonth(2024, time.March)
	monthly := billing.MonthlyBilling{
		Month: march,
		Projects: []billing.ProjectBilling{{
			Project: project.Project{ID: 1, Name: "Retainer"},
			Result: billing.Result{
				BilledHours:    decimal.NewFromInt(10),
				BilledRevenue:  decimal.RequireFromString("800.00"),
				MinimumApplied: true,
			},
			RoundedMinutes: 0,
		}},
		TotalHours:   decimal.NewFromInt(10),
		TotalRevenue: decimal.RequireFromString("800.00"),
	}
	service := NewService(&stubBillingService{results: map[utils.Month]billing.MonthlyBilling{march: monthly}}, 24)

	// when
	monthlyReport, err := service.MonthlyReport(context.Background(), march)

	// then: one synthetic child carrying the full billed amount
	require.NoError(t, err)
	require.Len(t, monthlyReport.Root.Children, 1)
	projectNode := monthlyReport.Root.Children[0]
	require.Len(t, projectNode.Children, 1)
	synthetic := projectNode.Children[0]
	assert.Equal(t, "(minimum adjustment)", synthetic.Label)
	assert.True(t, synthetic.Hours.Equal(projectNode.Hours))
	assert.True(t, synthetic.Revenue.Equal(projectNode.Revenue))
	childSumsEqualParent(t, monthlyReport.Root)
}

func TestServiceImpl_Trend_ReturnsOnePointPerMonthInOrder(t *testing.T) {
	january := utils.NewMonth(2024, time.January)
	results := map[utils.Month]billing.MonthlyBilling{}
	for i := 0; i < 3; i++ {
		month := january.Add(i)
		results[month] = billing.MonthlyBilling{
			Month:        month,
			TotalHours:   decimal.NewFromInt(int64(10 * (i + 1))),
			TotalRevenue: decimal.NewFromInt(int64(1000 * (i + 1))),
		}
	}
	service := NewService(&stubBillingService{results: results}, 24)

	points, err := service.Trend(context.Background(), january, january.Add(2))

	require.NoError(t, err)
	require.Len(t, points, 3)
	for i, point := range points {
		assert.Equal(t, january.Add(i), point.Month)
		assert.True(t, point.TotalHours.Equal(decimal.NewFromInt(int64(10*(i+1)))))
	}
}

func TestServiceImpl_Trend_RejectsInvertedRange(t *testing.T) {
	service := NewService(&stubBillingService{}, 24)

	_, err := service.Trend(context.Background(), utils.NewMonth(2024, time.March), utils.NewMonth(2024, time.January))

	assert.ErrorIs(t, err, ErrInvalidTrendRange)
}

func TestServiceImpl_Trend_RejectsTooLongRange(t *testing.T) {
	service := NewService(&stubBillingService{}, 12)

	from := utils.NewMonth(2024, time.January)
	_, err := service.Trend(context.Background(), from, from.Add(12))

	assert.ErrorIs(t, err, ErrTrendRangeTooLong)
}

func TestServiceImpl_Trend_PropagatesCalculationError(t *testing.T) {
	calcErr := errors.New("database gone")
	service := NewService(&stubBillingService{err: calcErr}, 24)

	from := utils.NewMonth(2024, time.January)
	_, err := service.Trend(context.Background(), from, from.Add(1))

	assert.ErrorIs(t, err, calcErr)
}
