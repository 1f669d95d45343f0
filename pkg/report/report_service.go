package report

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/revloop/revloop/internal/utils"
	"github.com/revloop/revloop/pkg/billing"
)

var (
	ErrInvalidTrendRange = errors.New("trend range start is after its end")
	ErrTrendRangeTooLong = errors.New("trend range spans too many months")
)

// syntheticAdjustmentLabel marks the single child of a project that billed
// hours without any logged time (a minimum retainer, or consumed carryover).
// It keeps the sum invariant intact: the child carries the full billed total.
const syntheticAdjustmentLabel = "(minimum adjustment)"

const dayLabelFormat = "2006-01-02"

type Service interface {
	// MonthlyReport expands a month's billed results into the
	// company → project → employee → day → task attribution tree.
	MonthlyReport(ctx context.Context, month utils.Month) (MonthlyReport, error)
	// Trend returns per-month company totals for the inclusive range.
	Trend(ctx context.Context, from utils.Month, to utils.Month) ([]TrendPoint, error)
}

type ServiceImpl struct {
	billingService billing.Service
	// maxTrendMonths bounds how much work a single trend request may fan out.
	maxTrendMonths int
}

func NewService(billingService billing.Service, maxTrendMonths int) *ServiceImpl {
	return &ServiceImpl{billingService: billingService, maxTrendMonths: maxTrendMonths}
}

func (s *ServiceImpl) MonthlyReport(ctx context.Context, month utils.Month) (MonthlyReport, error) {
	monthly, err := s.billingService.CalculateMonth(ctx, month)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("failed to calculate billing for %s: %w", month, err)
	}

	projects := make([]Node, 0, len(monthly.Projects))
	for _, pb := range monthly.Projects {
		projects = append(projects, buildProjectNode(pb))
	}

	return MonthlyReport{
		Month: month,
		Root: Node{
			Label:    "Company",
			Level:    LevelCompany,
			Hours:    monthly.TotalHours,
			Revenue:  monthly.TotalRevenue,
			Children: projects,
		},
		DroppedInvalid:        monthly.DroppedInvalid,
		DroppedUnknownProject: monthly.DroppedUnknownProject,
	}, nil
}

func (s *ServiceImpl) Trend(ctx context.Context, from utils.Month, to utils.Month) ([]TrendPoint, error) {
	if from.After(to) {
		return nil, ErrInvalidTrendRange
	}
	months := to.Sub(from) + 1
	if months > s.maxTrendMonths {
		return nil, fmt.Errorf("%w: %d requested, %d allowed", ErrTrendRangeTooLong, months, s.maxTrendMonths)
	}

	// Months are independent of each other within one request: a month only
	// reads ledger rows written by earlier computations, so they can be
	// materialized in parallel.
	points := make([]TrendPoint, months)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < months; i++ {
		g.Go(func() error {
			month := from.Add(i)
			monthly, err := s.billingService.CalculateMonth(gctx, month)
			if err != nil {
				return fmt.Errorf("failed to calculate billing for %s: %w", month, err)
			}
			points[i] = TrendPoint{
				Month:        month,
				TotalHours:   monthly.TotalHours,
				TotalRevenue: monthly.TotalRevenue,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debugf("trend materialized for %d months (%s..%s)", months, from, to)
	return points, nil
}

// buildProjectNode distributes a project's billed hours and revenue down to
// employees, days, and tasks in proportion to each child's share of the raw
// rounded minutes. The last child at every level absorbs the rounding
// remainder, so child sums always equal the parent exactly.
func buildProjectNode(pb billing.ProjectBilling) Node {
	node := Node{
		Label:   pb.Project.Name,
		Level:   LevelProject,
		Hours:   pb.Result.BilledHours,
		Revenue: pb.Result.BilledRevenue,
	}

	if pb.RoundedMinutes == 0 {
		// Billed without any logged minutes: there is no share to
		// distribute by, so the whole amount hangs off one synthetic child.
		node.Children = []Node{{
			Label:   syntheticAdjustmentLabel,
			Level:   LevelEmployee,
			Hours:   pb.Result.BilledHours,
			Revenue: pb.Result.BilledRevenue,
		}}
		return node
	}

	byEmployee := groupBy(pb.Entries, func(e billing.BilledEntry) string {
		return e.Entry.UserRef
	})
	node.Children = distributeLevel(node, byEmployee, LevelEmployee, buildEmployeeChildren)
	return node
}

func buildEmployeeChildren(employee Node, entries []billing.BilledEntry) []Node {
	byDay := groupBy(entries, func(e billing.BilledEntry) string {
		return e.Entry.WorkDate.Format(dayLabelFormat)
	})
	return distributeLevel(employee, byDay, LevelDay, buildDayChildren)
}

func buildDayChildren(day Node, entries []billing.BilledEntry) []Node {
	byTask := groupBy(entries, func(e billing.BilledEntry) string {
		return e.Entry.TaskName
	})
	return distributeLevel(day, byTask, LevelTask, nil)
}

// distributeLevel splits the parent's hours and revenue over the grouped
// entries by rounded-minute share and recurses one level down.
func distributeLevel(
	parent Node,
	groups map[string][]billing.BilledEntry,
	level Level,
	buildChildren func(Node, []billing.BilledEntry) []Node,
) []Node {
	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	totalMinutes := 0
	minutesByLabel := make(map[string]int, len(groups))
	for label, entries := range groups {
		minutes := 0
		for _, e := range entries {
			minutes += e.RoundedMinutes
		}
		minutesByLabel[label] = minutes
		totalMinutes += minutes
	}

	nodes := make([]Node, 0, len(labels))
	remainingHours := parent.Hours
	remainingRevenue := parent.Revenue
	for i, label := range labels {
		var hours, revenue decimal.Decimal
		if i == len(labels)-1 {
			hours = remainingHours
			revenue = remainingRevenue
		} else {
			// Zero-minute entries are valid, so a group can have no minutes
			// to apportion by; split evenly instead of dividing by zero.
			share := decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(len(labels))))
			if totalMinutes > 0 {
				share = decimal.NewFromInt(int64(minutesByLabel[label])).
					Div(decimal.NewFromInt(int64(totalMinutes)))
			}
			hours = parent.Hours.Mul(share)
			revenue = billing.RoundCurrency(parent.Revenue.Mul(share))
			remainingHours = remainingHours.Sub(hours)
			remainingRevenue = remainingRevenue.Sub(revenue)
		}

		child := Node{Label: label, Level: level, Hours: hours, Revenue: revenue}
		if buildChildren != nil {
			child.Children = buildChildren(child, groups[label])
		}
		nodes = append(nodes, child)
	}
	return nodes
}

func groupBy(entries []billing.BilledEntry, key func(billing.BilledEntry) string) map[string][]billing.BilledEntry {
	groups := map[string][]billing.BilledEntry{}
	for _, e := range entries {
		k := key(e)
		groups[k] = append(groups[k], e)
	}
	return groups
}
