package report

import (
	"github.com/shopspring/decimal"

	"github.com/revloop/revloop/internal/utils"
)

type Level string

const (
	LevelCompany  Level = "company"
	LevelProject  Level = "project"
	LevelEmployee Level = "employee"
	LevelDay      Level = "day"
	LevelTask     Level = "task"
)

// Node is one row of the attribution tree. Hours and revenue at every level
// are distributed shares of the project's billed result, so the sum over a
// node's children always equals the node itself. Rebuilt per query, never
// persisted.
type Node struct {
	Label    string
	Level    Level
	Hours    decimal.Decimal
	Revenue  decimal.Decimal
	Children []Node
}

// MonthlyReport is the company-rooted attribution tree for one month.
type MonthlyReport struct {
	Month utils.Month
	Root  Node

	DroppedInvalid        int
	DroppedUnknownProject int
}

// TrendPoint is one month's totals in a trend series.
type TrendPoint struct {
	Month        utils.Month
	TotalHours   decimal.Decimal
	TotalRevenue decimal.Decimal
}
