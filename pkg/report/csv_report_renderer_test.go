package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revloop/revloop/internal/utils"
)

func TestCsvReportRendererImpl_RenderReport(t *testing.T) {
	monthlyReport := MonthlyReport{
		Month: utils.NewMonth(2024, 3),
		Root: Node{
			Label:   "Company",
			Level:   LevelCompany,
			Hours:   decimal.NewFromInt(10),
			Revenue: decimal.RequireFromString("500.00"),
			Children: []Node{{
				Label:   "Acme Website",
				Level:   LevelProject,
				Hours:   decimal.NewFromInt(10),
				Revenue: decimal.RequireFromString("500.00"),
				Children: []Node{{
					Label:   "alice",
					Level:   LevelEmployee,
					Hours:   decimal.NewFromInt(10),
					Revenue: decimal.RequireFromString("500.00"),
					Children: []Node{{
						Label:   "2024-03-04",
						Level:   LevelDay,
						Hours:   decimal.NewFromInt(10),
						Revenue: decimal.RequireFromString("500.00"),
						Children: []Node{{
							Label:   "Design review",
							Level:   LevelTask,
							Hours:   decimal.NewFromInt(10),
							Revenue: decimal.RequireFromString("500.00"),
						}},
					}},
				}},
			}},
		},
	}

	csv, err := NewCsvReportRenderer().RenderReport(monthlyReport)

	require.NoError(t, err)
	expected := "Project,Employee,Day,Task,Hours,Revenue\n" +
		",,,,10.00,500.00\n" +
		"Acme Website,,,,10.00,500.00\n" +
		"Acme Website,alice,,,10.00,500.00\n" +
		"Acme Website,alice,2024-03-04,,10.00,500.00\n" +
		"Acme Website,alice,2024-03-04,Design review,10.00,500.00\n"
	assert.Equal(t, expected, csv)
}
