package report

import (
	"bytes"
	"encoding/csv"

	log "github.com/sirupsen/logrus"
)

type ReportRenderer interface {
	RenderReport(report MonthlyReport) (string, error)
}

type CsvReportRendererImpl struct {
}

func NewCsvReportRenderer() *CsvReportRendererImpl {
	return &CsvReportRendererImpl{}
}

// RenderReport flattens the attribution tree depth-first into one row per
// node, with one column per hierarchy level so the rows stay pivotable in a
// spreadsheet.
func (t *CsvReportRendererImpl) RenderReport(report MonthlyReport) (string, error) {
	data := [][]string{
		{"Project", "Employee", "Day", "Task", "Hours", "Revenue"},
	}
	data = appendNodeRows(data, report.Root, make([]string, 4))

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

// levelColumn maps a node level to its path column; the company root has no
// column of its own and renders with an empty path.
var levelColumn = map[Level]int{
	LevelProject:  0,
	LevelEmployee: 1,
	LevelDay:      2,
	LevelTask:     3,
}

func appendNodeRows(data [][]string, node Node, path []string) [][]string {
	if col, ok := levelColumn[node.Level]; ok {
		for i := col; i < len(path); i++ {
			path[i] = ""
		}
		path[col] = node.Label
	}

	row := make([]string, 0, len(path)+2)
	row = append(row, path...)
	row = append(row, node.Hours.StringFixed(2), node.Revenue.StringFixed(2))
	data = append(data, row)

	for _, child := range node.Children {
		data = appendNodeRows(data, child, path)
	}
	return data
}
