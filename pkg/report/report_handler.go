package report

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/revloop/revloop/internal/rest"
	"github.com/revloop/revloop/internal/utils"
)

type NodeDTO struct {
	Label    string    `json:"label"`
	Level    string    `json:"level"`
	Hours    string    `json:"hours"`
	Revenue  string    `json:"revenue"`
	Children []NodeDTO `json:"children,omitempty"`
}

type MonthlyReportDTO struct {
	Month                 string  `json:"month"`
	Root                  NodeDTO `json:"root"`
	DroppedInvalid        int     `json:"droppedInvalid"`
	DroppedUnknownProject int     `json:"droppedUnknownProject"`
}

type TrendPointDTO struct {
	Month        string `json:"month"`
	TotalHours   string `json:"totalHours"`
	TotalRevenue string `json:"totalRevenue"`
}

type ReportHandler struct {
	service     Service
	csvRenderer ReportRenderer
}

func NewReportHandler(service Service, csvRenderer ReportRenderer) *ReportHandler {
	return &ReportHandler{service, csvRenderer}
}

func (h *ReportHandler) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	month, ok := monthQueryParam(w, r, "month")
	if !ok {
		return
	}

	monthlyReport, err := h.service.MonthlyReport(r.Context(), month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		csv, err := h.csvRenderer.RenderReport(monthlyReport)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := w.Write([]byte(csv)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(monthlyReportToDTO(monthlyReport)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *ReportHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	from, ok := monthQueryParam(w, r, "from")
	if !ok {
		return
	}
	to, ok := monthQueryParam(w, r, "to")
	if !ok {
		return
	}

	points, err := h.service.Trend(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, ErrInvalidTrendRange) || errors.Is(err, ErrTrendRangeTooLong) {
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Invalid trend range",
				Details: err.Error(),
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]TrendPointDTO, 0, len(points))
	for _, p := range points {
		dtos = append(dtos, TrendPointDTO{
			Month:        p.Month.String(),
			TotalHours:   p.TotalHours.StringFixed(2),
			TotalRevenue: p.TotalRevenue.StringFixed(2),
		})
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func monthQueryParam(w http.ResponseWriter, r *http.Request, name string) (utils.Month, bool) {
	month, err := utils.ParseMonth(r.URL.Query().Get(name))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid " + name + " format",
			Details: name + " must be in YYYY-MM format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return 0, false
	}
	return month, true
}

func monthlyReportToDTO(monthlyReport MonthlyReport) MonthlyReportDTO {
	return MonthlyReportDTO{
		Month:                 monthlyReport.Month.String(),
		Root:                  nodeToDTO(monthlyReport.Root),
		DroppedInvalid:        monthlyReport.DroppedInvalid,
		DroppedUnknownProject: monthlyReport.DroppedUnknownProject,
	}
}

func nodeToDTO(node Node) NodeDTO {
	children := make([]NodeDTO, 0, len(node.Children))
	for _, child := range node.Children {
		children = append(children, nodeToDTO(child))
	}
	return NodeDTO{
		Label:    node.Label,
		Level:    string(node.Level),
		Hours:    node.Hours.StringFixed(2),
		Revenue:  node.Revenue.StringFixed(2),
		Children: children,
	}
}
