package billing

import (
	"encoding/json"
	"net/http"

	"github.com/revloop/revloop/internal/rest"
	"github.com/revloop/revloop/internal/utils"
)

type ProjectBillingDTO struct {
	ProjectID       int    `json:"projectId"`
	ProjectName     string `json:"projectName"`
	ClientID        int    `json:"clientId"`
	RoundedMinutes  int    `json:"roundedMinutes"`
	RawRoundedHours string `json:"rawRoundedHours"`
	Rate            string `json:"rate"`
	RateSource      string `json:"rateSource"`
	BilledHours     string `json:"billedHours"`
	BilledRevenue   string `json:"billedRevenue"`
	MinimumApplied  bool   `json:"minimumApplied"`
	MaximumApplied  bool   `json:"maximumApplied"`
	CarryoverIn     string `json:"carryoverIn"`
	CarryoverOut    string `json:"carryoverOut"`
}

type MonthlyBillingDTO struct {
	Month                 string              `json:"month"`
	Projects              []ProjectBillingDTO `json:"projects"`
	DroppedInvalid        int                 `json:"droppedInvalid"`
	DroppedUnknownProject int                 `json:"droppedUnknownProject"`
	TotalHours            string              `json:"totalHours"`
	TotalRevenue          string              `json:"totalRevenue"`
}

type BillingHandler struct {
	service Service
	clock   utils.Clock
}

func NewBillingHandler(service Service, clock utils.Clock) *BillingHandler {
	return &BillingHandler{service: service, clock: clock}
}

func (h *BillingHandler) GetMonthlyBilling(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// an omitted month means the current one
	month := utils.MonthOf(h.clock.Now())
	if monthString := r.URL.Query().Get("month"); monthString != "" {
		var err error
		month, err = utils.ParseMonth(monthString)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Invalid month format",
				Details: "month must be in YYYY-MM format",
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
				return
			}
			return
		}
	}

	monthly, err := h.service.CalculateMonth(r.Context(), month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(monthlyBillingToDTO(monthly)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func monthlyBillingToDTO(monthly MonthlyBilling) MonthlyBillingDTO {
	projects := make([]ProjectBillingDTO, 0, len(monthly.Projects))
	for _, pb := range monthly.Projects {
		projects = append(projects, ProjectBillingDTO{
			ProjectID:       pb.Project.ID,
			ProjectName:     pb.Project.Name,
			ClientID:        pb.Project.ClientID,
			RoundedMinutes:  pb.RoundedMinutes,
			RawRoundedHours: pb.Result.RawRoundedHours.StringFixed(2),
			Rate:            pb.Result.Rate.String(),
			RateSource:      string(pb.Config.Rate.Source),
			BilledHours:     pb.Result.BilledHours.StringFixed(2),
			BilledRevenue:   pb.Result.BilledRevenue.StringFixed(2),
			MinimumApplied:  pb.Result.MinimumApplied,
			MaximumApplied:  pb.Result.MaximumApplied,
			CarryoverIn:     pb.Result.CarryoverIn.StringFixed(2),
			CarryoverOut:    pb.Result.CarryoverOut.StringFixed(2),
		})
	}

	return MonthlyBillingDTO{
		Month:                 monthly.Month.String(),
		Projects:              projects,
		DroppedInvalid:        monthly.DroppedInvalid,
		DroppedUnknownProject: monthly.DroppedUnknownProject,
		TotalHours:            monthly.TotalHours.StringFixed(2),
		TotalRevenue:          monthly.TotalRevenue.StringFixed(2),
	}
}
