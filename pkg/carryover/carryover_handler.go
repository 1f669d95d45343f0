package carryover

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/revloop/revloop/internal/rest"
)

type LedgerEntryDTO struct {
	ProjectID         int    `json:"projectId"`
	SourceMonth       string `json:"sourceMonth"`
	CarryoverHours    string `json:"carryoverHours"`
	ActualHoursWorked string `json:"actualHoursWorked"`
	MaximumApplied    bool   `json:"maximumApplied"`
}

type LedgerHandler struct {
	service Service
}

func NewLedgerHandler(service Service) *LedgerHandler {
	return &LedgerHandler{service: service}
}

func (h *LedgerHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	projectId, err := strconv.ParseInt(vars["projectId"], 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid projectId format",
			Details: "Parameter projectId must be a number",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	entries, err := h.service.GetAllForProject(r.Context(), int(projectId))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	entryDTOs := make([]LedgerEntryDTO, 0, len(entries))
	for _, entry := range entries {
		entryDTOs = append(entryDTOs, LedgerEntryDTO{
			ProjectID:         entry.ProjectID,
			SourceMonth:       entry.SourceMonth.String(),
			CarryoverHours:    entry.CarryoverHours.String(),
			ActualHoursWorked: entry.ActualHoursWorked.String(),
			MaximumApplied:    entry.MaximumApplied,
		})
	}

	if err := json.NewEncoder(w).Encode(entryDTOs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
