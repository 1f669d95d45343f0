package entry

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/revloop/revloop/internal/rest"
)

type TimesheetEntryDTO struct {
	ID           int    `json:"id,omitempty"`
	WorkDate     string `json:"workDate"`
	ProjectRef   string `json:"projectRef"`
	ClientRef    string `json:"clientRef"`
	UserRef      string `json:"userRef"`
	TaskName     string `json:"taskName"`
	TotalMinutes int    `json:"totalMinutes"`
}

type EntryHandler struct {
	repo EntryRepo
}

func NewEntryHandler(repo EntryRepo) *EntryHandler {
	return &EntryHandler{repo: repo}
}

// IngestEntries accepts a batch of timesheet entries from the external
// time-tracking pipeline. Entries are validated before they are stored; a
// single bad row rejects the whole batch so the pipeline can retry it intact.
func (h *EntryHandler) IngestEntries(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var entryRequests []TimesheetEntryDTO
	if err := json.NewDecoder(r.Body).Decode(&entryRequests); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	entries := make([]TimesheetEntry, 0, len(entryRequests))
	for _, dto := range entryRequests {
		workDate, err := time.Parse(dateFormat, dto.WorkDate)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Invalid workDate format",
				Details: "workDate must be in YYYY-MM-DD format",
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
				return
			}
			return
		}
		e := TimesheetEntry{
			WorkDate:     workDate,
			ProjectRef:   dto.ProjectRef,
			ClientRef:    dto.ClientRef,
			UserRef:      dto.UserRef,
			TaskName:     dto.TaskName,
			TotalMinutes: dto.TotalMinutes,
		}
		if err := e.Validate(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Invalid timesheet entry",
				Details: err.Error(),
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
				return
			}
			return
		}
		entries = append(entries, e)
	}

	stored := make([]TimesheetEntryDTO, 0, len(entries))
	for i, e := range entries {
		id, err := h.repo.Store(r.Context(), e)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		dto := entryRequests[i]
		dto.ID = id
		stored = append(stored, dto)
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(stored); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
