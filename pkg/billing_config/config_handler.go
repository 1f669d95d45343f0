package billing_config

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/revloop/revloop/internal/rest"
	"github.com/revloop/revloop/internal/utils"
)

type OverrideDTO struct {
	ID             int    `json:"id"`
	ProjectID      int    `json:"projectId"`
	Attribute      string `json:"attribute"`
	EffectiveMonth string `json:"effectiveMonth"`
	Value          string `json:"value"`
}

// ResolvedDTO carries a resolved attribute value with its provenance.
// SourceMonth is omitted for default values.
type ResolvedDTO struct {
	Value       string `json:"value"`
	Source      string `json:"source"`
	SourceMonth string `json:"sourceMonth,omitempty"`
}

type EffectiveConfigDTO struct {
	ProjectID int    `json:"projectId"`
	Month     string `json:"month"`

	Rate              ResolvedDTO `json:"rate"`
	RoundingIncrement ResolvedDTO `json:"roundingIncrement"`
	MinimumHours      ResolvedDTO `json:"minimumHours"`
	MaximumHours      ResolvedDTO `json:"maximumHours"`

	CarryoverEnabled      ResolvedDTO `json:"carryoverEnabled"`
	CarryoverMaxHours     ResolvedDTO `json:"carryoverMaxHours"`
	CarryoverExpiryMonths ResolvedDTO `json:"carryoverExpiryMonths"`

	Active ResolvedDTO `json:"active"`
}

type ConfigHandler struct {
	repo     OverrideRepo
	resolver Resolver
}

func NewConfigHandler(repo OverrideRepo, resolver Resolver) *ConfigHandler {
	return &ConfigHandler{repo: repo, resolver: resolver}
}

func (h *ConfigHandler) GetEffectiveConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	projectId, ok := h.projectIdFromRequest(w, r)
	if !ok {
		return
	}

	monthString := r.URL.Query().Get("month")
	month, err := utils.ParseMonth(monthString)
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

	cfg, err := h.resolver.EffectiveConfig(r.Context(), projectId, month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(effectiveConfigToDTO(cfg)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *ConfigHandler) GetOverrides(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	projectId, ok := h.projectIdFromRequest(w, r)
	if !ok {
		return
	}

	overrides, err := h.repo.GetAllForProject(r.Context(), projectId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	overrideDTOs := make([]OverrideDTO, 0, len(overrides))
	for _, override := range overrides {
		overrideDTOs = append(overrideDTOs, overrideToDTO(override))
	}

	if err := json.NewEncoder(w).Encode(overrideDTOs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *ConfigHandler) CreateOverride(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	projectId, ok := h.projectIdFromRequest(w, r)
	if !ok {
		return
	}

	override, ok := h.overrideFromRequest(w, r, projectId)
	if !ok {
		return
	}

	id, err := h.repo.Store(r.Context(), override)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	override.ID = id

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(overrideToDTO(override)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *ConfigHandler) UpdateOverride(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	projectId, ok := h.projectIdFromRequest(w, r)
	if !ok {
		return
	}
	overrideId, ok := h.overrideIdFromRequest(w, r)
	if !ok {
		return
	}

	override, ok := h.overrideFromRequest(w, r, projectId)
	if !ok {
		return
	}
	override.ID = overrideId

	if err := h.repo.Update(r.Context(), override); err != nil {
		if errors.Is(err, ErrOverrideNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(overrideToDTO(override)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *ConfigHandler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	overrideId, ok := h.overrideIdFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), overrideId); err != nil {
		if errors.Is(err, ErrOverrideNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ConfigHandler) projectIdFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
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
		}
		return 0, false
	}
	return int(projectId), true
}

func (h *ConfigHandler) overrideIdFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	overrideId, err := strconv.ParseInt(vars["overrideId"], 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid overrideId format",
			Details: "Parameter overrideId must be a number",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return 0, false
	}
	return int(overrideId), true
}

func (h *ConfigHandler) overrideFromRequest(w http.ResponseWriter, r *http.Request, projectId int) (Override, bool) {
	var overrideRequest OverrideDTO
	if err := json.NewDecoder(r.Body).Decode(&overrideRequest); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return Override{}, false
	}

	effectiveMonth, err := utils.ParseMonth(overrideRequest.EffectiveMonth)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid effectiveMonth format",
			Details: "effectiveMonth must be in YYYY-MM format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return Override{}, false
	}

	attribute := Attribute(overrideRequest.Attribute)
	if err := ValidateValue(attribute, overrideRequest.Value); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid override value",
			Details: err.Error(),
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return Override{}, false
	}

	return Override{
		ProjectID:      projectId,
		Attribute:      attribute,
		EffectiveMonth: effectiveMonth,
		Value:          overrideRequest.Value,
	}, true
}

func overrideToDTO(override Override) OverrideDTO {
	return OverrideDTO{
		ID:             override.ID,
		ProjectID:      override.ProjectID,
		Attribute:      string(override.Attribute),
		EffectiveMonth: override.EffectiveMonth.String(),
		Value:          override.Value,
	}
}

func effectiveConfigToDTO(cfg EffectiveConfig) EffectiveConfigDTO {
	return EffectiveConfigDTO{
		ProjectID: cfg.ProjectID,
		Month:     cfg.Month.String(),

		Rate:              resolvedToDTO(cfg.Rate, cfg.Rate.Value.String()),
		RoundingIncrement: resolvedToDTO(cfg.RoundingIncrement, strconv.Itoa(cfg.RoundingIncrement.Value)),
		MinimumHours:      resolvedToDTO(cfg.MinimumHours, decimalPointerString(cfg.MinimumHours.Value)),
		MaximumHours:      resolvedToDTO(cfg.MaximumHours, decimalPointerString(cfg.MaximumHours.Value)),

		CarryoverEnabled:      resolvedToDTO(cfg.CarryoverEnabled, strconv.FormatBool(cfg.CarryoverEnabled.Value)),
		CarryoverMaxHours:     resolvedToDTO(cfg.CarryoverMaxHours, decimalPointerString(cfg.CarryoverMaxHours.Value)),
		CarryoverExpiryMonths: resolvedToDTO(cfg.CarryoverExpiryMonths, strconv.Itoa(cfg.CarryoverExpiryMonths.Value)),

		Active: resolvedToDTO(cfg.Active, strconv.FormatBool(cfg.Active.Value)),
	}
}

func resolvedToDTO[T any](resolved Resolved[T], value string) ResolvedDTO {
	dto := ResolvedDTO{
		Value:  value,
		Source: string(resolved.Source),
	}
	if resolved.Source != SourceDefault {
		dto.SourceMonth = resolved.SourceMonth.String()
	}
	return dto
}

func decimalPointerString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
