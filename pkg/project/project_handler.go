package project

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/revloop/revloop/internal/rest"
)

type ProjectDTO struct {
	ID          int    `json:"id"`
	Uid         string `json:"uid"`
	Name        string `json:"name"`
	ClientID    int    `json:"clientId"`
	ExternalRef string `json:"externalRef"`
}

type ProjectHandler struct {
	repo ProjectRepo
}

func NewProjectHandler(repo ProjectRepo) *ProjectHandler {
	return &ProjectHandler{repo: repo}
}

func (h *ProjectHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	projects, err := h.repo.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	projectDTOs := make([]ProjectDTO, 0, len(projects))
	for _, p := range projects {
		projectDTOs = append(projectDTOs, projectToDTO(p))
	}

	if err := json.NewEncoder(w).Encode(projectDTOs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var projectRequest ProjectDTO
	if err := json.NewDecoder(r.Body).Decode(&projectRequest); err != nil {
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

	if projectRequest.Name == "" || projectRequest.ExternalRef == "" {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Project name and externalRef must not be empty",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	newProject := Project{
		Uid:         uuid.NewString(),
		Name:        projectRequest.Name,
		ClientID:    projectRequest.ClientID,
		ExternalRef: projectRequest.ExternalRef,
	}
	id, err := h.repo.Store(r.Context(), newProject)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	newProject.ID = id

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(projectToDTO(newProject)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	projectId, ok := projectIdFromRequest(w, r)
	if !ok {
		return
	}

	p, err := h.repo.FindByID(r.Context(), projectId)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(projectToDTO(p)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	projectId, ok := projectIdFromRequest(w, r)
	if !ok {
		return
	}

	var projectRequest ProjectDTO
	if err := json.NewDecoder(r.Body).Decode(&projectRequest); err != nil {
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

	existing, err := h.repo.FindByID(r.Context(), projectId)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	existing.Name = projectRequest.Name
	existing.ClientID = projectRequest.ClientID
	existing.ExternalRef = projectRequest.ExternalRef

	updated, err := h.repo.Update(r.Context(), existing)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !updated {
		http.Error(w, "project not updated", http.StatusNotFound)
		return
	}

	if err := json.NewEncoder(w).Encode(projectToDTO(existing)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	projectId, ok := projectIdFromRequest(w, r)
	if !ok {
		return
	}

	deleted, err := h.repo.Delete(r.Context(), projectId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func projectIdFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	projectIdString := vars["projectId"]
	projectId, err := strconv.ParseInt(projectIdString, 10, 64)
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

func projectToDTO(p Project) ProjectDTO {
	return ProjectDTO{
		ID:          p.ID,
		Uid:         p.Uid,
		Name:        p.Name,
		ClientID:    p.ClientID,
		ExternalRef: p.ExternalRef,
	}
}
