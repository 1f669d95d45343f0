package client

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/revloop/revloop/internal/rest"
)

type ClientDTO struct {
	ID   int    `json:"id"`
	Uid  string `json:"uid"`
	Name string `json:"name"`
}

type ClientHandler struct {
	repo ClientRepo
}

func NewClientHandler(repo ClientRepo) *ClientHandler {
	return &ClientHandler{repo: repo}
}

func (h *ClientHandler) GetClients(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	clients, err := h.repo.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	clientDTOs := make([]ClientDTO, 0, len(clients))
	for _, c := range clients {
		clientDTOs = append(clientDTOs, ClientDTO{ID: c.ID, Uid: c.Uid, Name: c.Name})
	}

	if err := json.NewEncoder(w).Encode(clientDTOs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var clientRequest ClientDTO
	if err := json.NewDecoder(r.Body).Decode(&clientRequest); err != nil {
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

	if clientRequest.Name == "" {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Client name must not be empty",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	newClient := Client{
		Uid:  uuid.NewString(),
		Name: clientRequest.Name,
	}
	id, err := h.repo.Store(r.Context(), newClient)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	newClient.ID = id

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ClientDTO{ID: newClient.ID, Uid: newClient.Uid, Name: newClient.Name}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
