package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/prestaledger/lending-service/internal/application/service"
	"github.com/prestaledger/lending-service/internal/domain"
	"github.com/prestaledger/lending-service/internal/interface/http/dto"
)

type ClientHandler struct {
	clientService *service.ClientService
	logger        *zap.Logger
}

func NewClientHandler(clientService *service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	client, err := h.clientService.CreateClient(r.Context(), req.Name, req.NationalID, req.Phone)
	if err != nil {
		h.logger.Error("failed to create client", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create client", err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.CreatedClientResponse{
		ClientResponse: dto.NewClientResponse(client.ID, client.Name, client.NationalID, client.Phone, client.CreatedAt),
		PIN:            client.PIN,
	})
}

func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "client_id")

	client, err := h.clientService.GetClient(r.Context(), clientID)
	if err != nil {
		respondError(w, http.StatusNotFound, "client not found", err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewClientResponse(client.ID, client.Name, client.NationalID, client.Phone, client.CreatedAt))
}

func (h *ClientHandler) SearchClients(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	clients, err := h.clientService.SearchClients(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to search clients", zap.Error(err), zap.String("query", query))
		respondError(w, http.StatusInternalServerError, "failed to search clients", err)
		return
	}

	response := make([]dto.ClientResponse, len(clients))
	for i, c := range clients {
		response[i] = dto.NewClientResponse(c.ID, c.Name, c.NationalID, c.Phone, c.CreatedAt)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(response),
		"clients": response,
	})
}

func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "client_id")

	var req dto.UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	client, err := h.clientService.UpdateClient(r.Context(), clientID, req.Name, req.NationalID, req.Phone)
	if err != nil {
		respondError(w, http.StatusNotFound, "client not found", err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewClientResponse(client.ID, client.Name, client.NationalID, client.Phone, client.CreatedAt))
}

func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "client_id")

	if err := h.clientService.DeleteClient(r.Context(), clientID); err != nil {
		h.logger.Error("failed to delete client", zap.Error(err), zap.String("client_id", clientID))
		respondError(w, http.StatusInternalServerError, "failed to delete client", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *ClientHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	client, err := h.clientService.Login(r.Context(), req.Name, req.PIN)
	if err != nil {
		if err == domain.ErrInvalidCredentials {
			respondError(w, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "login failed", err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewClientResponse(client.ID, client.Name, client.NationalID, client.Phone, client.CreatedAt))
}
