package api

import (
	"net/http"

	"innkeeper/internal/models"
)

type clientRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func (c clientRequest) validate(w http.ResponseWriter) bool {
	if c.Name == "" || c.Document == "" || c.Email == "" || c.Phone == "" {
		writeError(w, http.StatusBadRequest, "name, document, email and phone are required")
		return false
	}
	return true
}

func (s *HTTPServer) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.db.ListClients(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}
	writeJSON(w, http.StatusOK, clients)
}

func (s *HTTPServer) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if !decodeJSON(w, r, &req) || !req.validate(w) {
		return
	}
	client := &models.Client{
		Name:     req.Name,
		Document: req.Document,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if err := s.db.CreateClient(r.Context(), client); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

func (s *HTTPServer) handleGetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	client, err := s.db.FindClient(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (s *HTTPServer) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req clientRequest
	if !decodeJSON(w, r, &req) || !req.validate(w) {
		return
	}
	client := &models.Client{
		ID:       id,
		Name:     req.Name,
		Document: req.Document,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if err := s.db.UpdateClient(r.Context(), client); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// handleDeleteClient removes a client along with every booking held by
// them.
func (s *HTTPServer) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteClient(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.logger.Info().Int64("client_id", id).Msg("Client deleted with their bookings")
	w.WriteHeader(http.StatusNoContent)
}
