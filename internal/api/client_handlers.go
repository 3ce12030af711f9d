package api

import (
	"net/http"

	"github.com/terra-clan/techdesk/internal/models"
)

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.records.ListClients(r.Context())
	if err != nil {
		respondFailure(w, r, err, "list clients")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"clients": clients,
		"total":   len(clients),
	})
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	c, err := s.records.GetClient(r.Context(), id)
	if err != nil {
		respondFailure(w, r, err, "get client")
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req models.Client
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := s.records.CreateClient(r.Context(), &req)
	if err != nil {
		respondFailure(w, r, err, "create client")
		return
	}

	respondJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.Client
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := s.records.UpdateClient(r.Context(), id, &req)
	if err != nil {
		respondFailure(w, r, err, "update client")
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.records.DeleteClient(r.Context(), id); err != nil {
		respondFailure(w, r, err, "delete client")
		return
	}

	deleted(w, "client")
}
