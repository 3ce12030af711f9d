package api

import (
	"net/http"

	"github.com/terra-clan/techdesk/internal/models"
)

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	var (
		services []*models.Service
		err      error
	)

	if group := r.URL.Query().Get("group"); group != "" {
		services, err = s.records.ListServicesByGroup(r.Context(), group)
	} else {
		services, err = s.records.ListServices(r.Context())
	}
	if err != nil {
		respondFailure(w, r, err, "list services")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"services": services,
		"total":    len(services),
	})
}

func (s *Server) handleListActiveServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.records.ListActiveServices(r.Context())
	if err != nil {
		respondFailure(w, r, err, "list active services")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"services": services,
		"total":    len(services),
	})
}

func (s *Server) handleGetService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	svc, err := s.records.GetService(r.Context(), id)
	if err != nil {
		respondFailure(w, r, err, "get service")
		return
	}

	respondJSON(w, http.StatusOK, svc)
}

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var req models.Service
	if !decodeBody(w, r, &req) {
		return
	}

	svc, err := s.records.CreateService(r.Context(), &req)
	if err != nil {
		respondFailure(w, r, err, "create service")
		return
	}

	respondJSON(w, http.StatusCreated, svc)
}

func (s *Server) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.Service
	if !decodeBody(w, r, &req) {
		return
	}

	svc, err := s.records.UpdateService(r.Context(), id, &req)
	if err != nil {
		respondFailure(w, r, err, "update service")
		return
	}

	respondJSON(w, http.StatusOK, svc)
}

func (s *Server) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.records.DeleteService(r.Context(), id); err != nil {
		respondFailure(w, r, err, "delete service")
		return
	}

	deleted(w, "service")
}
