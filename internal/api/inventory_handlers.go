package api

import (
	"net/http"

	"github.com/terra-clan/techdesk/internal/models"
)

func (s *Server) handleListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := s.records.ListInventory(r.Context())
	if err != nil {
		respondFailure(w, r, err, "list inventory")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"total": len(items),
	})
}

func (s *Server) handleGetInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	item, err := s.records.GetInventoryItem(r.Context(), id)
	if err != nil {
		respondFailure(w, r, err, "get inventory item")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleCreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var req models.InventoryItem
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := s.records.CreateInventoryItem(r.Context(), &req)
	if err != nil {
		respondFailure(w, r, err, "create inventory item")
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.InventoryItem
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := s.records.UpdateInventoryItem(r.Context(), id, &req)
	if err != nil {
		respondFailure(w, r, err, "update inventory item")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.records.DeleteInventoryItem(r.Context(), id); err != nil {
		respondFailure(w, r, err, "delete inventory item")
		return
	}

	deleted(w, "inventory item")
}
