package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/terra-clan/techdesk/internal/models"
)

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := models.OrderFilters{
		Status: models.OrderStatus(strings.ToUpper(q.Get("status"))),
	}

	if raw := q.Get("client_id"); raw != "" {
		clientID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("invalid client_id %q", raw))
			return
		}
		filters.ClientID = &clientID
	}

	orders, err := s.records.ListOrders(r.Context(), filters)
	if err != nil {
		respondFailure(w, r, err, "list orders")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  len(orders),
	})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	o, err := s.records.GetOrder(r.Context(), id)
	if err != nil {
		respondFailure(w, r, err, "get order")
		return
	}

	respondJSON(w, http.StatusOK, o)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.Order
	if !decodeBody(w, r, &req) {
		return
	}

	o, err := s.records.CreateOrder(r.Context(), &req)
	if err != nil {
		respondFailure(w, r, err, "create order")
		return
	}

	respondJSON(w, http.StatusCreated, o)
}

func (s *Server) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.Order
	if !decodeBody(w, r, &req) {
		return
	}

	o, err := s.records.UpdateOrder(r.Context(), id, &req)
	if err != nil {
		respondFailure(w, r, err, "update order")
		return
	}

	respondJSON(w, http.StatusOK, o)
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.records.DeleteOrder(r.Context(), id); err != nil {
		respondFailure(w, r, err, "delete order")
		return
	}

	deleted(w, "order")
}
