package api

import (
	"context"
	"net/http"
)

// statsHandler adapts a stats.Service method to an HTTP handler
func statsHandler[T any](compute func(ctx context.Context) (*T, error), action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := compute(r.Context())
		if err != nil {
			respondFailure(w, r, err, action)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	statsHandler(s.stats.Summary, "compute summary")(w, r)
}

func (s *Server) handleOrdersByStatus(w http.ResponseWriter, r *http.Request) {
	statsHandler(s.stats.OrdersByStatus, "compute status distribution")(w, r)
}

func (s *Server) handleMonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	statsHandler(s.stats.MonthlyRevenue, "compute monthly revenue")(w, r)
}

func (s *Server) handleServiceTrend(w http.ResponseWriter, r *http.Request) {
	statsHandler(s.stats.ServiceTrend, "compute service trend")(w, r)
}

func (s *Server) handleClientSegments(w http.ResponseWriter, r *http.Request) {
	statsHandler(s.stats.ClientSegments, "compute client segments")(w, r)
}

func (s *Server) handleInventoryByCategory(w http.ResponseWriter, r *http.Request) {
	statsHandler(s.stats.InventoryByCategory, "compute inventory breakdown")(w, r)
}

func (s *Server) handleTechnicianPerformance(w http.ResponseWriter, r *http.Request) {
	statsHandler(s.stats.TechnicianPerformance, "compute technician performance")(w, r)
}
