package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// handleHealth handles health check requests. It runs a quick database
// check so a wedged SQLite file surfaces here instead of on first write.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "healthy"
	httpStatus := http.StatusOK
	if err := s.container.FinanceDB.QuickCheck(ctx); err != nil {
		s.log.Error().Err(err).Msg("Health check failed")
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	s.writeJSON(w, httpStatus, map[string]interface{}{
		"status":  status,
		"service": "fintrack",
		"uptime":  time.Since(s.startupTime).Round(time.Second).String(),
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
