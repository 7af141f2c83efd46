package api

import (
	"net/http"
	"time"
)

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	report := s.state.LatestReport()
	if report == nil {
		writeError(w, http.StatusServiceUnavailable, "no refresh has completed yet")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAllocation(w http.ResponseWriter, r *http.Request) {
	report := s.state.LatestReport()
	if report == nil || report.Allocation == nil {
		writeError(w, http.StatusServiceUnavailable, "no refresh has completed yet")
		return
	}
	writeJSON(w, http.StatusOK, report.Allocation)
}

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	wallet := s.state.LatestWallet()
	if wallet == nil {
		writeError(w, http.StatusServiceUnavailable, "no wallet snapshot available")
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (s *Server) handleReportHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotImplemented, "report archive not configured")
		return
	}

	limit := parseLimit(r, 50)
	records, err := s.history.GetHistory(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, records)
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	LastRun   string `json:"last_run,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if last := s.state.LastRun(); !last.IsZero() {
		resp.LastRun = last.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}
