package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/blockchain-unitn/skyledger-backend/internal/domain"
)

func (s *Server) registerViolationRoutes(r *mux.Router) {
	r.HandleFunc("/report", s.handleReportViolation).Methods(http.MethodPost)
	r.HandleFunc("/count", s.handleViolationCount).Methods(http.MethodGet)
	r.HandleFunc("/violation/{index:[0-9]+}", s.handleGetViolation).Methods(http.MethodGet)
	r.HandleFunc("/drone/{droneID}", s.handleViolationsByDrone).Methods(http.MethodGet)
	r.HandleFunc("/all", s.handleAllViolations).Methods(http.MethodGet)
}

func (s *Server) handleReportViolation(w http.ResponseWriter, r *http.Request) {
	var req domain.ReportViolationRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.violations.Report(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, result, "violation reported")
}

func (s *Server) handleViolationCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.violations.Count(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]uint64{"count": count})
}

func (s *Server) handleGetViolation(w http.ResponseWriter, r *http.Request) {
	index, err := pathUint(r, "index")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	violation, err := s.violations.Get(r.Context(), index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, violation)
}

func (s *Server) handleViolationsByDrone(w http.ResponseWriter, r *http.Request) {
	result, err := s.violations.ByDrone(r.Context(), mux.Vars(r)["droneID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, result, len(result.Positions))
}

func (s *Server) handleAllViolations(w http.ResponseWriter, r *http.Request) {
	result, err := s.violations.All(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, result, len(result.DroneIDs))
}
