package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/blockchain-unitn/skyledger-backend/internal/domain"
)

func (s *Server) registerPermissionRoutes(r *mux.Router) {
	r.HandleFunc("/check", s.handleCheckAuthorization).Methods(http.MethodPost)
	r.HandleFunc("/request", s.handleRequestAuthorization).Methods(http.MethodPost)
}

func (s *Server) handleCheckAuthorization(w http.ResponseWriter, r *http.Request) {
	var req domain.AuthorizationRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	verdict, err := s.permissions.Check(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, verdict)
}

func (s *Server) handleRequestAuthorization(w http.ResponseWriter, r *http.Request) {
	var req domain.AuthorizationRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.permissions.Request(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, result, "route authorization requested")
}
