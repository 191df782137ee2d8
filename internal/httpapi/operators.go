package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) registerOperatorRoutes(r *mux.Router) {
	r.HandleFunc("", s.handleListOperators).Methods(http.MethodGet)
	r.HandleFunc("/allowance", s.handleOperatorAllowance).Methods(http.MethodGet)
	r.HandleFunc("/approve-tokens", s.handleApproveTokens).Methods(http.MethodPost)
	r.HandleFunc("/register", s.handleRegisterOperator).Methods(http.MethodPost)
	r.HandleFunc("/spend-tokens", s.handleSpendTokens).Methods(http.MethodPost)
	r.HandleFunc("/penalize", s.handlePenalizeOperator).Methods(http.MethodPost)
	r.HandleFunc("/admin/add", s.handleAddAdmin).Methods(http.MethodPost)
	r.HandleFunc("/admin/remove", s.handleRemoveAdmin).Methods(http.MethodDelete)
	r.HandleFunc("/stats/overview", s.handleOperatorStats).Methods(http.MethodGet)
	r.HandleFunc("/stats/balance", s.handleOperatorContractBalance).Methods(http.MethodGet)
	r.HandleFunc("/debug/roles", s.handleOperatorRoles).Methods(http.MethodGet)
	r.HandleFunc("/debug/contract", s.handleOperatorProbe).Methods(http.MethodGet)
	r.HandleFunc("/{address}", s.handleGetOperator).Methods(http.MethodGet)
}

func (s *Server) handleListOperators(w http.ResponseWriter, r *http.Request) {
	operators, err := s.operators.All(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, operators, len(operators))
}

func (s *Server) handleGetOperator(w http.ResponseWriter, r *http.Request) {
	operator, err := s.operators.Get(r.Context(), mux.Vars(r)["address"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, operator)
}

func (s *Server) handleRegisterOperator(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Operator string `json:"operator"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.operators.Register(r.Context(), req.Operator)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, result, "operator registered")
}

func (s *Server) handleSpendTokens(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount string `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.operators.SpendTokens(r.Context(), req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result, "tokens spent")
}

func (s *Server) handlePenalizeOperator(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Operator string `json:"operator"`
		Penalty  string `json:"penalty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.operators.Penalize(r.Context(), req.Operator, req.Penalty)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result, "operator penalized")
}

func (s *Server) handleAddAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewAdmin string `json:"newAdmin"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.operators.AddAdmin(r.Context(), req.NewAdmin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result, "admin added")
}

func (s *Server) handleRemoveAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AdminToRemove string `json:"adminToRemove"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.operators.RemoveAdmin(r.Context(), req.AdminToRemove)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result, "admin removed")
}

func (s *Server) handleApproveTokens(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount string `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.operators.ApproveTokens(r.Context(), req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result, "reputation tokens approved")
}

func (s *Server) handleOperatorAllowance(w http.ResponseWriter, r *http.Request) {
	allowance, err := s.operators.Allowance(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"allowance": allowance})
}

func (s *Server) handleOperatorStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.operators.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

func (s *Server) handleOperatorContractBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.operators.ContractBalance(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"balance": balance, "unit": "ether"})
}

func (s *Server) handleOperatorRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := s.operators.Roles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, roles)
}

func (s *Server) handleOperatorProbe(w http.ResponseWriter, r *http.Request) {
	probe, err := s.operators.Probe(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, probe)
}
