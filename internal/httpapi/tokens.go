package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) registerTokenRoutes(r *mux.Router) {
	r.HandleFunc("/mint", s.handleMintTokens).Methods(http.MethodPost)
	r.HandleFunc("/burn", s.handleBurnTokens).Methods(http.MethodPost)
	r.HandleFunc("/transfer", s.handleTransferTokens).Methods(http.MethodPost)
	r.HandleFunc("/transfer-from", s.handleTransferTokensFrom).Methods(http.MethodPost)
	r.HandleFunc("/approve", s.handleApproveSpender).Methods(http.MethodPost)
	r.HandleFunc("/balance/{address}", s.handleTokenBalance).Methods(http.MethodGet)
	r.HandleFunc("/allowance/{owner}/{spender}", s.handleTokenAllowance).Methods(http.MethodGet)
	r.HandleFunc("/total-supply", s.handleTotalSupply).Methods(http.MethodGet)
	r.HandleFunc("/name", s.handleTokenName).Methods(http.MethodGet)
	r.HandleFunc("/symbol", s.handleTokenSymbol).Methods(http.MethodGet)
	r.HandleFunc("/decimals", s.handleTokenDecimals).Methods(http.MethodGet)
	r.HandleFunc("/info", s.handleTokenInfo).Methods(http.MethodGet)
}

func (s *Server) handleMintTokens(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To     string `json:"to"`
		Amount string `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.tokens.Mint(r.Context(), req.To, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, result, "tokens minted")
}

func (s *Server) handleBurnTokens(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From   string `json:"from"`
		Amount string `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.tokens.Burn(r.Context(), req.From, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result, "tokens burned")
}

func (s *Server) handleTransferTokens(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To     string `json:"to"`
		Amount string `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.tokens.Transfer(r.Context(), req.To, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result, "tokens transferred")
}

func (s *Server) handleTransferTokensFrom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From   string `json:"from"`
		To     string `json:"to"`
		Amount string `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.tokens.TransferFrom(r.Context(), req.From, req.To, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result, "tokens transferred")
}

func (s *Server) handleApproveSpender(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Spender string `json:"spender"`
		Amount  string `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.tokens.Approve(r.Context(), req.Spender, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result, "spender approved")
}

func (s *Server) handleTokenBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.tokens.BalanceOf(r.Context(), mux.Vars(r)["address"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, balance)
}

func (s *Server) handleTokenAllowance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	allowance, err := s.tokens.Allowance(r.Context(), vars["owner"], vars["spender"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, allowance)
}

func (s *Server) handleTotalSupply(w http.ResponseWriter, r *http.Request) {
	supply, err := s.tokens.TotalSupply(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"totalSupply": supply})
}

func (s *Server) handleTokenName(w http.ResponseWriter, r *http.Request) {
	name, err := s.tokens.Name(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"name": name})
}

func (s *Server) handleTokenSymbol(w http.ResponseWriter, r *http.Request) {
	symbol, err := s.tokens.Symbol(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"symbol": symbol})
}

func (s *Server) handleTokenDecimals(w http.ResponseWriter, r *http.Request) {
	decimals, err := s.tokens.Decimals(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]uint8{"decimals": decimals})
}

func (s *Server) handleTokenInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.tokens.Info(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, info)
}
