package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/blockchain-unitn/skyledger-backend/internal/domain"
)

// apiResponse is the envelope every endpoint answers with.
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeData answers with a success envelope.
func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, apiResponse{Success: true, Data: data})
}

// writeList answers with a success envelope carrying an element count.
func writeList(w http.ResponseWriter, data interface{}, count int) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: data, Count: &count})
}

// writeMessage answers with a success envelope and a human-readable note.
func writeMessage(w http.ResponseWriter, status int, data interface{}, message string) {
	writeJSON(w, status, apiResponse{Success: true, Data: data, Message: message})
}

// writeError maps validation failures to 400 and everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		badRequest(w, verr.Error())
		return
	}
	writeJSON(w, http.StatusInternalServerError, apiResponse{Success: false, Error: err.Error()})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Error: msg})
}

// decodeJSON parses a request body.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
