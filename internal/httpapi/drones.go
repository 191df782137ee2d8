package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/blockchain-unitn/skyledger-backend/internal/domain"
)

func (s *Server) registerDroneRoutes(r *mux.Router) {
	r.HandleFunc("", s.handleMintDrone).Methods(http.MethodPost)
	r.HandleFunc("", s.handleListDrones).Methods(http.MethodGet)
	r.HandleFunc("/stats/total", s.handleTotalDrones).Methods(http.MethodGet)
	r.HandleFunc("/owner/{address}", s.handleDronesByOwner).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}/cert-hashes", s.handleUpdateCertHashes).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}/permitted-zones", s.handleUpdatePermittedZones).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}/owner-history", s.handleUpdateOwnerHistory).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}/maintenance", s.handleUpdateMaintenance).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}/status", s.handleUpdateDroneStatus).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}/transfer", s.handleTransferDrone).Methods(http.MethodPost)
	r.HandleFunc("/{id:[0-9]+}", s.handleGetDrone).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}", s.handleBurnDrone).Methods(http.MethodDelete)
}

func (s *Server) handleMintDrone(w http.ResponseWriter, r *http.Request) {
	var req domain.MintDroneRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.drones.Mint(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, result, "drone minted")
}

func (s *Server) handleListDrones(w http.ResponseWriter, r *http.Request) {
	drones, err := s.drones.GetAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, drones, len(drones))
}

func (s *Server) handleTotalDrones(w http.ResponseWriter, r *http.Request) {
	total, err := s.drones.Total(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]uint64{"total": total})
}

func (s *Server) handleDronesByOwner(w http.ResponseWriter, r *http.Request) {
	drones, err := s.drones.ByOwner(r.Context(), mux.Vars(r)["address"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, drones, len(drones))
}

func (s *Server) handleGetDrone(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	drone, err := s.drones.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, drone)
}

func (s *Server) handleUpdateCertHashes(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req struct {
		CertHashes []string `json:"certHashes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.drones.UpdateCertHashes(r.Context(), id, req.CertHashes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result, "certification hashes updated")
}

func (s *Server) handleUpdatePermittedZones(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req struct {
		PermittedZones []domain.ZoneType `json:"permittedZones"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.drones.UpdatePermittedZones(r.Context(), id, req.PermittedZones)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result, "permitted zones updated")
}

func (s *Server) handleUpdateOwnerHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req struct {
		OwnerHistory []string `json:"ownerHistory"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.drones.UpdateOwnerHistory(r.Context(), id, req.OwnerHistory)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result, "owner history updated")
}

func (s *Server) handleUpdateMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req struct {
		MaintenanceHash string `json:"maintenanceHash"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.drones.UpdateMaintenance(r.Context(), id, req.MaintenanceHash)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result, "maintenance hash updated")
}

func (s *Server) handleUpdateDroneStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req struct {
		Status domain.DroneStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.drones.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result, "drone status updated")
}

func (s *Server) handleTransferDrone(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.drones.Transfer(r.Context(), req.From, req.To, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result, "drone transferred")
}

func (s *Server) handleBurnDrone(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.drones.Burn(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result, "drone burned")
}
