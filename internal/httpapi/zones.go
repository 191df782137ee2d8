package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/blockchain-unitn/skyledger-backend/internal/domain"
)

func (s *Server) registerZoneRoutes(r *mux.Router) {
	r.HandleFunc("", s.handleCreateZone).Methods(http.MethodPost)
	r.HandleFunc("", s.handleListZones).Methods(http.MethodGet)
	r.HandleFunc("/stats/total", s.handleTotalZones).Methods(http.MethodGet)
	r.HandleFunc("/type/{type}", s.handleZonesByType).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}/exists", s.handleZoneExists).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}/boundaries", s.handleZoneBoundaries).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}/status", s.handleSetZoneStatus).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}", s.handleGetZone).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}", s.handleUpdateZone).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}", s.handleDeleteZone).Methods(http.MethodDelete)
}

func (s *Server) handleCreateZone(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateZoneRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.zones.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, result, "zone created")
}

func (s *Server) handleListZones(w http.ResponseWriter, r *http.Request) {
	zones, err := s.zones.GetAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, zones, len(zones))
}

func (s *Server) handleTotalZones(w http.ResponseWriter, r *http.Request) {
	total, err := s.zones.Total(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]uint64{"total": total})
}

func (s *Server) handleZonesByType(w http.ResponseWriter, r *http.Request) {
	zoneType, err := domain.ParseZoneType(mux.Vars(r)["type"])
	if err != nil {
		writeError(w, err)
		return
	}
	activeOnly, err := queryBool(r, "active")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	ids, err := s.zones.ByType(r.Context(), zoneType, activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, map[string]interface{}{
		"zoneType": zoneType.String(),
		"active":   activeOnly,
		"zoneIds":  ids,
	}, len(ids))
}

func (s *Server) handleZoneExists(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	exists, err := s.zones.Exists(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"zoneId": id, "exists": exists})
}

func (s *Server) handleZoneBoundaries(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	boundaries, err := s.zones.Boundaries(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, map[string]interface{}{"zoneId": id, "boundaries": boundaries}, len(boundaries))
}

func (s *Server) handleGetZone(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	zone, err := s.zones.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, zone)
}

func (s *Server) handleUpdateZone(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req domain.UpdateZoneRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.zones.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result, "zone updated")
}

func (s *Server) handleSetZoneStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req struct {
		IsActive *bool `json:"isActive"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.IsActive == nil {
		badRequest(w, "isActive is required")
		return
	}
	result, err := s.zones.SetStatus(r.Context(), id, *req.IsActive)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result, "zone status updated")
}

func (s *Server) handleDeleteZone(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.zones.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result, "zone deleted")
}
