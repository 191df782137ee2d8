package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/blockchain-unitn/skyledger-backend/internal/domain"
	"github.com/blockchain-unitn/skyledger-backend/internal/services/routelog"
)

func (s *Server) registerRouteLogRoutes(r *mux.Router) {
	r.HandleFunc("", s.handleRouteLogDescriptor).Methods(http.MethodGet)
	r.HandleFunc("", s.handleLogRoute).Methods(http.MethodPost)
	r.HandleFunc("/all", s.handleAllRouteLogs).Methods(http.MethodGet)
	r.HandleFunc("/recent", s.handleRecentRouteLogs).Methods(http.MethodGet)
	r.HandleFunc("/stats/count", s.handleRouteLogCount).Methods(http.MethodGet)
	r.HandleFunc("/drone/{droneId:[0-9]+}/paginated", s.handleDroneLogsPaginated).Methods(http.MethodGet)
	r.HandleFunc("/drone/{droneId:[0-9]+}", s.handleDroneLogs).Methods(http.MethodGet)
	r.HandleFunc("/utm/{address}/drones/safe", s.handleUTMDronesSafe).Methods(http.MethodGet)
	r.HandleFunc("/utm/{address}/drones", s.handleUTMDrones).Methods(http.MethodGet)
	r.HandleFunc("/{logId:[0-9]+}/zones", s.handleRouteLogZones).Methods(http.MethodGet)
	r.HandleFunc("/{logId:[0-9]+}", s.handleGetRouteLog).Methods(http.MethodGet)
}

func (s *Server) handleRouteLogDescriptor(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]interface{}{
		"endpoints": map[string]string{
			"log":       "POST /api/routes",
			"all":       "GET /api/routes/all?offset=&limit=",
			"recent":    "GET /api/routes/recent?limit=",
			"count":     "GET /api/routes/stats/count",
			"byDrone":   "GET /api/routes/drone/{droneId}",
			"paginated": "GET /api/routes/drone/{droneId}/paginated?offset=&limit=",
			"byUTM":     "GET /api/routes/utm/{address}/drones",
			"byUTMSafe": "GET /api/routes/utm/{address}/drones/safe?maxResults=",
			"byId":      "GET /api/routes/{logId}",
			"zones":     "GET /api/routes/{logId}/zones",
		},
		"zoneTypes":     domain.ZoneTypeNames(),
		"routeStatuses": domain.RouteStatusNames(),
	})
}

func (s *Server) handleLogRoute(w http.ResponseWriter, r *http.Request) {
	var req domain.LogRouteRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := s.routes.Log(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, result, "route logged")
}

// handleAllRouteLogs pages the log newest-first and expands each identifier
// into its full record.
func (s *Server) handleAllRouteLogs(w http.ResponseWriter, r *http.Request) {
	offset, err := queryUint(r, "offset", 0)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	limit, err := queryUint(r, "limit", routelog.DefaultPageLimit)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	page, err := s.routes.Recent(r.Context(), offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	logs := s.routes.GetMany(r.Context(), page.LogIDs)
	writeList(w, map[string]interface{}{
		"logs":    logs,
		"total":   page.Total,
		"offset":  page.Offset,
		"limit":   page.Limit,
		"hasMore": page.HasMore,
	}, len(logs))
}

func (s *Server) handleRecentRouteLogs(w http.ResponseWriter, r *http.Request) {
	limit, err := queryUint(r, "limit", routelog.DefaultPageLimit)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	page, err := s.routes.Recent(r.Context(), 0, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	logs := s.routes.GetMany(r.Context(), page.LogIDs)
	writeList(w, logs, len(logs))
}

func (s *Server) handleRouteLogCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.routes.Count(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]uint64{"count": count})
}

func (s *Server) handleDroneLogs(w http.ResponseWriter, r *http.Request) {
	droneID, err := pathUint(r, "droneId")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	ids, err := s.routes.OfDrone(r.Context(), droneID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, map[string]interface{}{"droneId": droneID, "logIds": ids}, len(ids))
}

func (s *Server) handleDroneLogsPaginated(w http.ResponseWriter, r *http.Request) {
	droneID, err := pathUint(r, "droneId")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	offset, err := queryUint(r, "offset", 0)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	limit, err := queryUint(r, "limit", routelog.DefaultPageLimit)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	page, err := s.routes.OfDronePaginated(r.Context(), droneID, offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, page)
}

func (s *Server) handleUTMDrones(w http.ResponseWriter, r *http.Request) {
	drones, err := s.routes.AuthorizedByUTM(r.Context(), mux.Vars(r)["address"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, drones, len(drones.DroneIDs))
}

func (s *Server) handleUTMDronesSafe(w http.ResponseWriter, r *http.Request) {
	maxResults, err := queryUint(r, "maxResults", routelog.DefaultSafeLimit)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	drones, err := s.routes.AuthorizedByUTMSafe(r.Context(), mux.Vars(r)["address"], maxResults)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, drones, len(drones.DroneIDs))
}

func (s *Server) handleGetRouteLog(w http.ResponseWriter, r *http.Request) {
	logID, err := pathUint(r, "logId")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	record, err := s.routes.Get(r.Context(), logID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, record)
}

func (s *Server) handleRouteLogZones(w http.ResponseWriter, r *http.Request) {
	logID, err := pathUint(r, "logId")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	zones, err := s.routes.ZonesOfLog(r.Context(), logID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, map[string]interface{}{"logId": logID, "zones": zones}, len(zones))
}
