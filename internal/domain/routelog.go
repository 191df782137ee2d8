package domain

import "github.com/blockchain-unitn/skyledger-backend/internal/geo"

// RouteLog mirrors one immutable RouteLogging record. Coordinates are decoded
// from micro-degrees; zones and status carry both ordinal and name via the
// enum tables at the HTTP boundary.
type RouteLog struct {
	LogID         uint64      `json:"logId"`
	Timestamp     uint64      `json:"timestamp"`
	DroneID       uint64      `json:"droneId"`
	UTMAuthorizer string      `json:"utmAuthorizer"`
	Zones         []ZoneType  `json:"zones"`
	StartPoint    geo.Point   `json:"startPoint"`
	EndPoint      geo.Point   `json:"endPoint"`
	Route         []geo.Point `json:"route"`
	StartTime     uint64      `json:"startTime"`
	EndTime       uint64      `json:"endTime"`
	Status        RouteStatus `json:"status"`
}

// LogRouteRequest is the validated input for logging a flown route.
type LogRouteRequest struct {
	DroneID       uint64      `json:"droneId"`
	UTMAuthorizer string      `json:"utmAuthorizer"`
	Zones         []ZoneType  `json:"zones"`
	StartPoint    geo.Point   `json:"startPoint"`
	EndPoint      geo.Point   `json:"endPoint"`
	Route         []geo.Point `json:"route"`
	StartTime     uint64      `json:"startTime"`
	EndTime       uint64      `json:"endTime"`
	Status        RouteStatus `json:"status"`
}

// LogRouteResult reports the log identifier derived from the RouteLogged
// event and the transaction hash.
type LogRouteResult struct {
	LogID  uint64 `json:"logId"`
	TxHash string `json:"txHash"`
}

// LogPage is one page of log identifiers, newest first.
type LogPage struct {
	LogIDs  []uint64 `json:"logIds"`
	Total   uint64   `json:"total"`
	Offset  uint64   `json:"offset"`
	Limit   uint64   `json:"limit"`
	HasMore bool     `json:"hasMore"`
}

// AuthorizedDrones lists drones whose routes were authorized by one UTM.
type AuthorizedDrones struct {
	DroneIDs []uint64 `json:"droneIds"`
	HasMore  *bool    `json:"hasMore,omitempty"`
	UTM      string   `json:"utm"`
}
