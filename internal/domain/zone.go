package domain

import "github.com/blockchain-unitn/skyledger-backend/internal/geo"

// Zone mirrors the Zones contract record, with coordinates decoded from
// micro-degrees and enums expanded to their names.
type Zone struct {
	ID          uint64      `json:"id"`
	Name        string      `json:"name"`
	ZoneType    string      `json:"zoneType"`
	Boundaries  []geo.Point `json:"boundaries"`
	MaxAltitude uint64      `json:"maxAltitude"`
	MinAltitude uint64      `json:"minAltitude"`
	IsActive    bool        `json:"isActive"`
	Description string      `json:"description"`
	CreatedAt   uint64      `json:"createdAt"`
	UpdatedAt   uint64      `json:"updatedAt"`
}

// CreateZoneRequest is the validated input for zone creation.
type CreateZoneRequest struct {
	Name        string      `json:"name"`
	ZoneType    ZoneType    `json:"zoneType"`
	Boundaries  []geo.Point `json:"boundaries"`
	MaxAltitude uint64      `json:"maxAltitude"`
	MinAltitude uint64      `json:"minAltitude"`
	Description string      `json:"description"`
}

// UpdateZoneRequest carries the replacement geometry and metadata for a zone.
type UpdateZoneRequest struct {
	Name        string      `json:"name"`
	Boundaries  []geo.Point `json:"boundaries"`
	MaxAltitude uint64      `json:"maxAltitude"`
	MinAltitude uint64      `json:"minAltitude"`
	Description string      `json:"description"`
}

// CreateZoneResult reports the zone identifier derived from the ZoneCreated
// event and the transaction hash.
type CreateZoneResult struct {
	ZoneID uint64 `json:"zoneId"`
	TxHash string `json:"txHash"`
}

// TxResult is the response for state-changing operations whose contract call
// yields no derived identifier.
type TxResult struct {
	TxHash string `json:"txHash"`
}
