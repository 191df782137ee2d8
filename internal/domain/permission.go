package domain

// AuthorizationRequest asks whether a drone may fly a route through the
// given zones. AltitudeLimit is optional and defaults to zero.
type AuthorizationRequest struct {
	DroneID       uint64     `json:"droneId"`
	Zones         []ZoneType `json:"zones"`
	AltitudeLimit uint64     `json:"altitudeLimit"`
}

// Authorization is the contract's preauthorization verdict. It is derived,
// never stored.
type Authorization struct {
	DroneID                uint64 `json:"droneId"`
	PreauthorizationStatus string `json:"preauthorizationStatus"`
	Reason                 string `json:"reason"`
}

// RequestedAuthorization pairs an on-chain authorization request with the
// verdict read back after the transaction confirmed.
type RequestedAuthorization struct {
	Response Authorization `json:"response"`
	TxHash   string        `json:"txHash"`
}
