package domain

// Drone mirrors the DroneIdentityNFT record with enum names expanded.
type Drone struct {
	TokenID         uint64   `json:"tokenId"`
	Owner           string   `json:"owner"`
	SerialNumber    string   `json:"serialNumber"`
	Model           string   `json:"model"`
	DroneType       string   `json:"droneType"`
	CertHashes      []string `json:"certHashes"`
	PermittedZones  []string `json:"permittedZones"`
	OwnerHistory    []string `json:"ownerHistory"`
	MaintenanceHash string   `json:"maintenanceHash"`
	Status          string   `json:"status"`
}

// MintDroneRequest is the validated input for minting a drone identity.
type MintDroneRequest struct {
	SerialNumber    string        `json:"serialNumber"`
	Model           string        `json:"model"`
	DroneType       DroneType     `json:"droneType"`
	CertHashes      []string      `json:"certHashes"`
	PermittedZones  []ZoneType    `json:"permittedZones"`
	OwnerHistory    []string      `json:"ownerHistory"`
	MaintenanceHash string        `json:"maintenanceHash"`
	Status          DroneStatus   `json:"status"`
}

// MintDroneResult reports the token identifier derived from the ERC-721
// Transfer event and the transaction hash.
type MintDroneResult struct {
	TokenID uint64 `json:"tokenId"`
	TxHash  string `json:"txHash"`
}
