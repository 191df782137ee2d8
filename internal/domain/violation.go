package domain

// Violation is one append-only entry in the ViolationsAlerting contract.
type Violation struct {
	DroneID   string `json:"droneID"`
	Position  string `json:"position"`
	Timestamp uint64 `json:"timestamp"`
}

// ReportViolationRequest is the validated input for reporting a violation.
type ReportViolationRequest struct {
	DroneID  string `json:"droneID"`
	Position string `json:"position"`
}

// DroneViolations lists the recorded positions and timestamps for one drone.
type DroneViolations struct {
	Positions  []string `json:"positions"`
	Timestamps []uint64 `json:"timestamps"`
}

// AllViolations is the parallel-array dump of every recorded violation.
type AllViolations struct {
	DroneIDs   []string `json:"droneIDs"`
	Positions  []string `json:"positions"`
	Timestamps []uint64 `json:"timestamps"`
}
