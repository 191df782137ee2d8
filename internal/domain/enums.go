// Package domain holds the value objects and enum tables mirrored from the
// SkyLedger smart contracts. Entities here have no lifecycle of their own;
// the chain owns all state.
package domain

import (
	"fmt"
	"strings"
)

// ZoneType is the on-chain zone classification ordinal.
type ZoneType uint8

const (
	ZoneRural ZoneType = iota
	ZoneUrban
	ZoneHospitals
	ZoneMilitary
	ZoneRestricted
)

var zoneTypeNames = [...]string{"RURAL", "URBAN", "HOSPITALS", "MILITARY", "RESTRICTED"}

func (z ZoneType) String() string {
	if int(z) < len(zoneTypeNames) {
		return zoneTypeNames[z]
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(z))
}

// Valid reports whether the ordinal is within the declared table.
func (z ZoneType) Valid() bool { return int(z) < len(zoneTypeNames) }

// ParseZoneType resolves a case-insensitive zone type name.
func ParseZoneType(name string) (ZoneType, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range zoneTypeNames {
		if n == upper {
			return ZoneType(i), nil
		}
	}
	return 0, Validationf("invalid zone type %q, valid types: %s", name, strings.Join(zoneTypeNames[:], ", "))
}

// ZoneTypeNames returns the declared ordinal-to-name table.
func ZoneTypeNames() []string { return zoneTypeNames[:] }

// DroneType is the on-chain drone classification ordinal.
type DroneType uint8

const (
	DroneMedical DroneType = iota
	DroneCargo
	DroneSurveillance
	DroneAgricultural
	DroneRecreational
	DroneMapping
	DroneMilitar
)

// MILITAR matches the contract's enum member spelling.
var droneTypeNames = [...]string{"MEDICAL", "CARGO", "SURVEILLANCE", "AGRICULTURAL", "RECREATIONAL", "MAPPING", "MILITAR"}

func (d DroneType) String() string {
	if int(d) < len(droneTypeNames) {
		return droneTypeNames[d]
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(d))
}

func (d DroneType) Valid() bool { return int(d) < len(droneTypeNames) }

// ParseDroneType resolves a case-insensitive drone type name.
func ParseDroneType(name string) (DroneType, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range droneTypeNames {
		if n == upper {
			return DroneType(i), nil
		}
	}
	return 0, Validationf("invalid drone type %q, valid types: %s", name, strings.Join(droneTypeNames[:], ", "))
}

// DroneStatus is the on-chain drone lifecycle ordinal.
type DroneStatus uint8

const (
	DroneActive DroneStatus = iota
	DroneMaintenance
	DroneInactive
)

var droneStatusNames = [...]string{"ACTIVE", "MAINTENANCE", "INACTIVE"}

func (s DroneStatus) String() string {
	if int(s) < len(droneStatusNames) {
		return droneStatusNames[s]
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(s))
}

func (s DroneStatus) Valid() bool { return int(s) < len(droneStatusNames) }

// ParseDroneStatus resolves a case-insensitive drone status name.
func ParseDroneStatus(name string) (DroneStatus, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range droneStatusNames {
		if n == upper {
			return DroneStatus(i), nil
		}
	}
	return 0, Validationf("invalid drone status %q, valid statuses: %s", name, strings.Join(droneStatusNames[:], ", "))
}

// RouteStatus describes how a flown route compared to its authorization.
type RouteStatus uint8

const (
	RouteNormal RouteStatus = iota
	RouteDeviated
)

var routeStatusNames = [...]string{"NORMAL", "DEVIATED"}

func (s RouteStatus) String() string {
	if int(s) < len(routeStatusNames) {
		return routeStatusNames[s]
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(s))
}

func (s RouteStatus) Valid() bool { return int(s) < len(routeStatusNames) }

// ParseRouteStatus resolves a case-insensitive route status name.
func ParseRouteStatus(name string) (RouteStatus, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range routeStatusNames {
		if n == upper {
			return RouteStatus(i), nil
		}
	}
	return 0, Validationf("invalid route status %q, valid statuses: %s", name, strings.Join(routeStatusNames[:], ", "))
}

// RouteStatusNames returns the declared ordinal-to-name table.
func RouteStatusNames() []string { return routeStatusNames[:] }

// PreAuthorizationStatus is the outcome of a route permission check.
type PreAuthorizationStatus uint8

const (
	PreAuthApproved PreAuthorizationStatus = iota
	PreAuthFailed
)

var preAuthNames = [...]string{"APPROVED", "FAILED"}

func (s PreAuthorizationStatus) String() string {
	if int(s) < len(preAuthNames) {
		return preAuthNames[s]
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(s))
}
