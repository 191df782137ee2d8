package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestZoneTypeJSON(t *testing.T) {
	out, err := json.Marshal(ZoneHospitals)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"HOSPITALS"` {
		t.Errorf("marshal = %s, want \"HOSPITALS\"", out)
	}

	for _, in := range []string{`"HOSPITALS"`, `"hospitals"`, `2`} {
		var z ZoneType
		if err := json.Unmarshal([]byte(in), &z); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if z != ZoneHospitals {
			t.Errorf("unmarshal %s = %v, want HOSPITALS", in, z)
		}
	}

	var z ZoneType
	err = json.Unmarshal([]byte(`"OCEANIC"`), &z)
	if err == nil {
		t.Fatal("unmarshal OCEANIC: expected error, got none")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("unmarshal OCEANIC: error %T is not a ValidationError", err)
	}
}

func TestDroneStatusJSON(t *testing.T) {
	var s DroneStatus
	if err := json.Unmarshal([]byte(`"INACTIVE"`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s != DroneInactive {
		t.Errorf("unmarshal INACTIVE = %v, want INACTIVE", s)
	}

	out, _ := json.Marshal(DroneActive)
	if string(out) != `"ACTIVE"` {
		t.Errorf("marshal = %s, want \"ACTIVE\"", out)
	}
}

func TestRouteStatusJSON(t *testing.T) {
	var s RouteStatus
	if err := json.Unmarshal([]byte(`1`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s != RouteDeviated {
		t.Errorf("unmarshal 1 = %v, want DEVIATED", s)
	}
}

func TestMintDroneRequestJSON(t *testing.T) {
	payload := `{
		"serialNumber": "SN-001",
		"model": "DJI-X",
		"droneType": "CARGO",
		"certHashes": ["abc"],
		"permittedZones": ["RURAL", "URBAN"],
		"ownerHistory": ["0x0"],
		"maintenanceHash": "m1",
		"status": "ACTIVE"
	}`
	var req MintDroneRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.DroneType != DroneCargo {
		t.Errorf("droneType = %v, want CARGO", req.DroneType)
	}
	if len(req.PermittedZones) != 2 || req.PermittedZones[1] != ZoneUrban {
		t.Errorf("permittedZones = %v, want [RURAL URBAN]", req.PermittedZones)
	}
	if req.Status != DroneActive {
		t.Errorf("status = %v, want ACTIVE", req.Status)
	}
}
