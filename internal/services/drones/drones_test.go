package drones

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/blockchain-unitn/skyledger-backend/internal/domain"
)

func TestMintValidation(t *testing.T) {
	s := &Service{}
	valid := domain.MintDroneRequest{
		SerialNumber:   "SN-1",
		Model:          "M-1",
		DroneType:      domain.DroneCargo,
		PermittedZones: []domain.ZoneType{domain.ZoneRural},
		Status:         domain.DroneActive,
	}

	tests := []struct {
		name   string
		mutate func(*domain.MintDroneRequest)
	}{
		{"empty serial", func(r *domain.MintDroneRequest) { r.SerialNumber = " " }},
		{"empty model", func(r *domain.MintDroneRequest) { r.Model = "" }},
		{"invalid type", func(r *domain.MintDroneRequest) { r.DroneType = domain.DroneType(99) }},
		{"invalid status", func(r *domain.MintDroneRequest) { r.Status = domain.DroneStatus(99) }},
		{"invalid zone", func(r *domain.MintDroneRequest) { r.PermittedZones = []domain.ZoneType{domain.ZoneType(99)} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			_, err := s.Mint(context.Background(), req)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestUpdateValidation(t *testing.T) {
	s := &Service{}
	ctx := context.Background()
	var verr *domain.ValidationError

	if _, err := s.UpdateCertHashes(ctx, 1, nil); !errors.As(err, &verr) {
		t.Errorf("UpdateCertHashes: expected ValidationError, got %v", err)
	}
	if _, err := s.UpdatePermittedZones(ctx, 1, nil); !errors.As(err, &verr) {
		t.Errorf("UpdatePermittedZones: expected ValidationError, got %v", err)
	}
	if _, err := s.UpdateOwnerHistory(ctx, 1, nil); !errors.As(err, &verr) {
		t.Errorf("UpdateOwnerHistory: expected ValidationError, got %v", err)
	}
	if _, err := s.UpdateMaintenance(ctx, 1, " "); !errors.As(err, &verr) {
		t.Errorf("UpdateMaintenance: expected ValidationError, got %v", err)
	}
	if _, err := s.UpdateStatus(ctx, 1, domain.DroneStatus(7)); !errors.As(err, &verr) {
		t.Errorf("UpdateStatus: expected ValidationError, got %v", err)
	}
	if _, err := s.Transfer(ctx, "bad", "alsobad", 1); !errors.As(err, &verr) {
		t.Errorf("Transfer: expected ValidationError, got %v", err)
	}
	if _, err := s.ByOwner(ctx, "bad"); !errors.As(err, &verr) {
		t.Errorf("ByOwner: expected ValidationError, got %v", err)
	}
}

func TestDecodeDrone(t *testing.T) {
	owner := common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	tuple := droneTuple{
		SerialNumber:    "SN-9",
		Model:           "Mavic",
		DroneType:       uint8(domain.DroneSurveillance),
		CertHashes:      []string{"h1"},
		PermittedZones:  []uint8{0, 4},
		OwnerHistory:    []string{owner.Hex()},
		MaintenanceHash: "m",
		Status:          uint8(domain.DroneMaintenance),
	}
	drone := decodeDrone(42, tuple, owner)
	if drone.TokenID != 42 || drone.Owner != owner.Hex() {
		t.Errorf("identity = (%d, %s)", drone.TokenID, drone.Owner)
	}
	if drone.DroneType != "SURVEILLANCE" || drone.Status != "MAINTENANCE" {
		t.Errorf("enums = (%s, %s)", drone.DroneType, drone.Status)
	}
	want := []string{"RURAL", "RESTRICTED"}
	if len(drone.PermittedZones) != 2 || drone.PermittedZones[0] != want[0] || drone.PermittedZones[1] != want[1] {
		t.Errorf("permittedZones = %v, want %v", drone.PermittedZones, want)
	}
}

func TestEncodeZonesRejectsUnknown(t *testing.T) {
	if _, err := encodeZones([]domain.ZoneType{domain.ZoneUrban, domain.ZoneType(200)}); err == nil {
		t.Fatal("expected error for unknown zone ordinal")
	}
	zones, err := encodeZones([]domain.ZoneType{domain.ZoneUrban, domain.ZoneMilitary})
	if err != nil {
		t.Fatalf("encodeZones: %v", err)
	}
	if len(zones) != 2 || zones[0] != 1 || zones[1] != 3 {
		t.Errorf("encodeZones = %v, want [1 3]", zones)
	}
}
