package zones

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/blockchain-unitn/skyledger-backend/internal/domain"
	"github.com/blockchain-unitn/skyledger-backend/internal/geo"
)

// A zero Service has no chain client; any test reaching the network would
// panic, proving validation short-circuits.
func TestCreateValidation(t *testing.T) {
	s := &Service{}
	triangle := []geo.Point{{Latitude: 1, Longitude: 1}, {Latitude: 2, Longitude: 2}, {Latitude: 3, Longitude: 1}}

	tests := []struct {
		name string
		req  domain.CreateZoneRequest
	}{
		{"empty name", domain.CreateZoneRequest{
			Name: "  ", ZoneType: domain.ZoneUrban, Boundaries: triangle, MaxAltitude: 100, MinAltitude: 0,
		}},
		{"invalid zone type", domain.CreateZoneRequest{
			Name: "z", ZoneType: domain.ZoneType(42), Boundaries: triangle, MaxAltitude: 100, MinAltitude: 0,
		}},
		{"too few boundaries", domain.CreateZoneRequest{
			Name: "z", ZoneType: domain.ZoneUrban, Boundaries: triangle[:2], MaxAltitude: 100, MinAltitude: 0,
		}},
		{"altitude band inverted", domain.CreateZoneRequest{
			Name: "z", ZoneType: domain.ZoneUrban, Boundaries: triangle, MaxAltitude: 10, MinAltitude: 50,
		}},
		{"altitude band empty", domain.CreateZoneRequest{
			Name: "z", ZoneType: domain.ZoneUrban, Boundaries: triangle, MaxAltitude: 50, MinAltitude: 50,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), tt.req)
			if err == nil {
				t.Fatal("expected validation error, got none")
			}
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("error %T is not a ValidationError: %v", err, err)
			}
		})
	}
}

func TestUpdateValidation(t *testing.T) {
	s := &Service{}
	_, err := s.Update(context.Background(), 1, domain.UpdateZoneRequest{
		Name:        "z",
		Boundaries:  []geo.Point{{Latitude: 1, Longitude: 1}},
		MaxAltitude: 100,
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestByTypeValidation(t *testing.T) {
	s := &Service{}
	_, err := s.ByType(context.Background(), domain.ZoneType(99), false)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestBoundaryEncoding(t *testing.T) {
	points := []geo.Point{
		{Latitude: 46.0667, Longitude: 11.1211},
		{Latitude: -11.2558, Longitude: 0},
	}
	tuples := encodeBoundaries(points)
	if len(tuples) != 2 {
		t.Fatalf("encodeBoundaries: len = %d, want 2", len(tuples))
	}
	if tuples[0].Latitude.Int64() != 46066700 || tuples[0].Longitude.Int64() != 11121100 {
		t.Errorf("tuples[0] = (%s, %s), want (46066700, 11121100)", tuples[0].Latitude, tuples[0].Longitude)
	}
	if tuples[1].Latitude.Int64() != -11255800 {
		t.Errorf("tuples[1].Latitude = %s, want -11255800", tuples[1].Latitude)
	}

	back := decodeBoundaries(tuples)
	for i := range points {
		if back[i] != points[i] {
			t.Errorf("round trip [%d] = %+v, want %+v", i, back[i], points[i])
		}
	}
}

func TestDecodeZone(t *testing.T) {
	tuple := zoneTuple{
		Id:          big.NewInt(3),
		Name:        "hospital perimeter",
		ZoneType:    uint8(domain.ZoneHospitals),
		Boundaries:  []pointTuple{{Latitude: big.NewInt(1000000), Longitude: big.NewInt(2000000)}},
		MaxAltitude: big.NewInt(120),
		MinAltitude: big.NewInt(0),
		IsActive:    true,
		Description: "no-fly",
		CreatedAt:   big.NewInt(1700000000),
		UpdatedAt:   big.NewInt(1700000001),
	}
	zone := decodeZone(tuple)
	if zone.ID != 3 || zone.ZoneType != "HOSPITALS" || !zone.IsActive {
		t.Errorf("decodeZone = %+v", zone)
	}
	if zone.Boundaries[0].Latitude != 1 || zone.Boundaries[0].Longitude != 2 {
		t.Errorf("boundaries = %+v, want (1, 2)", zone.Boundaries[0])
	}
	if zone.CreatedAt != 1700000000 || zone.UpdatedAt != 1700000001 {
		t.Errorf("timestamps = (%d, %d)", zone.CreatedAt, zone.UpdatedAt)
	}
}
