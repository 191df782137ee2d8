package geo

import (
	"math"
	"testing"
)

func TestEncodeDegrees(t *testing.T) {
	tests := []struct {
		name string
		deg  float64
		want int64
	}{
		{"zero", 0, 0},
		{"positive", 46.0667, 46066700},
		{"negative", -11.2558, -11255800},
		{"max latitude", 90, 90000000},
		{"min longitude", -180, -180000000},
		{"rounds half up", 0.0000005, 1},
		{"rounds half away from zero", -0.0000005, -1},
		{"truncates below half", 0.0000004, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeDegrees(tt.deg); got != tt.want {
				t.Errorf("EncodeDegrees(%v) = %d, want %d", tt.deg, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	coords := []float64{0, 46.0667, -11.2558, 90, -90, 180, -180, 0.000001, -0.000001, 45.123456}
	for _, deg := range coords {
		got := DecodeDegrees(EncodeDegrees(deg))
		if math.Abs(got-deg) > 1e-6 {
			t.Errorf("round trip of %v drifted to %v", deg, got)
		}
	}
}

func TestPointConversion(t *testing.T) {
	p := Point{Latitude: 46.0667, Longitude: 11.1211}
	lat, lng := EncodePoint(p)
	if lat.Int64() != 46066700 || lng.Int64() != 11121100 {
		t.Fatalf("EncodePoint = (%s, %s), want (46066700, 11121100)", lat, lng)
	}

	back := DecodePoint(lat, lng)
	if math.Abs(back.Latitude-p.Latitude) > 1e-6 || math.Abs(back.Longitude-p.Longitude) > 1e-6 {
		t.Errorf("DecodePoint = %+v, want %+v", back, p)
	}
}

func TestDecodePointNil(t *testing.T) {
	p := DecodePoint(nil, nil)
	if p.Latitude != 0 || p.Longitude != 0 {
		t.Errorf("DecodePoint(nil, nil) = %+v, want zero point", p)
	}
}
