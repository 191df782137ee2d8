// Package geo converts geographic coordinates between floating degrees and
// the integer micro-degree encoding stored on chain.
package geo

import (
	"math"
	"math/big"
)

// MicroDegree is the fixed scale factor for on-chain coordinates.
const MicroDegree = 1_000_000

// EncodeDegrees converts a degree value to micro-degrees, rounding half away
// from zero. Encode and decode must share this rule or coordinates drift.
func EncodeDegrees(deg float64) int64 {
	return int64(math.Round(deg * MicroDegree))
}

// DecodeDegrees converts a micro-degree integer back to degrees.
func DecodeDegrees(micro int64) float64 {
	return float64(micro) / MicroDegree
}

// Point is a latitude/longitude pair in floating degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// EncodePoint converts a point to its on-chain big integer representation.
func EncodePoint(p Point) (lat, lng *big.Int) {
	return big.NewInt(EncodeDegrees(p.Latitude)), big.NewInt(EncodeDegrees(p.Longitude))
}

// DecodePoint converts on-chain micro-degree integers back to a point.
// Nil components decode to zero.
func DecodePoint(lat, lng *big.Int) Point {
	return Point{
		Latitude:  DecodeDegrees(bigToInt64(lat)),
		Longitude: DecodeDegrees(bigToInt64(lng)),
	}
}

func bigToInt64(v *big.Int) int64 {
	if v == nil {
		return 0
	}
	return v.Int64()
}
