// Package geo computes great-circle distances between coordinates.
package geo

import (
	"math"

	"supply-route-service/internal/domain"
)

const (
	EarthRadiusKm = 6371.0

	// MissingDistance is returned when a coordinate is absent, so candidates
	// without a location sort last instead of failing the run.
	MissingDistance = 999999.0
)

// Distance returns the haversine distance in km between two points,
// rounded to 2 decimal places.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	for _, v := range [...]float64{lat1, lng1, lat2, lng2} {
		if v == 0 || math.IsNaN(v) {
			return MissingDistance
		}
	}

	lat1Rad := radians(lat1)
	lat2Rad := radians(lat2)
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(EarthRadiusKm*c*100) / 100
}

func Between(a, b domain.Coordinates) float64 {
	if !a.Known() || !b.Known() {
		return MissingDistance
	}
	return Distance(a.Lat, a.Lng, b.Lat, b.Lng)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
