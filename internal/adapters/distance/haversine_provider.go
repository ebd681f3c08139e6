package distance

import (
	"supply-route-service/internal/domain"
	"supply-route-service/internal/geo"
)

// HaversineProvider implements DistanceProvider with great-circle distance.
type HaversineProvider struct{}

func NewHaversineProvider() HaversineProvider { return HaversineProvider{} }

func (HaversineProvider) Distance(from, to domain.Coordinates) float64 {
	return geo.Between(from, to)
}
