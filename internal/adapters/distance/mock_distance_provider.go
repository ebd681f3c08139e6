package distance

import (
	"supply-route-service/internal/domain"
	"supply-route-service/internal/geo"
)

type MockPair struct {
	From, To domain.Coordinates
	Km       float64
}

// MockDistanceProvider serves fixed distances for known pairs, in both
// directions. Identical points are 0 km apart; unknown pairs are reported as
// geo.MissingDistance.
type MockDistanceProvider struct {
	m map[[2]domain.Coordinates]float64
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[[2]domain.Coordinates]float64, 2*len(pairs))
	for _, p := range pairs {
		m[[2]domain.Coordinates{p.From, p.To}] = p.Km
		if _, ok := m[[2]domain.Coordinates{p.To, p.From}]; !ok {
			m[[2]domain.Coordinates{p.To, p.From}] = p.Km
		}
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) Distance(from, to domain.Coordinates) float64 {
	if from == to {
		return 0
	}
	if km, ok := p.m[[2]domain.Coordinates{from, to}]; ok {
		return km
	}
	return geo.MissingDistance
}
