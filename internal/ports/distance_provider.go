package ports

import "supply-route-service/internal/domain"

// Contract for measuring travel distance between two coordinates.
// Implementations are pure: no I/O, no errors.
type DistanceProvider interface {
	// Return distance in kilometers from one coordinate to another.
	Distance(from, to domain.Coordinates) float64
}
