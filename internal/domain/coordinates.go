package domain

import "math"

// Immutable geographic coordinates (latitude, longitude) in degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Known reports whether both components are present.
// A zero component is treated as absent, matching how the inputs encode
// "no coordinate".
func (c Coordinates) Known() bool {
	return c.Lat != 0 && c.Lng != 0 && !math.IsNaN(c.Lat) && !math.IsNaN(c.Lng)
}
