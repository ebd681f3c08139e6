package domain

import "strings"

// ProductKey normalizes a free-text product label into the key used for
// matching supply, demand and vehicle capabilities.
func ProductKey(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// A product label with the volume attached to it at a point.
type ProductVolume struct {
	Product string
	Volume  float64
}
