package domain

// SupplyPoint holds finite per-product inventory.
// Stocks keeps the caller's order; it is the iteration order used when
// searching for trips.
type SupplyPoint struct {
	ID       string
	Name     string
	Location Coordinates
	Stocks   []ProductVolume
}

// DemandPoint has finite per-product unmet need.
type DemandPoint struct {
	ID       string
	Name     string
	Location Coordinates
	Needs    []ProductVolume
}
