package services

import (
	"supply-route-service/internal/domain"
	"supply-route-service/internal/ledger"
	"supply-route-service/internal/ports"
)

// Candidate is the best next single-leg trip found for a vehicle.
type Candidate struct {
	Supply     *domain.SupplyPoint
	Demand     *domain.DemandPoint
	ProductKey string
	Product    string
	Volume     float64
	Approach   float64
	Delivery   float64
}

// FindTrip searches every (supply point, product, demand point) combination
// the vehicle can serve and returns the one with the smallest
// approach + delivery distance.
//
// Ties keep the first combination seen, so the result depends on the order
// of supply, demand and each point's products. Callers must pass them in
// input order.
func FindTrip(
	from domain.Coordinates,
	vehicle *domain.Vehicle,
	supply []domain.SupplyPoint,
	demand []domain.DemandPoint,
	inv *ledger.Inventory,
	dem *ledger.Demand,
	distanceProvider ports.DistanceProvider,
) (Candidate, bool) {
	var (
		best      Candidate
		bestTotal float64
		found     bool
	)

	// A NaN capacity never matches.
	if !(vehicle.Capacity > 0) {
		return best, false
	}

	for si := range supply {
		sp := &supply[si]

		var approach float64
		measured := false

		for _, key := range inv.Products(sp.ID) {
			if !vehicle.Licensed(key) {
				continue
			}
			available := inv.Available(sp.ID, key)
			if available <= 0 {
				continue
			}

			if !measured {
				approach = distanceProvider.Distance(from, sp.Location)
				measured = true
			}

			for di := range demand {
				dp := &demand[di]
				need := dem.Remaining(dp.ID, key)
				if need <= 0 {
					continue
				}

				delivery := distanceProvider.Distance(sp.Location, dp.Location)
				total := approach + delivery
				if found && total >= bestTotal {
					continue
				}

				found = true
				bestTotal = total
				best = Candidate{
					Supply:     sp,
					Demand:     dp,
					ProductKey: key,
					Product:    inv.Label(sp.ID, key),
					Volume:     min(vehicle.Capacity, available, need),
					Approach:   approach,
					Delivery:   delivery,
				}
			}
		}
	}

	return best, found
}
