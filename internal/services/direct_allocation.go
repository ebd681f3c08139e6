package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"supply-route-service/internal/domain"
	"supply-route-service/internal/ledger"
	"supply-route-service/internal/metrics"
	"supply-route-service/internal/platform/obs"
)

// AllocateDirect runs the vehicle-less allocation: every needed product of
// every demand point is shipped once from the nearest supply point that
// still stocks it. Vehicles in the request are ignored.
//
// Unlike Allocate, the trips are returned sorted by distance ascending.
func (e *Engine) AllocateDirect(ctx context.Context, req AllocationRequest) (_ *domain.AllocationResult, err error) {
	defer obs.Time(ctx, "allocation.AllocateDirect")(&err)

	if err := validate(req, false); err != nil {
		metrics.ObserveRejected(domain.VariantDirect)
		return nil, fmt.Errorf("allocate direct: %w", err)
	}
	start := time.Now()

	inv := ledger.NewInventory(req.Supply)
	dem := ledger.NewDemand(req.Demand)

	trips := []domain.Trip{}
	for di := range req.Demand {
		dp := &req.Demand[di]

		for _, key := range dem.Needs(dp.ID) {
			need := dem.Remaining(dp.ID, key)

			var (
				best     *domain.SupplyPoint
				bestDist float64
			)
			for si := range req.Supply {
				sp := &req.Supply[si]
				if inv.Available(sp.ID, key) <= 0 {
					continue
				}
				d := e.Distance.Distance(sp.Location, dp.Location)
				if best == nil || d < bestDist {
					best = sp
					bestDist = d
				}
			}
			if best == nil {
				continue
			}

			available := inv.Available(best.ID, key)
			volume := min(need, available)
			label := inv.Label(best.ID, key)

			trips = append(trips, domain.Trip{
				ProductKey:   key,
				Product:      label,
				Volume:       volume,
				From:         best.Name,
				FromLocation: best.Location,
				To:           dp.Name,
				ToLocation:   dp.Location,
				Distance:     bestDist,
				Leg:          domain.LegDirect,
				Reason:       fmt.Sprintf("nearest supply point stocking %s, stock before shipment: %g", label, available),
			})
			inv.Decrement(best.ID, key, volume)
			dem.Decrement(dp.ID, key, volume)
		}
	}

	slices.SortStableFunc(trips, func(a, b domain.Trip) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})

	result := e.finish(ctx, domain.VariantDirect, req.Period, trips, inv, dem)
	metrics.ObserveRun(result, time.Since(start).Seconds())
	return result, nil
}
