package services

import (
	"strings"

	"supply-route-service/internal/domain"
	"supply-route-service/internal/ledger"
)

// SecondaryLeg is an extra delivery that starts where the previous trip ended.
type SecondaryLeg struct {
	To         *domain.DemandPoint
	ProductKey string
	Product    string
	Volume     float64
	Reason     string
}

// SecondaryLegPolicy decides whether a delivery to a point is immediately
// followed by a second, chained delivery from that point.
type SecondaryLegPolicy interface {
	Name() string
	// Next returns the chained leg after a delivery to deliveredTo, if any.
	// It must not mutate the ledger.
	Next(
		vehicle *domain.Vehicle,
		deliveredTo *domain.DemandPoint,
		demand []domain.DemandPoint,
		dem *ledger.Demand,
	) (SecondaryLeg, bool)
}

// DefaultSecondaryLegPolicies is the set of chained-leg rules applied by the engine.
func DefaultSecondaryLegPolicies() []SecondaryLegPolicy {
	return []SecondaryLegPolicy{ChipRelayPolicy{}}
}

var (
	factoryMarkers = []string{"завод", "factory"}
	dockMarkers    = []string{"павловский док", "dock", "dok"}
	chipKeys       = []string{"щепа", "chips"}
)

// ChipRelayPolicy is the factory -> dock chip run of universal vehicles:
// a universal vehicle that has just unloaded at the factory carries chips
// from the factory to the dock while the dock still needs them.
type ChipRelayPolicy struct{}

func (ChipRelayPolicy) Name() string { return "chip-relay" }

func (ChipRelayPolicy) Next(
	vehicle *domain.Vehicle,
	deliveredTo *domain.DemandPoint,
	demand []domain.DemandPoint,
	dem *ledger.Demand,
) (SecondaryLeg, bool) {
	if !(vehicle.Capacity > 0) || !vehicle.Universal() || !nameContainsAny(deliveredTo.Name, factoryMarkers) {
		return SecondaryLeg{}, false
	}

	dock := findDock(demand, deliveredTo)
	if dock == nil {
		return SecondaryLeg{}, false
	}

	for _, key := range chipKeys {
		if !vehicle.Licensed(key) {
			continue
		}
		need := dem.Remaining(dock.ID, key)
		if need <= 0 {
			continue
		}

		return SecondaryLeg{
			To:         dock,
			ProductKey: key,
			Product:    dem.Label(dock.ID, key),
			Volume:     min(vehicle.Capacity, need),
			Reason:     "chip relay from " + deliveredTo.Name,
		}, true
	}

	return SecondaryLeg{}, false
}

func findDock(demand []domain.DemandPoint, factory *domain.DemandPoint) *domain.DemandPoint {
	for i := range demand {
		dp := &demand[i]
		if dp.ID == factory.ID {
			continue
		}
		if nameContainsAny(dp.Name, dockMarkers) {
			return dp
		}
	}
	return nil
}

func nameContainsAny(name string, markers []string) bool {
	n := domain.ProductKey(name)
	for _, m := range markers {
		if strings.Contains(n, m) {
			return true
		}
	}
	return false
}
