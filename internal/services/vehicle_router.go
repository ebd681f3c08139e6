package services

import (
	"fmt"
	"log"
	"strings"

	"supply-route-service/internal/domain"
	"supply-route-service/internal/ledger"
	"supply-route-service/internal/metrics"
	"supply-route-service/internal/ports"
)

// MaxTripsPerVehicle caps the trip search loop of a single vehicle.
const MaxTripsPerVehicle = 50

// RouteVehicle drives one vehicle from its base through a chain of trips
// until no further trip is found or maxTrips searches have been made.
//
// Both ledgers are decremented as trips are emitted, so vehicles routed
// later see what earlier vehicles left.
func RouteVehicle(
	vehicle *domain.Vehicle,
	supply []domain.SupplyPoint,
	demand []domain.DemandPoint,
	inv *ledger.Inventory,
	dem *ledger.Demand,
	distanceProvider ports.DistanceProvider,
	policies []SecondaryLegPolicy,
	maxTrips int,
) []domain.Trip {
	if maxTrips <= 0 {
		maxTrips = MaxTripsPerVehicle
	}

	base := findBase(vehicle.Base, demand)
	if base == nil {
		if len(demand) == 0 {
			return []domain.Trip{}
		}
		base = &demand[0]
		log.Printf("vehicle=%s base=%q not found, starting from %q", vehicle.ID, vehicle.Base, base.Name)
	}

	current := base.Location
	trips := []domain.Trip{}

	for i := 0; ; i++ {
		c, ok := FindTrip(current, vehicle, supply, demand, inv, dem, distanceProvider)
		if !ok {
			break
		}
		// Only a vehicle that still had work counts as stopped by the ceiling.
		if i == maxTrips {
			metrics.TripCeilingHits.Inc()
			log.Printf("vehicle=%s stopped at trip ceiling=%d", vehicle.ID, maxTrips)
			break
		}

		trips = append(trips, domain.Trip{
			VehicleID:        vehicle.ID,
			VehicleType:      vehicle.Category,
			ProductKey:       c.ProductKey,
			Product:          c.Product,
			Volume:           c.Volume,
			From:             c.Supply.Name,
			FromLocation:     c.Supply.Location,
			To:               c.Demand.Name,
			ToLocation:       c.Demand.Location,
			Distance:         c.Delivery,
			ApproachDistance: c.Approach,
			Leg:              domain.LegPrimary,
			Reason:           fmt.Sprintf("nearest %s source for vehicle %s", c.Product, vehicle.ID),
		})
		inv.Decrement(c.Supply.ID, c.ProductKey, c.Volume)
		dem.Decrement(c.Demand.ID, c.ProductKey, c.Volume)
		current = c.Demand.Location

		for _, p := range policies {
			leg, ok := p.Next(vehicle, c.Demand, demand, dem)
			if !ok || leg.Volume <= 0 {
				continue
			}

			trips = append(trips, domain.Trip{
				VehicleID:        vehicle.ID,
				VehicleType:      vehicle.Category,
				ProductKey:       leg.ProductKey,
				Product:          leg.Product,
				Volume:           leg.Volume,
				From:             c.Demand.Name,
				FromLocation:     c.Demand.Location,
				To:               leg.To.Name,
				ToLocation:       leg.To.Location,
				Distance:         distanceProvider.Distance(c.Demand.Location, leg.To.Location),
				ApproachDistance: 0,
				Leg:              domain.LegSecondary,
				Reason:           leg.Reason,
			})
			dem.Decrement(leg.To.ID, leg.ProductKey, leg.Volume)
			log.Printf("vehicle=%s policy=%s leg to=%q product=%q volume=%.2f", vehicle.ID, p.Name(), leg.To.Name, leg.Product, leg.Volume)
			current = leg.To.Location
			break
		}
	}

	return trips
}

func findBase(name string, demand []domain.DemandPoint) *domain.DemandPoint {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	for i := range demand {
		if strings.EqualFold(strings.TrimSpace(demand[i].Name), name) {
			return &demand[i]
		}
	}
	return nil
}
