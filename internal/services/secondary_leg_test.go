package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supply-route-service/internal/adapters/distance"
	"supply-route-service/internal/domain"
	"supply-route-service/internal/ledger"
)

var (
	locWarehouse = domain.Coordinates{Lat: 55.0, Lng: 37.0}
	locFactory   = domain.Coordinates{Lat: 55.1, Lng: 37.1}
	locDock      = domain.Coordinates{Lat: 55.2, Lng: 37.2}
)

func relayNetwork(dockName string, chips float64) ([]domain.SupplyPoint, []domain.DemandPoint) {
	supply := []domain.SupplyPoint{
		{ID: "w1", Name: "W1", Location: locWarehouse, Stocks: []domain.ProductVolume{stock("Board", 100)}},
	}
	demand := []domain.DemandPoint{
		{ID: "f", Name: "Factory", Location: locFactory, Needs: []domain.ProductVolume{stock("Board", 30)}},
		{ID: "k", Name: dockName, Location: locDock, Needs: []domain.ProductVolume{stock("Chips", chips)}},
	}
	return supply, demand
}

func universalVehicle() *domain.Vehicle {
	return &domain.Vehicle{
		ID:       "U1",
		Capacity: 20,
		Category: "Universal",
		Base:     "Factory",
		Status:   "active",
		Products: []string{"Board", "Chips"},
	}
}

func TestChipRelayPolicy(t *testing.T) {
	_, demand := relayNetwork("Pavlovsky Dock", 15)
	dem := ledger.NewDemand(demand)
	p := ChipRelayPolicy{}

	t.Run("universal vehicle at factory", func(t *testing.T) {
		leg, ok := p.Next(universalVehicle(), &demand[0], demand, dem)
		require.True(t, ok)
		assert.Equal(t, "k", leg.To.ID)
		assert.Equal(t, "chips", leg.ProductKey)
		assert.Equal(t, "Chips", leg.Product)
		assert.Equal(t, 15.0, leg.Volume)
	})

	t.Run("NaN capacity", func(t *testing.T) {
		v := universalVehicle()
		v.Capacity = math.NaN()
		_, ok := p.Next(v, &demand[0], demand, dem)
		assert.False(t, ok)
	})

	t.Run("capacity bounds the leg", func(t *testing.T) {
		v := universalVehicle()
		v.Capacity = 4
		leg, ok := p.Next(v, &demand[0], demand, dem)
		require.True(t, ok)
		assert.Equal(t, 4.0, leg.Volume)
	})

	t.Run("not universal", func(t *testing.T) {
		v := universalVehicle()
		v.Category = "Щеповоз"
		_, ok := p.Next(v, &demand[0], demand, dem)
		assert.False(t, ok)
	})

	t.Run("not licensed for chips", func(t *testing.T) {
		v := universalVehicle()
		v.Products = []string{"Board"}
		_, ok := p.Next(v, &demand[0], demand, dem)
		assert.False(t, ok)
	})

	t.Run("delivery was not to the factory", func(t *testing.T) {
		_, ok := p.Next(universalVehicle(), &demand[1], demand, dem)
		assert.False(t, ok)
	})

	t.Run("dock satisfied", func(t *testing.T) {
		_, demand := relayNetwork("Pavlovsky Dock", 0)
		_, ok := p.Next(universalVehicle(), &demand[0], demand, ledger.NewDemand(demand))
		assert.False(t, ok)
	})

	t.Run("no dock", func(t *testing.T) {
		_, demand := relayNetwork("Sawmill", 15)
		_, ok := p.Next(universalVehicle(), &demand[0], demand, ledger.NewDemand(demand))
		assert.False(t, ok)
	})
}

func TestChipRelayPolicyRussianNames(t *testing.T) {
	demand := []domain.DemandPoint{
		{ID: "1", Name: `Завод "Лесопромышленный"`, Location: locFactory},
		{ID: "2", Name: "Павловский док", Location: locDock, Needs: []domain.ProductVolume{stock("Щепа", 50)}},
	}
	v := &domain.Vehicle{ID: "А123", Capacity: 32, Category: "Универсал", Products: []string{"Доска", "щепа"}}

	leg, ok := ChipRelayPolicy{}.Next(v, &demand[0], demand, ledger.NewDemand(demand))
	require.True(t, ok)
	assert.Equal(t, "щепа", leg.ProductKey)
	assert.Equal(t, "Щепа", leg.Product)
	assert.Equal(t, 32.0, leg.Volume)
}

func TestRouteVehicleAppliesChipRelay(t *testing.T) {
	supply, demand := relayNetwork("Pavlovsky Dock", 15)
	inv := ledger.NewInventory(supply)
	dem := ledger.NewDemand(demand)
	provider := distance.NewHaversineProvider()

	trips := RouteVehicle(universalVehicle(), supply, demand, inv, dem, provider, DefaultSecondaryLegPolicies(), 0)

	require.Len(t, trips, 3)

	assert.Equal(t, "W1", trips[0].From)
	assert.Equal(t, "Factory", trips[0].To)
	assert.Equal(t, "Board", trips[0].Product)
	assert.Equal(t, 20.0, trips[0].Volume)
	assert.Equal(t, domain.LegPrimary, trips[0].Leg)

	assert.Equal(t, "Factory", trips[1].From)
	assert.Equal(t, "Pavlovsky Dock", trips[1].To)
	assert.Equal(t, "Chips", trips[1].Product)
	assert.Equal(t, 15.0, trips[1].Volume)
	assert.Zero(t, trips[1].ApproachDistance)
	assert.Equal(t, provider.Distance(locFactory, locDock), trips[1].Distance)
	assert.Equal(t, domain.LegSecondary, trips[1].Leg)

	// The vehicle resumes from the dock for the remaining boards.
	assert.Equal(t, "Factory", trips[2].To)
	assert.Equal(t, 10.0, trips[2].Volume)
	assert.Equal(t, provider.Distance(locDock, locWarehouse), trips[2].ApproachDistance)

	assert.Zero(t, dem.Remaining("k", "chips"))
	assert.Equal(t, 70.0, inv.Available("w1", "board"))
}
