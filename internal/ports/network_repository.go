package ports

import (
	"context"
	"supply-route-service/internal/domain"
)

// Network is the allocation input for one period, in stored order.
type Network struct {
	Period   string
	Supply   []domain.SupplyPoint
	Demand   []domain.DemandPoint
	Vehicles []domain.Vehicle
}

// Port: a boundary for retrieving the supply/demand network from a data source.
type NetworkRepository interface {
	// Load points with the stocks and needs recorded for the period, plus the fleet.
	LoadNetwork(ctx context.Context, period string) (*Network, error)
}
