package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/google/uuid"

	"supply-route-service/internal/domain"
	"supply-route-service/internal/ledger"
	"supply-route-service/internal/metrics"
	"supply-route-service/internal/platform/obs"
	"supply-route-service/internal/ports"
)

// ErrValidation marks input rejected before any allocation work is done.
var ErrValidation = errors.New("invalid allocation input")

type AllocationRequest struct {
	Period   string
	Supply   []domain.SupplyPoint
	Demand   []domain.DemandPoint
	Vehicles []domain.Vehicle
}

// Engine allocates supply to demand. It keeps no state between runs;
// every call builds and discards its own ledgers.
type Engine struct {
	Distance           ports.DistanceProvider
	Policies           []SecondaryLegPolicy
	MaxTripsPerVehicle int

	now   func() time.Time
	newID func() string
}

// NewEngine builds an engine over the given distance provider, which must not be nil.
func NewEngine(distanceProvider ports.DistanceProvider) *Engine {
	return &Engine{
		Distance:           distanceProvider,
		Policies:           DefaultSecondaryLegPolicies(),
		MaxTripsPerVehicle: MaxTripsPerVehicle,
		now:                time.Now,
		newID:              uuid.NewString,
	}
}

// Allocate runs the vehicle-aware allocation.
//
// Active vehicles are routed one at a time, largest capacity first, each
// greedily claiming the nearest matches before smaller vehicles compete for
// what is left. This does not attempt global optimality. Trips are returned
// in vehicle-processing order.
func (e *Engine) Allocate(ctx context.Context, req AllocationRequest) (_ *domain.AllocationResult, err error) {
	defer obs.Time(ctx, "allocation.Allocate")(&err)

	if err := validate(req, true); err != nil {
		metrics.ObserveRejected(domain.VariantFull)
		return nil, fmt.Errorf("allocate: %w", err)
	}
	start := time.Now()

	inv := ledger.NewInventory(req.Supply)
	dem := ledger.NewDemand(req.Demand)

	vehicles := make([]*domain.Vehicle, 0, len(req.Vehicles))
	for i := range req.Vehicles {
		v := &req.Vehicles[i]
		if !v.Active() {
			continue
		}
		if len(v.ProductKeys()) == 0 {
			log.Printf("req_id=%s vehicle=%s has no product types, skipped", obs.RequestID(ctx), v.ID)
			continue
		}
		vehicles = append(vehicles, v)
	}

	// Stable so that equal capacities keep input order.
	slices.SortStableFunc(vehicles, func(a, b *domain.Vehicle) int {
		switch {
		case a.Capacity > b.Capacity:
			return -1
		case a.Capacity < b.Capacity:
			return 1
		}
		return 0
	})

	trips := []domain.Trip{}
	for _, v := range vehicles {
		vt := RouteVehicle(v, req.Supply, req.Demand, inv, dem, e.Distance, e.Policies, e.MaxTripsPerVehicle)
		trips = append(trips, vt...)
	}

	result := e.finish(ctx, domain.VariantFull, req.Period, trips, inv, dem)
	metrics.ObserveRun(result, time.Since(start).Seconds())
	return result, nil
}

func (e *Engine) finish(
	ctx context.Context,
	variant domain.Variant,
	period string,
	trips []domain.Trip,
	inv *ledger.Inventory,
	dem *ledger.Demand,
) *domain.AllocationResult {
	result := &domain.AllocationResult{
		RunID:     e.id(),
		Period:    period,
		Variant:   variant,
		CreatedAt: e.clock().UTC(),
		Trips:     trips,
		Summary:   domain.Summarize(trips),
		Diagnostics: domain.Diagnostics{
			RemainingSupply: inv.Balances(),
			UnmetDemand:     dem.Balances(),
		},
	}

	logDiagnostics(ctx, result)
	return result
}

func logDiagnostics(ctx context.Context, r *domain.AllocationResult) {
	reqID := obs.RequestID(ctx)

	log.Printf(
		"req_id=%s run_id=%s variant=%s period=%q trips=%d vehicles=%d volume=%.2f distance=%.2f",
		reqID, r.RunID, r.Variant, r.Period, r.Summary.TripsCount, r.Summary.VehiclesUsed,
		r.Summary.TotalVolume, r.Summary.TotalDistance,
	)
	for _, b := range r.Diagnostics.UnmetDemand {
		log.Printf("run_id=%s unmet_demand point=%q product=%q volume=%.2f", r.RunID, b.PointName, b.Product, b.Volume)
	}
	for _, b := range r.Diagnostics.RemainingSupply {
		log.Printf("run_id=%s remaining_supply point=%q product=%q volume=%.2f", r.RunID, b.PointName, b.Product, b.Volume)
	}
}

func validate(req AllocationRequest, requireVehicles bool) error {
	if len(req.Supply) == 0 {
		return fmt.Errorf("%w: supply points are required", ErrValidation)
	}
	if len(req.Demand) == 0 {
		return fmt.Errorf("%w: demand points are required", ErrValidation)
	}
	if requireVehicles && len(req.Vehicles) == 0 {
		return fmt.Errorf("%w: vehicles are required", ErrValidation)
	}

	seen := make(map[string]struct{}, len(req.Supply))
	for i, p := range req.Supply {
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: duplicate supply point id %q at index %d", ErrValidation, p.ID, i)
		}
		seen[p.ID] = struct{}{}
	}

	seen = make(map[string]struct{}, len(req.Demand))
	for i, p := range req.Demand {
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: duplicate demand point id %q at index %d", ErrValidation, p.ID, i)
		}
		seen[p.ID] = struct{}{}
	}

	return nil
}

func (e *Engine) clock() time.Time {
	if e.now == nil {
		return time.Now()
	}
	return e.now()
}

func (e *Engine) id() string {
	if e.newID == nil {
		return uuid.NewString()
	}
	return e.newID()
}
