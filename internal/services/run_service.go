package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"supply-route-service/internal/domain"
	"supply-route-service/internal/platform/obs"
	"supply-route-service/internal/ports"
)

// ErrStorageDisabled is returned by operations that need a configured
// network repository or run store when none is wired.
var ErrStorageDisabled = errors.New("storage is not configured")

// ResolveVariant maps a requested variant name onto a Variant. An empty
// name selects the full variant when vehicles are supplied.
func ResolveVariant(requested string, hasVehicles bool) (domain.Variant, error) {
	switch domain.Variant(strings.ToLower(strings.TrimSpace(requested))) {
	case "":
		if hasVehicles {
			return domain.VariantFull, nil
		}
		return domain.VariantDirect, nil
	case domain.VariantFull:
		return domain.VariantFull, nil
	case domain.VariantDirect:
		return domain.VariantDirect, nil
	}
	return "", fmt.Errorf("%w: unknown variant %q", ErrValidation, requested)
}

// RunService runs allocations and keeps their results. Network, Store and
// Cache are optional.
type RunService struct {
	Engine  *Engine
	Network ports.NetworkRepository
	Store   ports.RunStore
	Cache   ports.RunCache
}

// Run allocates with the given variant and persists the result. Storage
// failures are logged and do not fail the run.
func (s *RunService) Run(ctx context.Context, variant domain.Variant, req AllocationRequest) (*domain.AllocationResult, error) {
	var (
		res *domain.AllocationResult
		err error
	)
	switch variant {
	case domain.VariantFull:
		res, err = s.Engine.Allocate(ctx, req)
	case domain.VariantDirect:
		res, err = s.Engine.AllocateDirect(ctx, req)
	default:
		return nil, fmt.Errorf("run: %w: unknown variant %q", ErrValidation, variant)
	}
	if err != nil {
		return nil, err
	}

	s.persist(ctx, res)
	return res, nil
}

// RunStored allocates over the network stored for the period.
func (s *RunService) RunStored(ctx context.Context, period, variant string) (_ *domain.AllocationResult, err error) {
	defer obs.Time(ctx, "runs.RunStored")(&err)

	period = strings.TrimSpace(period)
	if period == "" {
		return nil, fmt.Errorf("run stored: %w: period is required", ErrValidation)
	}

	n, err := s.LoadNetwork(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("run stored: %w", err)
	}

	v, err := ResolveVariant(variant, len(n.Vehicles) > 0)
	if err != nil {
		return nil, fmt.Errorf("run stored: %w", err)
	}

	return s.Run(ctx, v, AllocationRequest{
		Period:   n.Period,
		Supply:   n.Supply,
		Demand:   n.Demand,
		Vehicles: n.Vehicles,
	})
}

func (s *RunService) LoadNetwork(ctx context.Context, period string) (*ports.Network, error) {
	if s.Network == nil {
		return nil, ErrStorageDisabled
	}
	return s.Network.LoadNetwork(ctx, period)
}

// Latest returns the newest run for the period, from the cache when
// possible. A store hit refills the cache.
func (s *RunService) Latest(ctx context.Context, period string) (*domain.AllocationResult, error) {
	if s.Cache != nil {
		res, err := s.Cache.LatestRun(ctx, period)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, ports.ErrNotFound) {
			log.Printf("req_id=%s run cache read failed: period=%q err=%v", obs.RequestID(ctx), period, err)
		}
	}

	if s.Store == nil {
		if s.Cache == nil {
			return nil, ErrStorageDisabled
		}
		return nil, fmt.Errorf("latest run period=%q: %w", period, ports.ErrNotFound)
	}

	res, err := s.Store.LatestRun(ctx, period)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		if err := s.Cache.PutRun(ctx, res); err != nil {
			log.Printf("req_id=%s run cache refill failed: run_id=%s err=%v", obs.RequestID(ctx), res.RunID, err)
		}
	}
	return res, nil
}

func (s *RunService) persist(ctx context.Context, res *domain.AllocationResult) {
	reqID := obs.RequestID(ctx)
	if s.Store != nil {
		if err := s.Store.SaveRun(ctx, res); err != nil {
			log.Printf("req_id=%s save run failed: run_id=%s err=%v", reqID, res.RunID, err)
		}
	}
	if s.Cache != nil {
		if err := s.Cache.PutRun(ctx, res); err != nil {
			log.Printf("req_id=%s cache run failed: run_id=%s err=%v", reqID, res.RunID, err)
		}
	}
}
