package ports

import (
	"context"
	"errors"
	"supply-route-service/internal/domain"
)

// ErrNotFound is returned when no stored run matches a lookup.
var ErrNotFound = errors.New("not found")

// Port: durable storage of finished allocation runs.
type RunStore interface {
	SaveRun(ctx context.Context, result *domain.AllocationResult) error
	// Return the most recent run for the period or ErrNotFound.
	LatestRun(ctx context.Context, period string) (*domain.AllocationResult, error)
}

// Port: short-lived cache of finished runs in front of a RunStore.
type RunCache interface {
	PutRun(ctx context.Context, result *domain.AllocationResult) error
	// Return the cached latest run for the period or ErrNotFound.
	LatestRun(ctx context.Context, period string) (*domain.AllocationResult, error)
}
