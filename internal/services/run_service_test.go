package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supply-route-service/internal/domain"
	"supply-route-service/internal/ports"
)

type memNetwork struct{ networks map[string]*ports.Network }

func (m *memNetwork) LoadNetwork(_ context.Context, period string) (*ports.Network, error) {
	n, ok := m.networks[period]
	if !ok {
		return nil, fmt.Errorf("load network: %w", ports.ErrNotFound)
	}
	return n, nil
}

// memRuns serves as both RunStore and RunCache.
type memRuns struct {
	latest map[string]*domain.AllocationResult
	puts   int
	err    error
}

func newMemRuns() *memRuns { return &memRuns{latest: map[string]*domain.AllocationResult{}} }

func (m *memRuns) SaveRun(_ context.Context, r *domain.AllocationResult) error {
	if m.err != nil {
		return m.err
	}
	m.puts++
	m.latest[r.Period] = r
	return nil
}

func (m *memRuns) PutRun(ctx context.Context, r *domain.AllocationResult) error {
	return m.SaveRun(ctx, r)
}

func (m *memRuns) LatestRun(_ context.Context, period string) (*domain.AllocationResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.latest[period]
	if !ok {
		return nil, fmt.Errorf("latest run: %w", ports.ErrNotFound)
	}
	return r, nil
}

func TestResolveVariant(t *testing.T) {
	cases := []struct {
		requested   string
		hasVehicles bool
		want        domain.Variant
		wantErr     bool
	}{
		{"", true, domain.VariantFull, false},
		{"", false, domain.VariantDirect, false},
		{" FULL ", false, domain.VariantFull, false},
		{"direct", true, domain.VariantDirect, false},
		{"fastest", true, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.requested, func(t *testing.T) {
			got, err := ResolveVariant(tc.requested, tc.hasVehicles)
			if tc.wantErr {
				assert.True(t, errors.Is(err, ErrValidation), "err = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRunServiceRunPersists(t *testing.T) {
	store, cache := newMemRuns(), newMemRuns()
	s := &RunService{Engine: newTestEngine(), Store: store, Cache: cache}

	res, err := s.Run(context.Background(), domain.VariantDirect, boardScenario(100, 40))
	require.NoError(t, err)

	assert.Same(t, res, store.latest["Январь 2025"])
	assert.Same(t, res, cache.latest["Январь 2025"])
}

func TestRunServiceRunIgnoresStorageFailure(t *testing.T) {
	store := newMemRuns()
	store.err = errors.New("connection refused")
	s := &RunService{Engine: newTestEngine(), Store: store}

	res, err := s.Run(context.Background(), domain.VariantDirect, boardScenario(100, 40))
	require.NoError(t, err)
	assert.Len(t, res.Trips, 1)
}

func TestRunServiceRunValidation(t *testing.T) {
	store := newMemRuns()
	s := &RunService{Engine: newTestEngine(), Store: store}

	_, err := s.Run(context.Background(), domain.VariantFull, boardScenario(100, 40))
	assert.True(t, errors.Is(err, ErrValidation), "err = %v", err)
	assert.Zero(t, store.puts)

	_, err = s.Run(context.Background(), domain.Variant("other"), boardScenario(100, 40))
	assert.True(t, errors.Is(err, ErrValidation), "err = %v", err)
}

func TestRunServiceRunStored(t *testing.T) {
	req := boardScenario(100, 40)
	networks := &memNetwork{networks: map[string]*ports.Network{
		"2025-01": {Period: "2025-01", Supply: req.Supply, Demand: req.Demand},
	}}
	s := &RunService{Engine: newTestEngine(), Network: networks}

	res, err := s.RunStored(context.Background(), "2025-01", "")
	require.NoError(t, err)
	assert.Equal(t, domain.VariantDirect, res.Variant)
	assert.Equal(t, "2025-01", res.Period)

	_, err = s.RunStored(context.Background(), "2025-02", "")
	assert.True(t, errors.Is(err, ports.ErrNotFound), "err = %v", err)

	_, err = s.RunStored(context.Background(), " ", "")
	assert.True(t, errors.Is(err, ErrValidation), "err = %v", err)

	_, err = (&RunService{Engine: newTestEngine()}).RunStored(context.Background(), "2025-01", "")
	assert.True(t, errors.Is(err, ErrStorageDisabled), "err = %v", err)
}

func TestRunServiceLatest(t *testing.T) {
	ctx := context.Background()
	stored := &domain.AllocationResult{RunID: "run-9", Period: "2025-01"}

	t.Run("cache hit", func(t *testing.T) {
		cache := newMemRuns()
		cache.latest["2025-01"] = stored
		s := &RunService{Cache: cache, Store: newMemRuns()}

		got, err := s.Latest(ctx, "2025-01")
		require.NoError(t, err)
		assert.Equal(t, "run-9", got.RunID)
	})

	t.Run("store hit refills cache", func(t *testing.T) {
		store, cache := newMemRuns(), newMemRuns()
		store.latest["2025-01"] = stored
		s := &RunService{Cache: cache, Store: store}

		got, err := s.Latest(ctx, "2025-01")
		require.NoError(t, err)
		assert.Equal(t, "run-9", got.RunID)
		assert.Same(t, stored, cache.latest["2025-01"])
	})

	t.Run("cache failure falls through", func(t *testing.T) {
		store, cache := newMemRuns(), newMemRuns()
		store.latest["2025-01"] = stored
		cache.err = errors.New("i/o timeout")
		s := &RunService{Cache: cache, Store: store}

		got, err := s.Latest(ctx, "2025-01")
		require.NoError(t, err)
		assert.Equal(t, "run-9", got.RunID)
	})

	t.Run("missing", func(t *testing.T) {
		s := &RunService{Cache: newMemRuns(), Store: newMemRuns()}
		_, err := s.Latest(ctx, "2025-01")
		assert.True(t, errors.Is(err, ports.ErrNotFound), "err = %v", err)

		s = &RunService{Cache: newMemRuns()}
		_, err = s.Latest(ctx, "2025-01")
		assert.True(t, errors.Is(err, ports.ErrNotFound), "err = %v", err)
	})

	t.Run("no storage", func(t *testing.T) {
		_, err := (&RunService{}).Latest(ctx, "2025-01")
		assert.True(t, errors.Is(err, ErrStorageDisabled), "err = %v", err)
	})
}
