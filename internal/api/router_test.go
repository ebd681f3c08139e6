package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supply-route-service/internal/adapters/cache"
	"supply-route-service/internal/adapters/distance"
	"supply-route-service/internal/api/dto"
	"supply-route-service/internal/domain"
	"supply-route-service/internal/ports"
	"supply-route-service/internal/services"
)

type stubNetwork struct{ n *ports.Network }

func (s stubNetwork) LoadNetwork(_ context.Context, period string) (*ports.Network, error) {
	if s.n == nil || s.n.Period != period {
		return nil, ports.ErrNotFound
	}
	return s.n, nil
}

const directBody = `{
	"month": "Январь 2025",
	"warehouses": [{"id": 1, "name": "W1", "lat": 55.0, "lng": 37.0, "stocks": {"Board": 100}}],
	"enterprises": [{"id": 1, "name": "E1", "lat": 55.1, "lng": 37.1, "needs": {"board": 40}}]
}`

const fullBody = `{
	"period": "2025-01",
	"diagnostics": true,
	"supply": [{"id": "S1", "name": "W1", "lat": 55.0, "lng": 37.0, "stocks": {"Board": 100}}],
	"demand": [{"id": "D1", "name": "E1", "lat": 55.1, "lng": 37.1, "needs": {"Board": 40}}],
	"vehicles": [{"licensePlate": "A001", "volume": 30, "category": "Board truck", "enterprise": "E1", "productTypes": ["Board"], "status": "Active"}]
}`

func newTestRouter(t *testing.T, network *ports.Network, cfg RouterConfig) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	runs := &services.RunService{
		Engine: services.NewEngine(distance.NewHaversineProvider()),
		Cache:  cache.NewRedisRunCache(rdb, time.Hour),
	}
	if network != nil {
		runs.Network = stubNetwork{n: network}
	}
	return NewRouter(runs, cfg)
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, nil, RouterConfig{})
	rec := do(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(h, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthReportsFailingCheck(t *testing.T) {
	h := newTestRouter(t, nil, RouterConfig{HealthChecks: map[string]func(context.Context) error{
		"postgres": func(context.Context) error { return errors.New("connection refused") },
		"redis":    func(context.Context) error { return nil },
	}})

	rec := do(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	res := decode[map[string]any](t, rec)
	assert.Equal(t, "degraded", res["status"])
	assert.Equal(t, map[string]any{"postgres": "connection refused", "redis": "ok"}, res["checks"])
}

func TestCreateAllocationDirect(t *testing.T) {
	h := newTestRouter(t, nil, RouterConfig{})

	rec := do(h, http.MethodPost, "/allocations", directBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.AllocationResponse](t, rec)
	assert.Equal(t, "Январь 2025", res.Period)
	assert.Equal(t, "direct", res.Variant)
	assert.NotEmpty(t, res.RunID)
	require.Equal(t, 1, res.TotalRoutes)
	route := res.Routes[0]
	assert.Equal(t, "Board", route.Product)
	assert.Equal(t, 40.0, route.Volume)
	assert.Equal(t, "W1", route.From)
	assert.Equal(t, "E1", route.To)
	assert.Nil(t, route.ParkingDistance)
	assert.Nil(t, res.Diagnostics)

	// The run is now the latest for its period.
	rec = do(h, http.MethodGet, "/allocations/%D0%AF%D0%BD%D0%B2%D0%B0%D1%80%D1%8C%202025", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	latest := decode[dto.AllocationResponse](t, rec)
	assert.Equal(t, res.RunID, latest.RunID)
}

func TestCreateAllocationFull(t *testing.T) {
	h := newTestRouter(t, nil, RouterConfig{})

	rec := do(h, http.MethodPost, "/allocations", fullBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.AllocationResponse](t, rec)
	assert.Equal(t, "full", res.Variant)
	require.Len(t, res.Routes, 2)
	for _, route := range res.Routes {
		assert.Equal(t, "A001", route.Vehicle)
		require.NotNil(t, route.ParkingDistance)
	}
	assert.Equal(t, 30.0, res.Routes[0].Volume)
	assert.Equal(t, 10.0, res.Routes[1].Volume)
	assert.Equal(t, 1, res.Summary.VehiclesUsed)

	require.NotNil(t, res.Diagnostics)
	assert.Empty(t, res.Diagnostics.UnmetDemand)
	require.Len(t, res.Diagnostics.RemainingSupply, 1)
	assert.Equal(t, 60.0, res.Diagnostics.RemainingSupply[0].Volume)
}

func TestCreateAllocationRejectsBadInput(t *testing.T) {
	h := newTestRouter(t, nil, RouterConfig{})

	cases := map[string]string{
		"malformed":       `{"supply": [`,
		"two objects":     directBody + directBody,
		"no supply":       `{"demand": [{"id": 1, "name": "E1", "needs": {"Board": 1}}]}`,
		"unknown variant": `{"variant": "cheapest", "supply": [{"id": 1}], "demand": [{"id": 1}]}`,
		"full without fleet": `{"variant": "full",
			"supply": [{"id": 1, "name": "W1", "stocks": {"Board": 1}}],
			"demand": [{"id": 1, "name": "E1", "needs": {"Board": 1}}]}`,
		"duplicate ids": `{
			"supply": [{"id": 1, "name": "W1"}, {"id": 1, "name": "W2"}],
			"demand": [{"id": 1, "name": "E1"}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(h, http.MethodPost, "/allocations", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}

	rec := do(h, http.MethodGet, "/allocations", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStoredAllocation(t *testing.T) {
	network := &ports.Network{
		Period: "2025-01",
		Supply: []domain.SupplyPoint{{ID: "S1", Name: "W1", Location: domain.Coordinates{Lat: 55.0, Lng: 37.0},
			Stocks: []domain.ProductVolume{{Product: "Board", Volume: 100}}}},
		Demand: []domain.DemandPoint{{ID: "D1", Name: "E1", Location: domain.Coordinates{Lat: 55.1, Lng: 37.1},
			Needs: []domain.ProductVolume{{Product: "Board", Volume: 40}}}},
	}
	h := newTestRouter(t, network, RouterConfig{})

	rec := do(h, http.MethodPost, "/allocations/stored", `{"period": "2025-01"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[dto.AllocationResponse](t, rec)
	assert.Equal(t, "direct", res.Variant)
	assert.Equal(t, 1, res.TotalRoutes)

	rec = do(h, http.MethodPost, "/allocations/stored", `{"period": "2025-02"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodPost, "/allocations/stored", `{"period": "2025-01", "extra": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPost, "/allocations/stored", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodGet, "/network?period=2025-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	net := decode[dto.NetworkResponse](t, rec)
	require.Len(t, net.Supply, 1)
	assert.Equal(t, dto.ProductVolumes{{Product: "Board", Volume: 100}}, net.Supply[0].Stocks)

	rec = do(h, http.MethodGet, "/network", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStorageNotConfigured(t *testing.T) {
	h := newTestRouter(t, nil, RouterConfig{})

	rec := do(h, http.MethodPost, "/allocations/stored", `{"period": "2025-01"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(h, http.MethodGet, "/network?period=2025-01", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(h, http.MethodGet, "/allocations/2025-01", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	h := newTestRouter(t, nil, RouterConfig{RateLimit: 0.001, RateBurst: 1})

	rec := do(h, http.MethodPost, "/allocations", directBody)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodPost, "/allocations", directBody)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Reads are not limited.
	rec = do(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := newTestRouter(t, nil, RouterConfig{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, nil, RouterConfig{})

	do(h, http.MethodPost, "/allocations", directBody)
	rec := do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
	assert.Contains(t, rec.Body.String(), "allocation_runs_total")
}
