// Package metrics owns the Prometheus collectors of the service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"supply-route-service/internal/domain"
)

var (
	// Registry is the dedicated Prometheus registry for the service
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, route pattern, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	AllocationRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "allocation_runs_total", Help: "Allocation runs by variant and outcome."},
		[]string{"variant", "outcome"},
	)
	AllocationTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "allocation_trips_total", Help: "Trips emitted by allocation runs."},
		[]string{"variant", "leg"},
	)
	AllocationVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "allocation_volume_total", Help: "Cargo volume allocated to trips."},
		[]string{"variant"},
	)
	// UnmetDemand is the need left after the latest run of each variant
	UnmetDemand = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "allocation_unmet_demand_volume", Help: "Demand volume left unmet by the latest run."},
		[]string{"variant"},
	)
	AllocationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "allocation_run_duration_seconds", Help: "Allocation run duration in seconds.", Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5}},
		[]string{"variant"},
	)
	// TripCeilingHits counts vehicles stopped by the per-vehicle trip ceiling
	TripCeilingHits = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "allocation_trip_ceiling_hits_total", Help: "Vehicles stopped by the trip ceiling."},
	)
)

var regOnce sync.Once

// RegisterDefault registers collectors to Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(AllocationRuns)
		Registry.MustRegister(AllocationTrips)
		Registry.MustRegister(AllocationVolume)
		Registry.MustRegister(UnmetDemand)
		Registry.MustRegister(AllocationDuration)
		Registry.MustRegister(TripCeilingHits)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// ObserveRun records the outcome of a finished run.
func ObserveRun(result *domain.AllocationResult, seconds float64) {
	variant := string(result.Variant)
	AllocationRuns.WithLabelValues(variant, "ok").Inc()
	AllocationDuration.WithLabelValues(variant).Observe(seconds)
	AllocationVolume.WithLabelValues(variant).Add(result.Summary.TotalVolume)
	for _, t := range result.Trips {
		AllocationTrips.WithLabelValues(variant, string(t.Leg)).Inc()
	}

	unmet := 0.0
	for _, b := range result.Diagnostics.UnmetDemand {
		unmet += b.Volume
	}
	UnmetDemand.WithLabelValues(variant).Set(unmet)
}

// ObserveRejected records a run that failed validation.
func ObserveRejected(variant domain.Variant) {
	AllocationRuns.WithLabelValues(string(variant), "rejected").Inc()
}
