package domain

import (
	"math"
	"time"
)

type Leg string

const (
	LegDirect    Leg = "direct"
	LegPrimary   Leg = "primary"
	LegSecondary Leg = "secondary"
)

// Trip is one directed movement of a product volume from one point to another.
// Trips are appended to a run's output and never mutated afterwards.
type Trip struct {
	VehicleID   string
	VehicleType string

	ProductKey string
	Product    string
	Volume     float64

	From         string
	FromLocation Coordinates
	To           string
	ToLocation   Coordinates

	// Distance is the delivery leg in km.
	Distance float64
	// ApproachDistance is the empty run from the vehicle's position to From.
	ApproachDistance float64

	Leg    Leg
	Reason string
}

// Aggregate of all trips of a run. Derived, never stored on its own.
type RunSummary struct {
	TotalDistance float64
	TotalVolume   float64
	VehiclesUsed  int
	TripsCount    int
}

// Summarize derives the run summary from a trip log.
func Summarize(trips []Trip) RunSummary {
	var s RunSummary
	vehicles := make(map[string]struct{})
	for _, t := range trips {
		s.TotalDistance += t.Distance + t.ApproachDistance
		s.TotalVolume += t.Volume
		if t.VehicleID != "" {
			vehicles[t.VehicleID] = struct{}{}
		}
	}
	s.TotalDistance = round2(s.TotalDistance)
	s.TotalVolume = round2(s.TotalVolume)
	s.VehiclesUsed = len(vehicles)
	s.TripsCount = len(trips)
	return s
}

// Remaining volume of one product at one point after a run.
type Balance struct {
	PointID    string
	PointName  string
	ProductKey string
	Product    string
	Volume     float64
}

type Diagnostics struct {
	RemainingSupply []Balance
	UnmetDemand     []Balance
}

type Variant string

const (
	VariantFull   Variant = "full"
	VariantDirect Variant = "direct"
)

// AllocationResult is the output of one allocation run.
type AllocationResult struct {
	RunID       string
	Period      string
	Variant     Variant
	CreatedAt   time.Time
	Trips       []Trip
	Summary     RunSummary
	Diagnostics Diagnostics
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
