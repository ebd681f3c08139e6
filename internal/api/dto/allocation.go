package dto

import (
	"fmt"
	"strings"
	"time"

	"supply-route-service/internal/domain"
)

type SupplyPointRequest struct {
	ID     FlexibleID     `json:"id" yaml:"id"`
	Name   string         `json:"name" yaml:"name"`
	Lat    float64        `json:"lat" yaml:"lat"`
	Lng    float64        `json:"lng" yaml:"lng"`
	Stocks ProductVolumes `json:"stocks" yaml:"stocks"`
}

type DemandPointRequest struct {
	ID    FlexibleID     `json:"id" yaml:"id"`
	Name  string         `json:"name" yaml:"name"`
	Lat   float64        `json:"lat" yaml:"lat"`
	Lng   float64        `json:"lng" yaml:"lng"`
	Needs ProductVolumes `json:"needs" yaml:"needs"`
}

type VehicleRequest struct {
	LicensePlate string     `json:"licensePlate,omitempty" yaml:"licensePlate,omitempty"`
	Number       FlexibleID `json:"number,omitempty" yaml:"number,omitempty"`
	Volume       float64    `json:"volume" yaml:"volume"`
	Category     string     `json:"category" yaml:"category"`
	// Enterprise is the name of the base demand point.
	Enterprise   string   `json:"enterprise" yaml:"enterprise"`
	ProductTypes []string `json:"productTypes" yaml:"productTypes"`
	Status       string   `json:"status" yaml:"status"`
}

// AllocationRequest is the body of POST /allocations and the input file of
// the allocate command. "month", "warehouses" and "enterprises" are accepted
// as aliases of "period", "supply" and "demand".
type AllocationRequest struct {
	Period      string               `json:"period,omitempty" yaml:"period,omitempty"`
	Month       string               `json:"month,omitempty" yaml:"month,omitempty"`
	Variant     string               `json:"variant,omitempty" yaml:"variant,omitempty"`
	Diagnostics bool                 `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Supply      []SupplyPointRequest `json:"supply,omitempty" yaml:"supply,omitempty"`
	Warehouses  []SupplyPointRequest `json:"warehouses,omitempty" yaml:"warehouses,omitempty"`
	Demand      []DemandPointRequest `json:"demand,omitempty" yaml:"demand,omitempty"`
	Enterprises []DemandPointRequest `json:"enterprises,omitempty" yaml:"enterprises,omitempty"`
	Vehicles    []VehicleRequest     `json:"vehicles,omitempty" yaml:"vehicles,omitempty"`
}

func (r *AllocationRequest) PeriodLabel() string {
	if r.Period != "" {
		return r.Period
	}
	return r.Month
}

// SupplyPoints converts the supply list, falling back to "warehouses".
// Points without an id get a positional one.
func (r *AllocationRequest) SupplyPoints() []domain.SupplyPoint {
	in := r.Supply
	if len(in) == 0 {
		in = r.Warehouses
	}
	return SupplyPointsToDomain(in)
}

func (r *AllocationRequest) DemandPoints() []domain.DemandPoint {
	in := r.Demand
	if len(in) == 0 {
		in = r.Enterprises
	}
	return DemandPointsToDomain(in)
}

func (r *AllocationRequest) DomainVehicles() []domain.Vehicle {
	return VehiclesToDomain(r.Vehicles)
}

func SupplyPointsToDomain(in []SupplyPointRequest) []domain.SupplyPoint {
	out := make([]domain.SupplyPoint, 0, len(in))
	for i, p := range in {
		out = append(out, domain.SupplyPoint{
			ID:       idOrPosition(p.ID, "supply", i),
			Name:     strings.TrimSpace(p.Name),
			Location: domain.Coordinates{Lat: p.Lat, Lng: p.Lng},
			Stocks:   p.Stocks.toDomain(),
		})
	}
	return out
}

func DemandPointsToDomain(in []DemandPointRequest) []domain.DemandPoint {
	out := make([]domain.DemandPoint, 0, len(in))
	for i, p := range in {
		out = append(out, domain.DemandPoint{
			ID:       idOrPosition(p.ID, "demand", i),
			Name:     strings.TrimSpace(p.Name),
			Location: domain.Coordinates{Lat: p.Lat, Lng: p.Lng},
			Needs:    p.Needs.toDomain(),
		})
	}
	return out
}

func VehiclesToDomain(in []VehicleRequest) []domain.Vehicle {
	out := make([]domain.Vehicle, 0, len(in))
	for i, v := range in {
		id := strings.TrimSpace(v.LicensePlate)
		if id == "" {
			id = string(idOrPosition(v.Number, "vehicle", i))
		}
		out = append(out, domain.Vehicle{
			ID:       id,
			Capacity: v.Volume,
			Category: v.Category,
			Base:     v.Enterprise,
			Status:   v.Status,
			Products: append([]string(nil), v.ProductTypes...),
		})
	}
	return out
}

func (p ProductVolumes) toDomain() []domain.ProductVolume {
	out := make([]domain.ProductVolume, 0, len(p))
	for _, item := range p {
		out = append(out, domain.ProductVolume{Product: item.Product, Volume: item.Volume})
	}
	return out
}

func idOrPosition(id FlexibleID, prefix string, i int) string {
	if s := strings.TrimSpace(string(id)); s != "" {
		return s
	}
	return fmt.Sprintf("%s-%d", prefix, i+1)
}

type TripResponse struct {
	Vehicle         string   `json:"vehicle,omitempty"`
	VehicleType     string   `json:"vehicleType,omitempty"`
	Product         string   `json:"product"`
	Volume          float64  `json:"volume"`
	From            string   `json:"from"`
	FromLat         float64  `json:"fromLat"`
	FromLng         float64  `json:"fromLng"`
	To              string   `json:"to"`
	ToLat           float64  `json:"toLat"`
	ToLng           float64  `json:"toLng"`
	Distance        float64  `json:"distance"`
	ParkingDistance *float64 `json:"parkingDistance,omitempty"`
	Leg             string   `json:"leg"`
	Reason          string   `json:"reason,omitempty"`
}

type SummaryResponse struct {
	TotalDistance float64 `json:"total_distance"`
	TotalVolume   float64 `json:"total_volume"`
	VehiclesUsed  int     `json:"vehicles_used"`
	TripsCount    int     `json:"trips_count"`
}

type BalanceResponse struct {
	PointID string  `json:"point_id"`
	Point   string  `json:"point"`
	Product string  `json:"product"`
	Volume  float64 `json:"volume"`
}

type DiagnosticsResponse struct {
	RemainingSupply []BalanceResponse `json:"remaining_supply"`
	UnmetDemand     []BalanceResponse `json:"unmet_demand"`
}

type AllocationResponse struct {
	RunID       string               `json:"run_id"`
	Period      string               `json:"period"`
	Variant     string               `json:"variant"`
	CreatedAt   time.Time            `json:"created_at"`
	Routes      []TripResponse       `json:"routes"`
	TotalRoutes int                  `json:"total_routes"`
	Summary     SummaryResponse      `json:"summary"`
	Diagnostics *DiagnosticsResponse `json:"diagnostics,omitempty"`
}

// NewAllocationResponse renders a run. Diagnostics are included only on request.
func NewAllocationResponse(r *domain.AllocationResult, withDiagnostics bool) AllocationResponse {
	res := AllocationResponse{
		RunID:       r.RunID,
		Period:      r.Period,
		Variant:     string(r.Variant),
		CreatedAt:   r.CreatedAt,
		Routes:      make([]TripResponse, 0, len(r.Trips)),
		TotalRoutes: len(r.Trips),
		Summary: SummaryResponse{
			TotalDistance: r.Summary.TotalDistance,
			TotalVolume:   r.Summary.TotalVolume,
			VehiclesUsed:  r.Summary.VehiclesUsed,
			TripsCount:    r.Summary.TripsCount,
		},
	}

	for _, t := range r.Trips {
		tr := TripResponse{
			Vehicle:     t.VehicleID,
			VehicleType: t.VehicleType,
			Product:     t.Product,
			Volume:      t.Volume,
			From:        t.From,
			FromLat:     t.FromLocation.Lat,
			FromLng:     t.FromLocation.Lng,
			To:          t.To,
			ToLat:       t.ToLocation.Lat,
			ToLng:       t.ToLocation.Lng,
			Distance:    t.Distance,
			Leg:         string(t.Leg),
			Reason:      t.Reason,
		}
		if t.VehicleID != "" {
			parking := t.ApproachDistance
			tr.ParkingDistance = &parking
		}
		res.Routes = append(res.Routes, tr)
	}

	if withDiagnostics {
		res.Diagnostics = &DiagnosticsResponse{
			RemainingSupply: balances(r.Diagnostics.RemainingSupply),
			UnmetDemand:     balances(r.Diagnostics.UnmetDemand),
		}
	}

	return res
}

func balances(in []domain.Balance) []BalanceResponse {
	out := make([]BalanceResponse, 0, len(in))
	for _, b := range in {
		out = append(out, BalanceResponse{PointID: b.PointID, Point: b.PointName, Product: b.Product, Volume: b.Volume})
	}
	return out
}

// StoredAllocationRequest is the body of POST /allocations/stored.
type StoredAllocationRequest struct {
	Period      string `json:"period"`
	Variant     string `json:"variant,omitempty"`
	Diagnostics bool   `json:"diagnostics,omitempty"`
}
