package dto

import "supply-route-service/internal/domain"

// NetworkResponse mirrors the request shapes so a stored network can be
// fed back to POST /allocations unchanged.
type NetworkResponse struct {
	Period   string               `json:"period"`
	Supply   []SupplyPointRequest `json:"supply"`
	Demand   []DemandPointRequest `json:"demand"`
	Vehicles []VehicleRequest     `json:"vehicles"`
}

func NewNetworkResponse(period string, supply []domain.SupplyPoint, demand []domain.DemandPoint, vehicles []domain.Vehicle) NetworkResponse {
	res := NetworkResponse{
		Period:   period,
		Supply:   make([]SupplyPointRequest, 0, len(supply)),
		Demand:   make([]DemandPointRequest, 0, len(demand)),
		Vehicles: make([]VehicleRequest, 0, len(vehicles)),
	}
	for _, p := range supply {
		res.Supply = append(res.Supply, SupplyPointRequest{
			ID: FlexibleID(p.ID), Name: p.Name, Lat: p.Location.Lat, Lng: p.Location.Lng, Stocks: fromDomain(p.Stocks),
		})
	}
	for _, p := range demand {
		res.Demand = append(res.Demand, DemandPointRequest{
			ID: FlexibleID(p.ID), Name: p.Name, Lat: p.Location.Lat, Lng: p.Location.Lng, Needs: fromDomain(p.Needs),
		})
	}
	for _, v := range vehicles {
		res.Vehicles = append(res.Vehicles, VehicleRequest{
			LicensePlate: v.ID,
			Volume:       v.Capacity,
			Category:     v.Category,
			Enterprise:   v.Base,
			ProductTypes: append([]string{}, v.Products...),
			Status:       v.Status,
		})
	}
	return res
}

func fromDomain(in []domain.ProductVolume) ProductVolumes {
	out := make(ProductVolumes, 0, len(in))
	for _, item := range in {
		out = append(out, ProductVolume{Product: item.Product, Volume: item.Volume})
	}
	return out
}
