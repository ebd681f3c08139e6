package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"supply-route-service/internal/domain"
	"supply-route-service/internal/platform/obs"
	"supply-route-service/internal/ports"
)

// Postgres-backed implementation of the NetworkRepository port.
type PostgresNetworkRepository struct{ DB *sql.DB }

func NewPostgresNetworkRepository(db *sql.DB) *PostgresNetworkRepository {
	return &PostgresNetworkRepository{DB: db}
}

// LoadNetwork returns every stored point with the stocks and needs recorded
// for the period, and the whole fleet. Points, products and vehicles keep
// the order they were seeded in.
func (r *PostgresNetworkRepository) LoadNetwork(ctx context.Context, period string) (_ *ports.Network, err error) {
	defer obs.Time(ctx, "network.repository.LoadNetwork")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres network repository: DB is nil")
	}
	period = strings.TrimSpace(period)
	if period == "" {
		return nil, errors.New("load network: period must not be empty")
	}

	n := &ports.Network{Period: period}

	supply, err := r.loadPoints(ctx, `
	SELECT p.id, p.name, p.lat, p.lng, s.product, s.volume
	FROM supply_points p
	LEFT JOIN supply_stocks s ON s.point_id = p.id AND s.period = $1
	ORDER BY p.position, p.id, s.position;
	`, period)
	if err != nil {
		return nil, fmt.Errorf("load network: supply: %w", err)
	}
	for _, p := range supply {
		n.Supply = append(n.Supply, domain.SupplyPoint{ID: p.id, Name: p.name, Location: p.location, Stocks: p.volumes})
	}

	demand, err := r.loadPoints(ctx, `
	SELECT p.id, p.name, p.lat, p.lng, d.product, d.volume
	FROM demand_points p
	LEFT JOIN demand_needs d ON d.point_id = p.id AND d.period = $1
	ORDER BY p.position, p.id, d.position;
	`, period)
	if err != nil {
		return nil, fmt.Errorf("load network: demand: %w", err)
	}
	for _, p := range demand {
		n.Demand = append(n.Demand, domain.DemandPoint{ID: p.id, Name: p.name, Location: p.location, Needs: p.volumes})
	}

	if n.Vehicles, err = r.loadVehicles(ctx); err != nil {
		return nil, fmt.Errorf("load network: vehicles: %w", err)
	}

	if len(n.Supply) == 0 && len(n.Demand) == 0 {
		return nil, fmt.Errorf("load network: period %q: %w", period, ports.ErrNotFound)
	}

	return n, nil
}

type pointRow struct {
	id       string
	name     string
	location domain.Coordinates
	volumes  []domain.ProductVolume
}

// loadPoints folds a point LEFT JOIN product query into one entry per point.
func (r *PostgresNetworkRepository) loadPoints(ctx context.Context, query, period string) ([]*pointRow, error) {
	rows, err := r.DB.QueryContext(ctx, query, period)
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}
	defer rows.Close()

	points := make([]*pointRow, 0, 32)
	var cur *pointRow
	for rows.Next() {
		var (
			id, name string
			lat, lng float64
			product  sql.NullString
			volume   sql.NullFloat64
		)
		if err := rows.Scan(&id, &name, &lat, &lng, &product, &volume); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if cur == nil || cur.id != id {
			cur = &pointRow{id: id, name: name, location: domain.Coordinates{Lat: lat, Lng: lng}}
			points = append(points, cur)
		}
		if product.Valid {
			cur.volumes = append(cur.volumes, domain.ProductVolume{Product: product.String, Volume: volume.Float64})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	return points, nil
}

func (r *PostgresNetworkRepository) loadVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	rows, err := r.DB.QueryContext(ctx, `
	SELECT v.id, v.capacity, v.category, v.base, v.status, vp.product
	FROM vehicles v
	LEFT JOIN vehicle_products vp ON vp.vehicle_id = v.id
	ORDER BY v.position, v.id, vp.position;
	`)
	if err != nil {
		return nil, fmt.Errorf("query vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := make([]domain.Vehicle, 0, 16)
	for rows.Next() {
		var (
			v       domain.Vehicle
			product sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.Capacity, &v.Category, &v.Base, &v.Status, &product); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if n := len(vehicles); n == 0 || vehicles[n-1].ID != v.ID {
			vehicles = append(vehicles, v)
		}
		if product.Valid {
			last := &vehicles[len(vehicles)-1]
			last.Products = append(last.Products, product.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	return vehicles, nil
}
