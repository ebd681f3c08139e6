package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"supply-route-service/internal/ports"
)

// InitSchema creates the network and run tables when they do not exist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createSupplyPointsQuery := `
	CREATE TABLE IF NOT EXISTS supply_points (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL DEFAULT 0,
		lng DOUBLE PRECISION NOT NULL DEFAULT 0,
		position INTEGER NOT NULL
	);
	`

	createSupplyStocksQuery := `
	CREATE TABLE IF NOT EXISTS supply_stocks (
		period TEXT NOT NULL,
		point_id TEXT NOT NULL REFERENCES supply_points(id) ON DELETE CASCADE,
		product TEXT NOT NULL,
		volume DOUBLE PRECISION NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (period, point_id, product)
	);
	`

	createDemandPointsQuery := `
	CREATE TABLE IF NOT EXISTS demand_points (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL DEFAULT 0,
		lng DOUBLE PRECISION NOT NULL DEFAULT 0,
		position INTEGER NOT NULL
	);
	`

	createDemandNeedsQuery := `
	CREATE TABLE IF NOT EXISTS demand_needs (
		period TEXT NOT NULL,
		point_id TEXT NOT NULL REFERENCES demand_points(id) ON DELETE CASCADE,
		product TEXT NOT NULL,
		volume DOUBLE PRECISION NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (period, point_id, product)
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY,
		capacity DOUBLE PRECISION NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		base TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL
	);
	`

	createVehicleProductsQuery := `
	CREATE TABLE IF NOT EXISTS vehicle_products (
		vehicle_id TEXT NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		product TEXT NOT NULL,
		PRIMARY KEY (vehicle_id, position)
	);
	`

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS allocation_runs (
		run_id TEXT PRIMARY KEY,
		period TEXT NOT NULL,
		variant TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		total_distance DOUBLE PRECISION NOT NULL,
		total_volume DOUBLE PRECISION NOT NULL,
		vehicles_used INTEGER NOT NULL,
		trips_count INTEGER NOT NULL,
		diagnostics JSONB NOT NULL DEFAULT '{}'::jsonb
	);
	`

	createTripsQuery := `
	CREATE TABLE IF NOT EXISTS allocation_trips (
		run_id TEXT NOT NULL REFERENCES allocation_runs(run_id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		vehicle_id TEXT NOT NULL,
		vehicle_type TEXT NOT NULL,
		product_key TEXT NOT NULL,
		product TEXT NOT NULL,
		volume DOUBLE PRECISION NOT NULL,
		from_name TEXT NOT NULL,
		from_lat DOUBLE PRECISION NOT NULL,
		from_lng DOUBLE PRECISION NOT NULL,
		to_name TEXT NOT NULL,
		to_lat DOUBLE PRECISION NOT NULL,
		to_lng DOUBLE PRECISION NOT NULL,
		distance DOUBLE PRECISION NOT NULL,
		approach_distance DOUBLE PRECISION NOT NULL,
		leg TEXT NOT NULL,
		reason TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_allocation_runs_period_created
	ON allocation_runs(period, created_at DESC);
	`

	statements := []string{
		createSupplyPointsQuery,
		createSupplyStocksQuery,
		createDemandPointsQuery,
		createDemandNeedsQuery,
		createVehiclesQuery,
		createVehicleProductsQuery,
		createRunsQuery,
		createTripsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// SeedNetwork upserts points and vehicles and replaces the stocks and needs
// recorded for the network's period. Repeated labels within one point add up.
func SeedNetwork(ctx context.Context, db *sql.DB, n *ports.Network) error {
	if db == nil {
		return errors.New("seed network: DB is nil")
	}
	if n == nil || strings.TrimSpace(n.Period) == "" {
		return errors.New("seed network: period is required")
	}
	for i, p := range n.Supply {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("seed network: supply point at index %d: id cannot be empty", i+1)
		}
	}
	for i, p := range n.Demand {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("seed network: demand point at index %d: id cannot be empty", i+1)
		}
	}
	for i, v := range n.Vehicles {
		if strings.TrimSpace(v.ID) == "" {
			return fmt.Errorf("seed network: vehicle at index %d: id cannot be empty", i+1)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed network: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		`DELETE FROM supply_stocks WHERE period = $1;`,
		`DELETE FROM demand_needs WHERE period = $1;`,
	} {
		if _, err := tx.ExecContext(ctx, q, n.Period); err != nil {
			return fmt.Errorf("seed network: clear period %q: %w", n.Period, err)
		}
	}

	for i, p := range n.Supply {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO supply_points (id, name, lat, lng, position)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, lat = EXCLUDED.lat, lng = EXCLUDED.lng, position = EXCLUDED.position;
		`, p.ID, p.Name, p.Location.Lat, p.Location.Lng, i); err != nil {
			return fmt.Errorf("seed network: upsert supply point id=%q: %w", p.ID, err)
		}
		for j, s := range p.Stocks {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO supply_stocks (period, point_id, product, volume, position)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (period, point_id, product) DO UPDATE
			SET volume = supply_stocks.volume + EXCLUDED.volume;
			`, n.Period, p.ID, s.Product, s.Volume, j); err != nil {
				return fmt.Errorf("seed network: insert stock point=%q product=%q: %w", p.ID, s.Product, err)
			}
		}
	}

	for i, p := range n.Demand {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO demand_points (id, name, lat, lng, position)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, lat = EXCLUDED.lat, lng = EXCLUDED.lng, position = EXCLUDED.position;
		`, p.ID, p.Name, p.Location.Lat, p.Location.Lng, i); err != nil {
			return fmt.Errorf("seed network: upsert demand point id=%q: %w", p.ID, err)
		}
		for j, s := range p.Needs {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO demand_needs (period, point_id, product, volume, position)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (period, point_id, product) DO UPDATE
			SET volume = demand_needs.volume + EXCLUDED.volume;
			`, n.Period, p.ID, s.Product, s.Volume, j); err != nil {
				return fmt.Errorf("seed network: insert need point=%q product=%q: %w", p.ID, s.Product, err)
			}
		}
	}

	for i, v := range n.Vehicles {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO vehicles (id, capacity, category, base, status, position)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET capacity = EXCLUDED.capacity, category = EXCLUDED.category, base = EXCLUDED.base,
			status = EXCLUDED.status, position = EXCLUDED.position;
		`, v.ID, v.Capacity, v.Category, v.Base, v.Status, i); err != nil {
			return fmt.Errorf("seed network: upsert vehicle id=%q: %w", v.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM vehicle_products WHERE vehicle_id = $1;`, v.ID); err != nil {
			return fmt.Errorf("seed network: clear products of vehicle id=%q: %w", v.ID, err)
		}
		for j, product := range v.Products {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO vehicle_products (vehicle_id, position, product)
			VALUES ($1, $2, $3);
			`, v.ID, j, product); err != nil {
				return fmt.Errorf("seed network: insert product of vehicle id=%q: %w", v.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed network: commit tx: %w", err)
	}

	return nil
}
