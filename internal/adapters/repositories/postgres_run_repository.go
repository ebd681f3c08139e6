package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"supply-route-service/internal/domain"
	"supply-route-service/internal/platform/obs"
	"supply-route-service/internal/ports"
)

// Postgres-backed implementation of the RunStore port.
type PostgresRunRepository struct{ DB *sql.DB }

func NewPostgresRunRepository(db *sql.DB) *PostgresRunRepository {
	return &PostgresRunRepository{DB: db}
}

// SaveRun stores the run header and its trip log in one transaction.
// Trips keep their output position in the seq column.
func (r *PostgresRunRepository) SaveRun(ctx context.Context, result *domain.AllocationResult) (err error) {
	defer obs.Time(ctx, "run.repository.SaveRun")(&err)

	if r.DB == nil {
		return errors.New("postgres run repository: DB is nil")
	}
	if result == nil || strings.TrimSpace(result.RunID) == "" {
		return errors.New("save run: run id must not be empty")
	}

	diagnostics, err := json.Marshal(result.Diagnostics)
	if err != nil {
		return fmt.Errorf("save run %s: encode diagnostics: %w", result.RunID, err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run %s: begin tx: %w", result.RunID, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO allocation_runs (
		run_id, period, variant, created_at,
		total_distance, total_volume, vehicles_used, trips_count, diagnostics
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`,
		result.RunID, result.Period, string(result.Variant), result.CreatedAt,
		result.Summary.TotalDistance, result.Summary.TotalVolume,
		result.Summary.VehiclesUsed, result.Summary.TripsCount, string(diagnostics),
	); err != nil {
		return fmt.Errorf("save run %s: insert run: %w", result.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO allocation_trips (
		run_id, seq, vehicle_id, vehicle_type, product_key, product, volume,
		from_name, from_lat, from_lng, to_name, to_lat, to_lng,
		distance, approach_distance, leg, reason
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`)
	if err != nil {
		return fmt.Errorf("save run %s: prepare trip insert: %w", result.RunID, err)
	}
	defer stmt.Close()

	for i, t := range result.Trips {
		if _, err := stmt.ExecContext(ctx,
			result.RunID, i, t.VehicleID, t.VehicleType, t.ProductKey, t.Product, t.Volume,
			t.From, t.FromLocation.Lat, t.FromLocation.Lng, t.To, t.ToLocation.Lat, t.ToLocation.Lng,
			t.Distance, t.ApproachDistance, string(t.Leg), t.Reason,
		); err != nil {
			return fmt.Errorf("save run %s: insert trip #%d: %w", result.RunID, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run %s: commit tx: %w", result.RunID, err)
	}

	return nil
}

// LatestRun returns the most recently created run for the period.
func (r *PostgresRunRepository) LatestRun(ctx context.Context, period string) (_ *domain.AllocationResult, err error) {
	defer obs.Time(ctx, "run.repository.LatestRun")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres run repository: DB is nil")
	}

	var (
		res         domain.AllocationResult
		variant     string
		diagnostics []byte
	)
	err = r.DB.QueryRowContext(ctx, `
	SELECT run_id, period, variant, created_at,
		total_distance, total_volume, vehicles_used, trips_count, diagnostics
	FROM allocation_runs
	WHERE period = $1
	ORDER BY created_at DESC, run_id DESC
	LIMIT 1;
	`, period).Scan(
		&res.RunID, &res.Period, &variant, &res.CreatedAt,
		&res.Summary.TotalDistance, &res.Summary.TotalVolume,
		&res.Summary.VehiclesUsed, &res.Summary.TripsCount, &diagnostics,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest run period=%q: %w", period, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("latest run period=%q: query run: %w", period, err)
	}
	res.Variant = domain.Variant(variant)
	if err := json.Unmarshal(diagnostics, &res.Diagnostics); err != nil {
		return nil, fmt.Errorf("latest run %s: decode diagnostics: %w", res.RunID, err)
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT vehicle_id, vehicle_type, product_key, product, volume,
		from_name, from_lat, from_lng, to_name, to_lat, to_lng,
		distance, approach_distance, leg, reason
	FROM allocation_trips
	WHERE run_id = $1
	ORDER BY seq;
	`, res.RunID)
	if err != nil {
		return nil, fmt.Errorf("latest run %s: query trips: %w", res.RunID, err)
	}
	defer rows.Close()

	res.Trips = make([]domain.Trip, 0, res.Summary.TripsCount)
	for rows.Next() {
		var (
			t   domain.Trip
			leg string
		)
		if err := rows.Scan(
			&t.VehicleID, &t.VehicleType, &t.ProductKey, &t.Product, &t.Volume,
			&t.From, &t.FromLocation.Lat, &t.FromLocation.Lng, &t.To, &t.ToLocation.Lat, &t.ToLocation.Lng,
			&t.Distance, &t.ApproachDistance, &leg, &t.Reason,
		); err != nil {
			return nil, fmt.Errorf("latest run %s: scan trip: %w", res.RunID, err)
		}
		t.Leg = domain.Leg(leg)
		res.Trips = append(res.Trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("latest run %s: trip iteration: %w", res.RunID, err)
	}

	return &res, nil
}
