package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"supply-route-service/internal/adapters/distance"
	"supply-route-service/internal/api/dto"
	"supply-route-service/internal/services"
)

type options struct {
	input       string
	output      string
	variant     string
	maxTrips    int
	diagnostics bool
}

func doAllocate(ctx context.Context, opts options, stdout io.Writer) error {
	req, err := dto.ReadAllocationFile(opts.input)
	if err != nil {
		return fmt.Errorf("load input failed: %w", err)
	}

	variant, err := services.ResolveVariant(opts.variant, len(req.Vehicles) > 0)
	if err != nil {
		return err
	}

	engine := services.NewEngine(distance.NewHaversineProvider())
	engine.MaxTripsPerVehicle = opts.maxTrips

	runs := &services.RunService{Engine: engine}
	res, err := runs.Run(ctx, variant, services.AllocationRequest{
		Period:   req.PeriodLabel(),
		Supply:   req.SupplyPoints(),
		Demand:   req.DemandPoints(),
		Vehicles: req.DomainVehicles(),
	})
	if err != nil {
		return err
	}

	out := dto.NewAllocationResponse(res, opts.diagnostics || req.Diagnostics)
	if err := writeResult(opts.output, stdout, out); err != nil {
		return fmt.Errorf("write output failed: %w", err)
	}
	return nil
}

func writeResult(path string, stdout io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
