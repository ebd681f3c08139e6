package main

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/joho/godotenv"

	"supply-route-service/internal/adapters/repositories"
	"supply-route-service/internal/api/dto"
	"supply-route-service/internal/config"
	"supply-route-service/internal/platform/db"
	"supply-route-service/internal/ports"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/network.json")
	if err := initAndSeed(ctx, conn, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return err
	}
	log.Println("Schema ready.")

	req, err := dto.ReadAllocationFile(seedPath)
	if err != nil {
		return err
	}

	n := &ports.Network{
		Period:   req.PeriodLabel(),
		Supply:   req.SupplyPoints(),
		Demand:   req.DemandPoints(),
		Vehicles: req.DomainVehicles(),
	}

	log.Printf("Seeding database: path=%s period=%q supply=%d demand=%d vehicles=%d",
		seedPath, n.Period, len(n.Supply), len(n.Demand), len(n.Vehicles))
	if err := repositories.SeedNetwork(ctx, conn, n); err != nil {
		return err
	}
	log.Println("Seeding complete.")

	return nil
}
