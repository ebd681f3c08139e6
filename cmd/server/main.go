package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"supply-route-service/internal/adapters/cache"
	"supply-route-service/internal/adapters/distance"
	"supply-route-service/internal/adapters/repositories"
	"supply-route-service/internal/api"
	"supply-route-service/internal/config"
	"supply-route-service/internal/platform/db"
	"supply-route-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis) behind ports and starts the HTTP server.
// Both stores are optional: without them only inline allocations are served.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	engine := services.NewEngine(distance.NewHaversineProvider())
	engine.MaxTripsPerVehicle = cfg.MaxTrips

	runs := &services.RunService{Engine: engine}
	checks := map[string]func(context.Context) error{}

	ctx := context.Background()

	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()

		if err := repositories.InitSchema(ctx, conn); err != nil {
			log.Fatal(err)
		}

		runs.Network = repositories.NewPostgresNetworkRepository(conn)
		runs.Store = repositories.NewPostgresRunRepository(conn)
		checks["postgres"] = conn.PingContext
	} else {
		log.Println("DATABASE_URL not set: stored networks and run history disabled")
	}

	if cfg.RedisURL != "" {
		runCache, err := cache.NewRedisRunCacheFromURL(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.Fatal(err)
		}
		defer runCache.Close()

		if err := runCache.Ping(ctx); err != nil {
			log.Printf("redis not reachable yet: %v", err)
		}
		runs.Cache = runCache
		checks["redis"] = runCache.Ping
	}

	router := api.NewRouter(runs, api.RouterConfig{
		RateLimit:    cfg.RateLimit,
		RateBurst:    cfg.RateBurst,
		HealthChecks: checks,
	})

	log.Printf("Server listening addr=:%s max_trips=%d", cfg.Port, cfg.MaxTrips)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
