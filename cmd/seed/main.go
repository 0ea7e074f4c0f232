// Command main runs the database seeder for FilmRate.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"filmrate/internal/config"
	"filmrate/internal/seed"
	"filmrate/internal/store"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 10, "Number of users to create")
	maxRatings := flag.Int("ratings", 8, "Maximum ratings per user")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d users, up to %d ratings each\n", *numUsers, *maxRatings)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	st := store.New(cfg.TursoDatabaseURL, cfg.TursoAuthToken)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := store.EnsureSchema(ctx, st); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	s := seed.NewSeeder(st)
	if err := s.Run(ctx, *numUsers, *maxRatings); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete.")
}
