// Command migrate applies the database schema.
package main

import (
	"context"
	"log"
	"time"

	"filmrate/internal/config"
	"filmrate/internal/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	st := store.New(cfg.TursoDatabaseURL, cfg.TursoAuthToken)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.EnsureSchema(ctx, st); err != nil {
		log.Fatalf("Schema migration failed: %v", err)
	}

	log.Println("Schema is up to date.")
}
