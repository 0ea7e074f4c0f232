// Command resetdb drops and recreates all application tables.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"filmrate/internal/config"
	"filmrate/internal/store"
)

func main() {
	force := flag.Bool("force", false, "Skip the confirmation prompt")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if !*force {
		fmt.Printf("This will DROP all tables in %s. Type 'yes' to continue: ", cfg.TursoDatabaseURL)
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.TrimSpace(line) != "yes" {
			fmt.Println("Aborted.")
			return
		}
	}

	st := store.New(cfg.TursoDatabaseURL, cfg.TursoAuthToken)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("Dropping tables...")
	for _, table := range []string{"watchlist", "ratings", "users"} {
		if err := st.Exec(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			log.Fatalf("Failed to drop %s: %v", table, err)
		}
	}

	fmt.Println("Recreating schema...")
	if err := store.EnsureSchema(ctx, st); err != nil {
		log.Fatalf("Failed to recreate schema: %v", err)
	}

	fmt.Println("Database reset.")
}
