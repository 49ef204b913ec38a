// Command migrate applies the database schema.
package main

import (
	"log"

	"chronicle/internal/config"
	"chronicle/internal/database"
)

// In development the server auto-migrates on connect; production runs
// this explicitly as a deploy step.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Schema migration complete")
}
