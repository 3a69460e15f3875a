package main

import (
	"fmt"
	"log"

	"robolab/internal/config"
	"robolab/internal/database"
	"robolab/internal/domain"
)

func main() {
	log.SetPrefix("[SEED] ")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if err := database.SeedLookups(db, domain.DefaultAgeGroups, domain.DefaultOrganizationTypes); err != nil {
		log.Fatalf("Failed to seed lookups: %v", err)
	}

	fmt.Printf("Seeded %d age groups and %d organization types\n",
		len(domain.DefaultAgeGroups), len(domain.DefaultOrganizationTypes))
}
