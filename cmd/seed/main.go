// Command seed populates the development database with demo content.
package main

import (
	"log"

	"inkwell/internal/bootstrap"
	"inkwell/internal/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Env == "production" || cfg.Env == "prod" {
		log.Fatal("refusing to seed demo data in production")
	}

	if _, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedDemoData: true}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
