package main

import (
	"log"

	"github.com/b4build/vic-duty-roster-sub000/app/config"
	"github.com/b4build/vic-duty-roster-sub000/app/database"
)

func main() {
	log.Println("Starting manual migration...")

	cfg := config.Load()
	if cfg.DB == nil {
		log.Fatal("No database configured (unset LOCAL_ONLY to migrate)")
	}
	defer cfg.DB.Close()

	if err := database.RunMigrations(cfg.DB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Manual migration completed successfully!")
}
