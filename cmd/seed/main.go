// Command seed runs the database seeder for SIGMAT.
package main

import (
	"flag"
	"log"

	"sigmat/internal/config"
	"sigmat/internal/database"
	"sigmat/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (dev only, much faster)")
	dryRun := flag.Bool("dry-run", false, "Log what would be created without writing")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, clean=%v\n", *numUsers, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *shouldClean && !*dryRun {
		if err := seed.Clean(db); err != nil {
			log.Fatalf("Failed to clean database: %v", err)
		}
		log.Println("Database cleaned")
	}

	if err := seed.Run(db, *numUsers, seed.Options{
		SkipBcrypt: *skipBcrypt,
		DryRun:     *dryRun,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
