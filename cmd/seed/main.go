// Command main runs the database seeder for Dome Market.
package main

import (
	"flag"
	"log"
	"os"

	"domemarket/internal/config"
	"domemarket/internal/database"
	"domemarket/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Generate data without writing to the database")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plain-text passwords for faster seeding")
	presetPath := flag.String("preset", "", "Path to a YAML taxonomy preset")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d posts, clean=%v, dry-run=%v", *numUsers, *numPosts, *shouldClean, *dryRun)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
		DryRun:      *dryRun,
		SkipBcrypt:  *skipBcrypt,
	}

	if *presetPath != "" {
		data, err := os.ReadFile(*presetPath)
		if err != nil {
			log.Fatalf("Failed to read preset file: %v", err)
		}
		preset, err := seed.LoadPreset(data)
		if err != nil {
			log.Fatalf("Failed to parse preset file: %v", err)
		}
		opts.Preset = preset
		log.Printf("Using taxonomy preset from %s", *presetPath)
	}

	if err := seed.Seed(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! The database is now populated with test data.")
	log.Println("All test users have the password: password123")
}
