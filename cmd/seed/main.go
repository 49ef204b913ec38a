// Command seed populates the database with demo data.
package main

import (
	"flag"
	"log"

	"chronicle/internal/config"
	"chronicle/internal/database"
	"chronicle/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Printf("Seeding target: %d users, %d posts, clean=%v", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Run(seed.Options{
		NumUsers: *numUsers,
		NumPosts: *numPosts,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
