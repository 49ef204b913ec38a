// Command moderator manages the moderator flag on user accounts.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"chronicle/internal/config"
	"chronicle/internal/database"
	"chronicle/internal/models"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/moderator promote <user_id>   - Grant moderator privileges")
		fmt.Println("  go run ./cmd/moderator demote <user_id>    - Revoke moderator privileges")
		fmt.Println("  go run ./cmd/moderator list                - List all moderators")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch os.Args[1] {
	case "promote", "demote":
		if len(os.Args) < 3 {
			log.Fatalf("%s requires a user ID", os.Args[1])
		}
		id, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			log.Fatalf("Invalid user ID %q", os.Args[2])
		}

		var user models.User
		if err := db.First(&user, uint(id)).Error; err != nil {
			log.Fatalf("User %d not found: %v", id, err)
		}

		flag := os.Args[1] == "promote"
		if err := db.Model(&user).Update("is_moderator", flag).Error; err != nil {
			log.Fatalf("Failed to update user %d: %v", id, err)
		}
		log.Printf("User %d (%s) is_moderator=%v", user.ID, user.Email, flag)

	case "list":
		var moderators []models.User
		if err := db.Where("is_moderator = ?", true).Find(&moderators).Error; err != nil {
			log.Fatalf("Failed to list moderators: %v", err)
		}
		if len(moderators) == 0 {
			log.Println("No moderators")
			return
		}
		for _, m := range moderators {
			log.Printf("%d\t%s\t%s", m.ID, m.Email, m.DisplayName)
		}

	default:
		log.Fatalf("Unknown command %q", os.Args[1])
	}
}
