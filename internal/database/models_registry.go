package database

import "chronicle/internal/models"

// AllModels returns every model that participates in schema migration.
// Order matters: referenced tables migrate before their dependents.
func AllModels() []any {
	return []any{
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.View{},
		&models.Follower{},
		&models.ModerationDecision{},
	}
}
