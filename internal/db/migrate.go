// Package db owns schema migration and seed data for the legacy
// usuarios/perfis schema.
package db

import (
	"gorm.io/gorm"

	"github.com/diewo77/go-users/internal/models"
)

// Migrate applies the GORM auto-migrations. Parents before the join
// table so the cascade constraints can be created.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.UserProfile{},
	)
}
