package database

import (
	"fmt"

	"bookkeeping/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all local models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.KVEntry{},
		&models.Backup{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
