package database

import (
	"path/filepath"
	"testing"

	"bookkeeping/internal/config"
	"bookkeeping/internal/models"
)

func TestInitAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "books.db")

	db, err := Init(config.DatabaseConfig{Path: path})
	if err != nil {
		t.Fatalf("Init error = %v", err)
	}
	defer Close(db)

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate error = %v", err)
	}
	for _, m := range []interface{}{&models.KVEntry{}, &models.Backup{}, &models.AuditLog{}} {
		if !db.Migrator().HasTable(m) {
			t.Errorf("table for %T not created", m)
		}
	}
}
