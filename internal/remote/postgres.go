// Package remote is the optional sync backend: one row of the
// accounting_data table holding the whole state as JSON columns.
package remote

import (
	"context"
	"errors"
	"fmt"

	"bookkeeping/internal/config"
	"bookkeeping/internal/models"
	"bookkeeping/internal/persistence"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Open connects to the Postgres instance named by cfg.DSN.
func Open(cfg config.RemoteConfig) (*gorm.DB, error) {
	gormLogger := logger.Default
	if !cfg.LogMode {
		gormLogger = gormLogger.LogMode(logger.Silent)
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open remote database: %w", err)
	}
	return db, nil
}

// Backend implements persistence.RemoteBackend on any gorm dialect.
type Backend struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Backend {
	return &Backend{db: db}
}

// Migrate creates the accounting_data table when missing.
func (b *Backend) Migrate() error {
	if err := b.db.AutoMigrate(&models.RemoteRecord{}); err != nil {
		return fmt.Errorf("migrate remote: %w", err)
	}
	return nil
}

func (b *Backend) LoadOne(ctx context.Context, id uint) (*models.RemoteRecord, error) {
	var rec models.RemoteRecord
	err := b.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistence.ErrRecordAbsent
	}
	if err != nil {
		return nil, fmt.Errorf("load remote record %d: %w", id, err)
	}
	return &rec, nil
}

// Upsert overwrites the record with the full payload.
func (b *Backend) Upsert(ctx context.Context, rec *models.RemoteRecord) error {
	err := b.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(rec).Error
	if err != nil {
		return fmt.Errorf("upsert remote record %d: %w", rec.ID, err)
	}
	return nil
}
