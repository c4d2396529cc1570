package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"bookkeeping/internal/models"
	"bookkeeping/internal/util"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrBackupNotFound = errors.New("backup not found")

// Backups writes AES-GCM encrypted exports to a directory and indexes them
// in the backups table.
type Backups struct {
	db   *gorm.DB
	svc  *Service
	key  string
	dir  string
	keep int
	log  *logrus.Logger
}

func NewBackups(db *gorm.DB, svc *Service, encryptKey, dir string, keep int) *Backups {
	return &Backups{db: db, svc: svc, key: encryptKey, dir: dir, keep: keep, log: svc.log}
}

// Create snapshots the store into a new encrypted file.
func (b *Backups) Create(trigger string) (models.Backup, error) {
	raw, err := json.Marshal(b.svc.Export())
	if err != nil {
		return models.Backup{}, fmt.Errorf("encode backup: %w", err)
	}
	enc, err := util.EncryptAES(b.key, raw)
	if err != nil {
		return models.Backup{}, fmt.Errorf("encrypt backup: %w", err)
	}
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return models.Backup{}, fmt.Errorf("create backup dir: %w", err)
	}

	fileName := fmt.Sprintf("backup-%s-%s.bin", b.svc.now().Format("20060102-150405"), uuid.New().String())
	filePath := filepath.Join(b.dir, fileName)
	if err := os.WriteFile(filePath, enc, 0o600); err != nil {
		return models.Backup{}, fmt.Errorf("write backup: %w", err)
	}

	backup := models.Backup{
		FileName: fileName,
		FilePath: filePath,
		Size:     int64(len(enc)),
		Trigger:  trigger,
	}
	if err := b.db.Create(&backup).Error; err != nil {
		_ = os.Remove(filePath)
		return models.Backup{}, fmt.Errorf("save backup record: %w", err)
	}
	b.log.WithFields(logrus.Fields{"file": fileName, "trigger": trigger}).Info("backup created")
	return backup, nil
}

// List returns backups newest first.
func (b *Backups) List() ([]models.Backup, error) {
	var list []models.Backup
	if err := b.db.Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	return list, nil
}

func (b *Backups) Get(id uint) (models.Backup, error) {
	var backup models.Backup
	err := b.db.First(&backup, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Backup{}, ErrBackupNotFound
	}
	if err != nil {
		return models.Backup{}, fmt.Errorf("load backup %d: %w", id, err)
	}
	return backup, nil
}

// Restore decrypts a backup and replaces the whole state with it.
func (b *Backups) Restore(id uint) (models.Snapshot, error) {
	backup, err := b.Get(id)
	if err != nil {
		return models.Snapshot{}, err
	}
	enc, err := os.ReadFile(backup.FilePath)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("read backup: %w", err)
	}
	raw, err := util.DecryptAES(b.key, enc)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("decrypt backup: %w", err)
	}
	snap, err := b.svc.persist.Decode(raw)
	if err != nil {
		return models.Snapshot{}, err
	}
	b.svc.Restore(snap, "backup restored")
	return snap, nil
}

// Delete removes the file first, then the record.
func (b *Backups) Delete(id uint) error {
	backup, err := b.Get(id)
	if err != nil {
		return err
	}
	_ = os.Remove(backup.FilePath)
	if err := b.db.Delete(&backup).Error; err != nil {
		return fmt.Errorf("delete backup %d: %w", id, err)
	}
	return nil
}

// Prune keeps the newest scheduled backups. Manual backups are never pruned.
func (b *Backups) Prune() (int, error) {
	if b.keep <= 0 {
		return 0, nil
	}
	var list []models.Backup
	err := b.db.Where(&models.Backup{Trigger: models.BackupScheduled}).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	if err != nil {
		return 0, fmt.Errorf("find old backups: %w", err)
	}
	if len(list) <= b.keep {
		return 0, nil
	}
	old := list[b.keep:]
	for _, backup := range old {
		if err := b.Delete(backup.ID); err != nil {
			return 0, err
		}
	}
	return len(old), nil
}

// Schedule starts a cron job taking a backup on expr, e.g. "@daily" or
// "0 3 * * *". The caller stops the returned scheduler.
func (b *Backups) Schedule(expr string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(expr, b.scheduled)
	if err != nil {
		return nil, fmt.Errorf("parse backup schedule %q: %w", expr, err)
	}
	c.Start()
	b.log.WithField("schedule", expr).Info("scheduled backups enabled")
	return c, nil
}

func (b *Backups) scheduled() {
	if _, err := b.Create(models.BackupScheduled); err != nil {
		b.log.WithError(err).Error("scheduled backup failed")
		return
	}
	if n, err := b.Prune(); err != nil {
		b.log.WithError(err).Warn("prune backups failed")
	} else if n > 0 {
		b.log.WithField("removed", n).Info("old backups pruned")
	}
}
