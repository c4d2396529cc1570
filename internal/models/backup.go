package models

import "time"

const (
	BackupManual    = "manual"
	BackupScheduled = "scheduled"
)

// Backup describes an encrypted snapshot file in the backup directory.
type Backup struct {
	ID        uint   `gorm:"primaryKey"`
	FileName  string `gorm:"size:255;not null"`
	FilePath  string `gorm:"size:1024;not null"`
	Size      int64
	Trigger   string `gorm:"size:16;index"` // manual / scheduled
	CreatedAt time.Time
}
