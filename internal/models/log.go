package models

import "time"

// AuditLog records mutating API calls.
type AuditLog struct {
	ID        uint   `gorm:"primaryKey"`
	Method    string `gorm:"size:16"`
	Path      string `gorm:"size:255"`
	Status    int
	IP        string    `gorm:"size:64"`
	UserAgent string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"index"`
}
