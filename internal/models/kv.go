package models

import "time"

// KVEntry is one key of the local durable store. Value holds serialized JSON.
type KVEntry struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
