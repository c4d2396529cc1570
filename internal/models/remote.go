package models

import (
	"time"

	"gorm.io/datatypes"
)

// RemoteRecord is the single synced row on the remote backend. Each
// collection lives in its own JSON column so a missing column can fall back
// to its default independently.
type RemoteRecord struct {
	ID           uint           `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Transactions datatypes.JSON `gorm:"column:transactions" json:"transactions"`
	Categories   datatypes.JSON `gorm:"column:categories" json:"categories"`
	Clients      datatypes.JSON `gorm:"column:clients" json:"clients"`
	Quotes       datatypes.JSON `gorm:"column:quotes" json:"quotes"`
	Employees    datatypes.JSON `gorm:"column:employees" json:"employees"`
	WorkHours    datatypes.JSON `gorm:"column:workHours" json:"workHours"`
	Settings     datatypes.JSON `gorm:"column:settings" json:"settings"`
	UpdatedAt    time.Time      `gorm:"column:updatedAt" json:"updatedAt"`
}

func (RemoteRecord) TableName() string {
	return "accounting_data"
}
