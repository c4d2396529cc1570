package models

import "time"

// Snapshot is the complete bookkeeping state: six collections plus settings.
type Snapshot struct {
	Transactions []Transaction `json:"transactions"`
	Categories   []Category    `json:"categories"`
	Clients      []Client      `json:"clients"`
	Quotes       []Quote       `json:"quotes"`
	Employees    []Employee    `json:"employees"`
	WorkHours    []WorkHour    `json:"workHours"`
	Settings     Settings      `json:"settings"`
}

// Clone copies every collection so the result shares no backing arrays.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Transactions: append([]Transaction{}, s.Transactions...),
		Categories:   append([]Category{}, s.Categories...),
		Clients:      append([]Client{}, s.Clients...),
		Quotes:       append([]Quote{}, s.Quotes...),
		Employees:    append([]Employee{}, s.Employees...),
		WorkHours:    append([]WorkHour{}, s.WorkHours...),
		Settings:     s.Settings,
	}
}

// Export is the downloadable file format.
type Export struct {
	Snapshot
	ExportDate time.Time `json:"exportDate"`
}
