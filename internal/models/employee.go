package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
)

func (s EmployeeStatus) Valid() bool {
	return s == EmployeeActive || s == EmployeeInactive
}

type Employee struct {
	ID         ID              `json:"id"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email"`
	HourlyRate decimal.Decimal `json:"hourlyRate"`
	Position   string          `json:"position"`
	StartDate  Date            `json:"startDate"`
	Status     EmployeeStatus  `json:"status"`
	Notes      string          `json:"notes"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// WorkHour is a logged block of hours. Earnings are never stored; they are
// derived from the employee's current hourly rate.
type WorkHour struct {
	ID         ID              `json:"id"`
	EmployeeID ID              `json:"employeeId"`
	Date       Date            `json:"date"`
	Hours      decimal.Decimal `json:"hours"`
	Notes      string          `json:"notes"`
	CreatedAt  time.Time       `json:"createdAt"`
}
