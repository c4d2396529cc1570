package view

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"bookkeeping/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel labels for references that no longer resolve.
const (
	NoCategory     = "No category"
	UnknownType    = "unknown"
	ClientNotFound = "Client not found"
	NoEmployee     = "Unknown employee"
)

// An empty field in any filter disables that predicate.
type TransactionFilter struct {
	Type       models.TransactionType `form:"type"`
	CategoryID models.ID              `form:"category"`
	Search     string                 `form:"search"`
}

type TransactionRow struct {
	models.Transaction
	CategoryName string `json:"categoryName"`
	ClientName   string `json:"clientName,omitempty"`
	Display      string `json:"display"`
}

// Transactions returns the matching transactions, newest date first.
func Transactions(s models.Snapshot, f TransactionFilter) []TransactionRow {
	categories := categoryIndex(s.Categories)
	clients := clientIndex(s.Clients)

	rows := make([]TransactionRow, 0, len(s.Transactions))
	for _, t := range s.Transactions {
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.CategoryID != 0 && t.Category != f.CategoryID {
			continue
		}
		if !containsFold(t.Description, f.Search) {
			continue
		}
		row := transactionRow(t, categories, clients, s.Settings)
		rows = append(rows, row)
	}
	slices.SortStableFunc(rows, func(a, b TransactionRow) int {
		return b.Date.Compare(a.Date.Time)
	})
	return rows
}

func transactionRow(t models.Transaction, categories map[models.ID]models.Category, clients map[models.ID]models.Client, settings models.Settings) TransactionRow {
	row := TransactionRow{
		Transaction:  t,
		CategoryName: NoCategory,
		Display:      FormatCurrency(settings, t.Amount),
	}
	if c, ok := categories[t.Category]; ok {
		row.CategoryName = c.Name
	}
	if t.Client != 0 {
		row.ClientName = ClientNotFound
		if c, ok := clients[t.Client]; ok {
			row.ClientName = c.Name
		}
	}
	return row
}

type ClientFilter struct {
	Search string            `form:"search"`
	Type   models.ClientType `form:"type"`
}

type ClientRow struct {
	models.Client
	TypeLabel  string `json:"typeLabel"`
	QuoteCount int    `json:"quoteCount"`
}

// Clients matches search against name or email, newest first.
func Clients(s models.Snapshot, f ClientFilter) []ClientRow {
	quotes := make(map[models.ID]int)
	for _, q := range s.Quotes {
		quotes[q.Client]++
	}
	rows := make([]ClientRow, 0, len(s.Clients))
	for _, c := range s.Clients {
		if f.Type != "" && c.Type != f.Type {
			continue
		}
		if !containsFold(c.Name, f.Search) && !containsFold(c.Email, f.Search) {
			continue
		}
		rows = append(rows, ClientRow{Client: c, TypeLabel: c.Type.Label(), QuoteCount: quotes[c.ID]})
	}
	slices.SortStableFunc(rows, func(a, b ClientRow) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return rows
}

type QuoteFilter struct {
	Status   models.QuoteStatus `form:"status"`
	ClientID models.ID          `form:"client"`
	Search   string             `form:"search"`
}

type QuoteRow struct {
	models.Quote
	ClientName  string `json:"clientName"`
	StatusLabel string `json:"statusLabel"`
	DaysLeft    int    `json:"daysLeft"`
	Expired     bool   `json:"expired"`
	Display     string `json:"display"`
}

// Quotes matches search against number or description, newest date first.
// Expired reflects the expiry date only; the stored status never changes.
func Quotes(s models.Snapshot, f QuoteFilter, now time.Time) []QuoteRow {
	clients := clientIndex(s.Clients)
	rows := make([]QuoteRow, 0, len(s.Quotes))
	for _, q := range s.Quotes {
		if f.Status != "" && q.Status != f.Status {
			continue
		}
		if f.ClientID != 0 && q.Client != f.ClientID {
			continue
		}
		if !containsFold(q.Number, f.Search) && !containsFold(q.Description, f.Search) {
			continue
		}
		row := QuoteRow{
			Quote:       q,
			ClientName:  ClientNotFound,
			StatusLabel: q.Status.Label(),
			Display:     FormatCurrency(s.Settings, q.Amount),
		}
		if c, ok := clients[q.Client]; ok {
			row.ClientName = c.Name
		}
		if !q.Expiry.IsZero() {
			row.DaysLeft = DaysUntil(q.Expiry, now)
			row.Expired = row.DaysLeft <= 0
		}
		rows = append(rows, row)
	}
	slices.SortStableFunc(rows, func(a, b QuoteRow) int {
		return b.Date.Compare(a.Date.Time)
	})
	return rows
}

// DaysUntil is the number of days from now to the start of d, rounded up.
func DaysUntil(d models.Date, now time.Time) int {
	return int(math.Ceil(d.Sub(now).Hours() / 24))
}

type EmployeeFilter struct {
	Search string                `form:"search"`
	Status models.EmployeeStatus `form:"status"`
}

type EmployeeCard struct {
	models.Employee
	TotalHours    decimal.Decimal `json:"totalHours"`
	TotalEarnings decimal.Decimal `json:"totalEarnings"`
	Display       string          `json:"display"`
}

// Employees matches search against name or email, newest first. Earnings use
// the current hourly rate for every logged hour.
func Employees(s models.Snapshot, f EmployeeFilter) []EmployeeCard {
	hours := make(map[models.ID]decimal.Decimal)
	for _, h := range s.WorkHours {
		hours[h.EmployeeID] = hours[h.EmployeeID].Add(h.Hours)
	}
	cards := make([]EmployeeCard, 0, len(s.Employees))
	for _, e := range s.Employees {
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if !containsFold(e.Name, f.Search) && !containsFold(e.Email, f.Search) {
			continue
		}
		total := hours[e.ID]
		earnings := total.Mul(e.HourlyRate)
		cards = append(cards, EmployeeCard{
			Employee:      e,
			TotalHours:    total,
			TotalEarnings: earnings,
			Display:       FormatCurrency(s.Settings, earnings),
		})
	}
	slices.SortStableFunc(cards, func(a, b EmployeeCard) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return cards
}

type HourRow struct {
	models.WorkHour
	EmployeeName string          `json:"employeeName"`
	Earnings     decimal.Decimal `json:"earnings"`
}

// HoursHistory lists the hours logged for one employee, newest date first. A
// zero employeeID lists every entry.
func HoursHistory(s models.Snapshot, employeeID models.ID) []HourRow {
	employees := make(map[models.ID]models.Employee, len(s.Employees))
	for _, e := range s.Employees {
		employees[e.ID] = e
	}
	rows := make([]HourRow, 0)
	for _, h := range s.WorkHours {
		if employeeID != 0 && h.EmployeeID != employeeID {
			continue
		}
		row := HourRow{WorkHour: h, EmployeeName: NoEmployee, Earnings: decimal.Zero}
		if e, ok := employees[h.EmployeeID]; ok {
			row.EmployeeName = e.Name
			row.Earnings = h.Hours.Mul(e.HourlyRate)
		}
		rows = append(rows, row)
	}
	slices.SortStableFunc(rows, func(a, b HourRow) int {
		return b.Date.Compare(a.Date.Time)
	})
	return rows
}

// CategoryGroups splits categories by type, keeping insertion order.
func CategoryGroups(s models.Snapshot) map[models.TransactionType][]models.Category {
	groups := map[models.TransactionType][]models.Category{
		models.TypeIncome:  {},
		models.TypeExpense: {},
	}
	for _, c := range s.Categories {
		groups[c.Type] = append(groups[c.Type], c)
	}
	return groups
}

func categoryIndex(list []models.Category) map[models.ID]models.Category {
	m := make(map[models.ID]models.Category, len(list))
	for _, c := range list {
		m[c.ID] = c
	}
	return m
}

func clientIndex(list []models.Client) map[models.ID]models.Client {
	m := make(map[models.ID]models.Client, len(list))
	for _, c := range list {
		m[c.ID] = c
	}
	return m
}

func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}

func byKey[T any](key func(T) string) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(key(a), key(b)) }
}
