// Package view derives page view-models from a snapshot of the store.
// Every function is pure: the same snapshot and inputs give the same result.
package view

import (
	"slices"
	"time"

	"bookkeeping/internal/models"

	"github.com/shopspring/decimal"
)

// RecentLimit is the number of transactions shown on the dashboard.
const RecentLimit = 10

type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
	Count   int             `json:"count"`
}

func (t *Totals) add(tx models.Transaction) {
	switch tx.Type {
	case models.TypeIncome:
		t.Income = t.Income.Add(tx.Amount)
	case models.TypeExpense:
		t.Expense = t.Expense.Add(tx.Amount)
	}
	t.Balance = t.Income.Sub(t.Expense)
	t.Count++
}

func newTotals() Totals {
	return Totals{Income: decimal.Zero, Expense: decimal.Zero, Balance: decimal.Zero}
}

type DashboardView struct {
	BusinessName string            `json:"businessName"`
	TotalIncome  decimal.Decimal   `json:"totalIncome"`
	TotalExpense decimal.Decimal   `json:"totalExpense"`
	NetBalance   decimal.Decimal   `json:"netBalance"`
	Formatted    map[string]string `json:"formatted"`
	Recent       []TransactionRow  `json:"recent"`
}

// Dashboard totals every transaction regardless of filters. Recent holds the
// last inserted transactions, newest first.
func Dashboard(s models.Snapshot) DashboardView {
	totals := newTotals()
	for _, t := range s.Transactions {
		totals.add(t)
	}

	categories := categoryIndex(s.Categories)
	clients := clientIndex(s.Clients)
	recent := make([]TransactionRow, 0, RecentLimit)
	for i := len(s.Transactions) - 1; i >= 0 && len(recent) < RecentLimit; i-- {
		recent = append(recent, transactionRow(s.Transactions[i], categories, clients, s.Settings))
	}

	return DashboardView{
		BusinessName: s.Settings.BusinessName,
		TotalIncome:  totals.Income,
		TotalExpense: totals.Expense,
		NetBalance:   totals.Balance,
		Formatted: map[string]string{
			"totalIncome":  FormatCurrency(s.Settings, totals.Income),
			"totalExpense": FormatCurrency(s.Settings, totals.Expense),
			"netBalance":   FormatCurrency(s.Settings, totals.Balance),
		},
		Recent: recent,
	}
}

type CategoryTotal struct {
	CategoryID models.ID       `json:"categoryId"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
}

// CategorySummary accumulates totals per category id in one pass. Transactions
// whose category no longer exists share the sentinel bucket under id zero.
func CategorySummary(s models.Snapshot) []CategoryTotal {
	categories := categoryIndex(s.Categories)
	index := make(map[models.ID]int)
	var out []CategoryTotal
	for _, t := range s.Transactions {
		key := t.Category
		c, ok := categories[key]
		if !ok {
			key = 0
		}
		i, seen := index[key]
		if !seen {
			bucket := CategoryTotal{CategoryID: key, Name: NoCategory, Type: UnknownType, Total: decimal.Zero}
			if ok {
				bucket.Name, bucket.Type = c.Name, string(c.Type)
			}
			i = len(out)
			index[key] = i
			out = append(out, bucket)
		}
		out[i].Total = out[i].Total.Add(t.Amount)
		out[i].Count++
	}
	if out == nil {
		out = []CategoryTotal{}
	}
	return out
}

type MonthlyView struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Totals
}

// MonthlyReport sums the transactions dated in the given month.
func MonthlyReport(s models.Snapshot, year int, month time.Month) MonthlyView {
	totals := newTotals()
	for _, t := range s.Transactions {
		if t.Date.Year() == year && t.Date.Month() == month {
			totals.add(t)
		}
	}
	return MonthlyView{Year: year, Month: int(month), Totals: totals}
}

type TrendPoint struct {
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Trend buckets transactions by YYYY-MM, oldest month first.
func Trend(s models.Snapshot) []TrendPoint {
	buckets := make(map[string]*TrendPoint)
	for _, t := range s.Transactions {
		if t.Date.IsZero() {
			continue
		}
		key := t.Date.MonthKey()
		p, ok := buckets[key]
		if !ok {
			p = &TrendPoint{
				Key:     key,
				Label:   t.Date.Format("Jan 06"),
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			}
			buckets[key] = p
		}
		switch t.Type {
		case models.TypeIncome:
			p.Income = p.Income.Add(t.Amount)
		case models.TypeExpense:
			p.Expense = p.Expense.Add(t.Amount)
		}
	}
	out := make([]TrendPoint, 0, len(buckets))
	for _, p := range buckets {
		out = append(out, *p)
	}
	slices.SortFunc(out, byKey(func(p TrendPoint) string { return p.Key }))
	return out
}

type Slice struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// ExpenseByCategory feeds the expense pie chart, keyed by category name in
// first-seen order.
func ExpenseByCategory(s models.Snapshot) []Slice {
	categories := categoryIndex(s.Categories)
	index := make(map[string]int)
	out := make([]Slice, 0)
	for _, t := range s.Transactions {
		if t.Type != models.TypeExpense {
			continue
		}
		name := NoCategory
		if c, ok := categories[t.Category]; ok {
			name = c.Name
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, Slice{Name: name, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(t.Amount)
	}
	return out
}
