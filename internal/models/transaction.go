package models

import "github.com/shopspring/decimal"

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is one income or expense line. Category and Client are
// references by id; zero means the reference is unset.
type Transaction struct {
	ID          ID              `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    ID              `json:"category"`
	Client      ID              `json:"client"`
	Date        Date            `json:"date"`
	Note        string          `json:"note"`
}
