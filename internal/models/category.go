package models

// Category represents income/expense category.
type Category struct {
	ID   ID              `json:"id"`
	Name string          `json:"name"`
	Type TransactionType `json:"type"`
}

// DefaultCategories is the starting category list; ids 1-8 are fixed.
func DefaultCategories() []Category {
	return []Category{
		{ID: 1, Name: "Sales", Type: TypeIncome},
		{ID: 2, Name: "Services", Type: TypeIncome},
		{ID: 3, Name: "Salaries", Type: TypeExpense},
		{ID: 4, Name: "Rent", Type: TypeExpense},
		{ID: 5, Name: "Utilities", Type: TypeExpense},
		{ID: 6, Name: "Purchases", Type: TypeExpense},
		{ID: 7, Name: "Advertising", Type: TypeExpense},
		{ID: 8, Name: "Other", Type: TypeExpense},
	}
}
