package view

import (
	"math/rand"
	"testing"
	"time"

	"bookkeeping/internal/models"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tx(id models.ID, desc, amount string, typ models.TransactionType, cat models.ID, date string) models.Transaction {
	return models.Transaction{
		ID: id, Description: desc, Amount: dec(amount), Type: typ, Category: cat, Date: models.MustDate(date),
	}
}

func baseSnapshot() models.Snapshot {
	return models.Snapshot{
		Transactions: []models.Transaction{
			tx(1, "Kitchen job", "1500", models.TypeIncome, 2, "2024-01-15"),
			tx(2, "Rent January", "800", models.TypeExpense, 4, "2024-01-01"),
			tx(3, "Brushes", "45.25", models.TypeExpense, 6, "2024-02-10"),
			tx(4, "Deck stain", "300", models.TypeIncome, 1, "2024-02-20"),
		},
		Categories: models.DefaultCategories(),
		Settings:   models.Settings{BusinessName: "Gevers", Currency: "USD", FiscalYear: 2024},
	}
}

func TestDashboard_NetBalance(t *testing.T) {
	s := baseSnapshot()
	d := Dashboard(s)

	income, expense := decimal.Zero, decimal.Zero
	for _, tr := range s.Transactions {
		if tr.Type == models.TypeIncome {
			income = income.Add(tr.Amount)
		} else {
			expense = expense.Add(tr.Amount)
		}
	}
	if !d.NetBalance.Equal(income.Sub(expense)) {
		t.Errorf("NetBalance = %s, want %s", d.NetBalance, income.Sub(expense))
	}
	if !d.TotalIncome.Equal(dec("1800")) || !d.TotalExpense.Equal(dec("845.25")) {
		t.Errorf("totals = %s / %s", d.TotalIncome, d.TotalExpense)
	}
	if d.Formatted["netBalance"] != "$954.75" {
		t.Errorf("formatted balance = %q", d.Formatted["netBalance"])
	}
}

func TestDashboard_RecentIsLastTenNewestFirst(t *testing.T) {
	s := baseSnapshot()
	s.Transactions = nil
	for i := 1; i <= 12; i++ {
		s.Transactions = append(s.Transactions, tx(models.ID(i), "t", "1", models.TypeIncome, 1, "2024-01-01"))
	}

	d := Dashboard(s)
	if len(d.Recent) != RecentLimit {
		t.Fatalf("recent = %d, want %d", len(d.Recent), RecentLimit)
	}
	if d.Recent[0].ID != 12 || d.Recent[RecentLimit-1].ID != 3 {
		t.Errorf("recent order = %d..%d, want 12..3", d.Recent[0].ID, d.Recent[RecentLimit-1].ID)
	}
}

func TestScenario_PaintSupplies(t *testing.T) {
	s := baseSnapshot()
	before := Dashboard(s)
	summaryBefore := findCategory(CategorySummary(s), 6)

	s.Transactions = append(s.Transactions, tx(5, "Paint supplies", "120.50", models.TypeExpense, 6, "2024-03-05"))

	after := Dashboard(s)
	if diff := after.TotalExpense.Sub(before.TotalExpense); !diff.Equal(dec("120.50")) {
		t.Errorf("expense increased by %s, want 120.50", diff)
	}
	summaryAfter := findCategory(CategorySummary(s), 6)
	if summaryAfter.Name != "Purchases" {
		t.Errorf("bucket name = %q", summaryAfter.Name)
	}
	if summaryAfter.Count != summaryBefore.Count+1 {
		t.Errorf("count = %d, want %d", summaryAfter.Count, summaryBefore.Count+1)
	}
	if !summaryAfter.Total.Sub(summaryBefore.Total).Equal(dec("120.50")) {
		t.Errorf("total = %s, before %s", summaryAfter.Total, summaryBefore.Total)
	}
}

func findCategory(list []CategoryTotal, id models.ID) CategoryTotal {
	for _, c := range list {
		if c.CategoryID == id {
			return c
		}
	}
	return CategoryTotal{Total: decimal.Zero}
}

func TestCategorySummary_SentinelBucket(t *testing.T) {
	s := baseSnapshot()
	s.Transactions = append(s.Transactions,
		tx(5, "orphan a", "10", models.TypeExpense, 999, "2024-03-01"),
		tx(6, "orphan b", "5", models.TypeExpense, 0, "2024-03-02"),
	)

	sum := CategorySummary(s)
	bucket := findCategory(sum, 0)
	if bucket.Name != NoCategory || bucket.Type != UnknownType {
		t.Errorf("sentinel = %+v", bucket)
	}
	if bucket.Count != 2 || !bucket.Total.Equal(dec("15")) {
		t.Errorf("sentinel count=%d total=%s", bucket.Count, bucket.Total)
	}
	if sum[0].CategoryID != 2 {
		t.Errorf("first bucket = %d, want first-seen category 2", sum[0].CategoryID)
	}
}

func TestMonthlyReport_OrderIndependent(t *testing.T) {
	s := baseSnapshot()
	for i := 0; i < 40; i++ {
		s.Transactions = append(s.Transactions,
			tx(models.ID(100+i), "x", "0.1", models.TypeExpense, 8, "2024-02-0"+string(rune('1'+i%9))))
	}
	want := MonthlyReport(s, 2024, time.February)

	r := rand.New(rand.NewSource(7))
	for round := 0; round < 5; round++ {
		shuffled := s
		shuffled.Transactions = append([]models.Transaction{}, s.Transactions...)
		r.Shuffle(len(shuffled.Transactions), func(i, j int) {
			shuffled.Transactions[i], shuffled.Transactions[j] = shuffled.Transactions[j], shuffled.Transactions[i]
		})
		got := MonthlyReport(shuffled, 2024, time.February)
		if !got.Income.Equal(want.Income) || !got.Expense.Equal(want.Expense) || got.Count != want.Count {
			t.Fatalf("round %d: got %+v, want %+v", round, got.Totals, want.Totals)
		}
	}

	if !want.Expense.Equal(dec("49.25")) || !want.Income.Equal(dec("300")) {
		t.Errorf("february = %+v", want.Totals)
	}
	if !want.Balance.Equal(want.Income.Sub(want.Expense)) {
		t.Errorf("balance = %s", want.Balance)
	}
	if want.Count != 42 {
		t.Errorf("count = %d, want 42", want.Count)
	}
}

func TestTrend_Ascending(t *testing.T) {
	s := baseSnapshot()
	// insert February first so ordering comes from the key, not insertion
	s.Transactions = []models.Transaction{s.Transactions[3], s.Transactions[2], s.Transactions[0], s.Transactions[1]}

	points := Trend(s)
	if len(points) != 2 {
		t.Fatalf("buckets = %d, want 2", len(points))
	}
	if points[0].Key != "2024-01" || points[1].Key != "2024-02" {
		t.Errorf("keys = %s, %s", points[0].Key, points[1].Key)
	}
	if points[0].Label != "Jan 24" {
		t.Errorf("label = %q", points[0].Label)
	}
	if !points[0].Income.Equal(dec("1500")) || !points[0].Expense.Equal(dec("800")) {
		t.Errorf("january = %+v", points[0])
	}
}

func TestExpenseByCategory(t *testing.T) {
	s := baseSnapshot()
	s.Transactions = append(s.Transactions, tx(9, "ghost", "1", models.TypeExpense, 77, "2024-03-01"))

	pie := ExpenseByCategory(s)
	if len(pie) != 3 {
		t.Fatalf("slices = %+v", pie)
	}
	if pie[0].Name != "Rent" || pie[1].Name != "Purchases" || pie[2].Name != NoCategory {
		t.Errorf("names = %v", pie)
	}
}

func TestTransactions_Filters(t *testing.T) {
	s := baseSnapshot()

	tests := []struct {
		name   string
		filter TransactionFilter
		want   []models.ID
	}{
		{"no filter sorts by date desc", TransactionFilter{}, []models.ID{4, 3, 1, 2}},
		{"type", TransactionFilter{Type: models.TypeExpense}, []models.ID{3, 2}},
		{"category", TransactionFilter{CategoryID: 4}, []models.ID{2}},
		{"search is case-insensitive", TransactionFilter{Search: "KITCHEN"}, []models.ID{1}},
		{"predicates are combined", TransactionFilter{Type: models.TypeIncome, Search: "brush"}, []models.ID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := Transactions(s, tt.filter)
			if len(rows) != len(tt.want) {
				t.Fatalf("got %d rows, want %d", len(rows), len(tt.want))
			}
			for i, id := range tt.want {
				if rows[i].ID != id {
					t.Errorf("row %d = %d, want %d", i, rows[i].ID, id)
				}
			}
		})
	}
}

func TestTransactions_ResolvesReferences(t *testing.T) {
	s := baseSnapshot()
	s.Transactions = []models.Transaction{tx(1, "x", "1", models.TypeIncome, 404, "2024-01-01")}
	s.Transactions[0].Client = 55

	rows := Transactions(s, TransactionFilter{})
	if rows[0].CategoryName != NoCategory || rows[0].ClientName != ClientNotFound {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestClients_SearchAndSort(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := models.Snapshot{
		Clients: []models.Client{
			{ID: 1, Name: "Ann", Email: "ann@paint.io", Type: models.ClientPersonal, CreatedAt: t0},
			{ID: 2, Name: "Bob", Email: "bob@wood.io", Type: models.ClientBusiness, CreatedAt: t0.Add(time.Hour)},
			{ID: 3, Name: "Cid", Email: "cid@paint.io", Type: models.ClientBusiness, CreatedAt: t0.Add(2 * time.Hour)},
		},
		Quotes: []models.Quote{{ID: 10, Client: 3}, {ID: 11, Client: 3}},
	}

	rows := Clients(s, ClientFilter{Search: "PAINT"})
	if len(rows) != 2 || rows[0].ID != 3 || rows[1].ID != 1 {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].QuoteCount != 2 || rows[0].TypeLabel != "Business" {
		t.Errorf("row = %+v", rows[0])
	}
	if got := Clients(s, ClientFilter{Type: models.ClientBusiness, Search: "bob"}); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("type+search = %+v", got)
	}
}

func TestQuotes_ExpiryIsDisplayOnly(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	s := models.Snapshot{
		Clients: []models.Client{{ID: 1, Name: "Ann"}},
		Quotes: []models.Quote{
			{ID: 1, Number: "Q-001", Client: 1, Date: models.MustDate("2024-03-01"), Expiry: models.MustDate("2024-03-05"), Status: models.QuotePending},
			{ID: 2, Number: "Q-002", Client: 9, Date: models.MustDate("2024-03-08"), Expiry: models.MustDate("2024-03-20"), Status: models.QuoteAccepted},
		},
		Settings: models.Settings{Currency: "EUR"},
	}

	rows := Quotes(s, QuoteFilter{}, now)
	if rows[0].ID != 2 {
		t.Fatalf("first row = %d, want newest quote", rows[0].ID)
	}
	if rows[0].ClientName != ClientNotFound || rows[0].DaysLeft != 10 || rows[0].Expired {
		t.Errorf("open quote = %+v", rows[0])
	}
	if !rows[1].Expired || rows[1].Status != models.QuotePending {
		t.Errorf("expired quote = %+v, status must stay pending", rows[1])
	}
	if rows[1].Display != "€0.00" {
		t.Errorf("display = %q", rows[1].Display)
	}
	if got := Quotes(s, QuoteFilter{Status: models.QuoteAccepted}, now); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("status filter = %+v", got)
	}
	if got := Quotes(s, QuoteFilter{Search: "001", ClientID: 1}, now); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("search filter = %+v", got)
	}

	// a quote is already shown as expired on its expiry date
	s.Quotes = []models.Quote{{ID: 3, Number: "Q-003", Date: models.MustDate("2024-03-01"), Expiry: models.MustDate("2024-03-10"), Status: models.QuotePending}}
	today := Quotes(s, QuoteFilter{}, now)
	if today[0].DaysLeft != 0 || !today[0].Expired {
		t.Errorf("expiry today: DaysLeft = %d Expired = %v, want 0 true", today[0].DaysLeft, today[0].Expired)
	}
	tomorrow := Quotes(s, QuoteFilter{}, now.Add(-24*time.Hour))
	if tomorrow[0].DaysLeft != 1 || tomorrow[0].Expired {
		t.Errorf("expiry tomorrow: DaysLeft = %d Expired = %v, want 1 false", tomorrow[0].DaysLeft, tomorrow[0].Expired)
	}
}

func TestScenario_EmployeeEarnings(t *testing.T) {
	s := models.Snapshot{
		Employees: []models.Employee{{ID: 1, Name: "Bo", HourlyRate: dec("25"), Status: models.EmployeeActive}},
		WorkHours: []models.WorkHour{{ID: 2, EmployeeID: 1, Date: models.MustDate("2024-03-01"), Hours: dec("8")}},
	}

	cards := Employees(s, EmployeeFilter{})
	if len(cards) != 1 {
		t.Fatalf("cards = %d", len(cards))
	}
	if cards[0].TotalHours.StringFixed(2) != "8.00" || cards[0].TotalEarnings.StringFixed(2) != "200.00" {
		t.Errorf("card = hours %s earnings %s", cards[0].TotalHours, cards[0].TotalEarnings)
	}

	// rate changes apply retroactively
	s.Employees[0].HourlyRate = dec("30")
	if got := Employees(s, EmployeeFilter{})[0].TotalEarnings; !got.Equal(dec("240")) {
		t.Errorf("earnings after rate change = %s", got)
	}
	if got := Employees(s, EmployeeFilter{Status: models.EmployeeInactive}); len(got) != 0 {
		t.Errorf("status filter = %+v", got)
	}
}

func TestHoursHistory(t *testing.T) {
	s := models.Snapshot{
		Employees: []models.Employee{{ID: 1, Name: "Bo", HourlyRate: dec("20")}},
		WorkHours: []models.WorkHour{
			{ID: 2, EmployeeID: 1, Date: models.MustDate("2024-03-01"), Hours: dec("4")},
			{ID: 3, EmployeeID: 7, Date: models.MustDate("2024-03-02"), Hours: dec("1")},
			{ID: 4, EmployeeID: 1, Date: models.MustDate("2024-03-05"), Hours: dec("2.5")},
		},
	}

	rows := HoursHistory(s, 1)
	if len(rows) != 2 || rows[0].ID != 4 {
		t.Fatalf("rows = %+v", rows)
	}
	if !rows[0].Earnings.Equal(dec("50")) {
		t.Errorf("earnings = %s", rows[0].Earnings)
	}
	if all := HoursHistory(s, 0); len(all) != 3 || all[1].EmployeeName != NoEmployee {
		t.Errorf("all = %+v", all)
	}
}

func TestCategoryGroups(t *testing.T) {
	g := CategoryGroups(models.Snapshot{Categories: models.DefaultCategories()})
	if len(g[models.TypeIncome]) != 2 || len(g[models.TypeExpense]) != 6 {
		t.Errorf("groups = %d income, %d expense", len(g[models.TypeIncome]), len(g[models.TypeExpense]))
	}
	if g[models.TypeExpense][0].Name != "Salaries" {
		t.Errorf("first expense = %q", g[models.TypeExpense][0].Name)
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		currency string
		amount   string
		want     string
	}{
		{"USD", "1234.5", "$1234.50"},
		{"EUR", "0.125", "€0.13"},
		{"MXN", "10", "$10.00"},
		{"GBP", "3", "$3.00"},
	}
	for _, tt := range tests {
		got := FormatCurrency(models.Settings{Currency: tt.currency}, dec(tt.amount))
		if got != tt.want {
			t.Errorf("FormatCurrency(%s, %s) = %q, want %q", tt.currency, tt.amount, got, tt.want)
		}
	}
}

func BenchmarkDashboard(b *testing.B) {
	s := baseSnapshot()
	for i := 0; i < 5000; i++ {
		s.Transactions = append(s.Transactions, tx(models.ID(10+i), "bulk", "12.34", models.TypeExpense, 5, "2024-05-05"))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Dashboard(s)
		CategorySummary(s)
		Trend(s)
	}
}
