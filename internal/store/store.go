// Package store holds the canonical in-memory bookkeeping state.
package store

import (
	"errors"
	"slices"
	"sync"
	"time"

	"bookkeeping/internal/models"
)

var ErrNotFound = errors.New("record not found")

// Store owns the seven collections. Every method is safe for concurrent use;
// collections keep insertion order.
type Store struct {
	mu     sync.Mutex
	state  models.Snapshot
	lastID int64
	now    func() time.Time
}

// New returns a store seeded with initial.
func New(initial models.Snapshot) *Store {
	s := &Store{now: time.Now}
	s.replace(initial)
	return s
}

// SetClock overrides the time source used for ids and createdAt stamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Replace swaps the whole state, e.g. after a load or an import.
func (s *Store) Replace(snap models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(snap)
}

func (s *Store) replace(snap models.Snapshot) {
	s.state = snap.Clone()
	for _, id := range allIDs(s.state) {
		if int64(id) > s.lastID {
			s.lastID = int64(id)
		}
	}
}

// nextID hands out millisecond timestamps, bumped when two records are
// created within the same tick.
func (s *Store) nextID() models.ID {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return models.ID(id)
}

func allIDs(snap models.Snapshot) []models.ID {
	ids := make([]models.ID, 0, len(snap.Transactions)+len(snap.Categories)+len(snap.Clients)+
		len(snap.Quotes)+len(snap.Employees)+len(snap.WorkHours))
	for _, v := range snap.Transactions {
		ids = append(ids, v.ID)
	}
	for _, v := range snap.Categories {
		ids = append(ids, v.ID)
	}
	for _, v := range snap.Clients {
		ids = append(ids, v.ID)
	}
	for _, v := range snap.Quotes {
		ids = append(ids, v.ID)
	}
	for _, v := range snap.Employees {
		ids = append(ids, v.ID)
	}
	for _, v := range snap.WorkHours {
		ids = append(ids, v.ID)
	}
	return ids
}

// ---------- transactions ----------

func (s *Store) AddTransaction(t models.Transaction) models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID()
	s.state.Transactions = append(s.state.Transactions, t)
	return t
}

// UpdateTransaction overwrites the record in place, keeping its id.
func (s *Store) UpdateTransaction(id models.ID, t models.Transaction) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.state.Transactions, func(v models.Transaction) bool { return v.ID == id })
	if i < 0 {
		return models.Transaction{}, ErrNotFound
	}
	t.ID = id
	s.state.Transactions[i] = t
	return t, nil
}

func (s *Store) Transaction(id models.ID) (models.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.state.Transactions, func(v models.Transaction) bool { return v.ID == id })
}

func (s *Store) DeleteTransaction(id models.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	s.state.Transactions, n = removeWhere(s.state.Transactions, func(v models.Transaction) bool { return v.ID == id })
	return n > 0
}

// ---------- categories ----------

func (s *Store) AddCategory(c models.Category) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID()
	s.state.Categories = append(s.state.Categories, c)
	return c
}

// DeleteCategory removes the category and unsets it on every transaction that
// referenced it. It returns the number of orphaned transactions.
func (s *Store) DeleteCategory(id models.ID) (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	s.state.Categories, n = removeWhere(s.state.Categories, func(v models.Category) bool { return v.ID == id })
	orphaned := 0
	for i := range s.state.Transactions {
		if s.state.Transactions[i].Category == id {
			s.state.Transactions[i].Category = 0
			orphaned++
		}
	}
	return n > 0, orphaned
}

// ---------- clients ----------

func (s *Store) AddClient(c models.Client) models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID()
	c.CreatedAt = s.now().UTC()
	s.state.Clients = append(s.state.Clients, c)
	return c
}

// UpdateClient keeps id and createdAt of the existing client.
func (s *Store) UpdateClient(id models.ID, c models.Client) (models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.state.Clients, func(v models.Client) bool { return v.ID == id })
	if i < 0 {
		return models.Client{}, ErrNotFound
	}
	c.ID = id
	c.CreatedAt = s.state.Clients[i].CreatedAt
	s.state.Clients[i] = c
	return c, nil
}

// DeleteClient removes the client together with all of its quotes. Transactions
// pointing at the client keep their amounts but lose the reference.
func (s *Store) DeleteClient(id models.ID) (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n, quotes int
	s.state.Clients, n = removeWhere(s.state.Clients, func(v models.Client) bool { return v.ID == id })
	s.state.Quotes, quotes = removeWhere(s.state.Quotes, func(v models.Quote) bool { return v.Client == id })
	for i := range s.state.Transactions {
		if s.state.Transactions[i].Client == id {
			s.state.Transactions[i].Client = 0
		}
	}
	return n > 0, quotes
}

// ---------- quotes ----------

func (s *Store) AddQuote(q models.Quote) models.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.ID = s.nextID()
	q.CreatedAt = s.now().UTC()
	s.state.Quotes = append(s.state.Quotes, q)
	return q
}

func (s *Store) UpdateQuote(id models.ID, q models.Quote) (models.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.state.Quotes, func(v models.Quote) bool { return v.ID == id })
	if i < 0 {
		return models.Quote{}, ErrNotFound
	}
	q.ID = id
	q.CreatedAt = s.state.Quotes[i].CreatedAt
	s.state.Quotes[i] = q
	return q, nil
}

func (s *Store) Quote(id models.ID) (models.Quote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.state.Quotes, func(v models.Quote) bool { return v.ID == id })
}

func (s *Store) DeleteQuote(id models.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	s.state.Quotes, n = removeWhere(s.state.Quotes, func(v models.Quote) bool { return v.ID == id })
	return n > 0
}

// ---------- employees ----------

func (s *Store) AddEmployee(e models.Employee) models.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID()
	e.CreatedAt = s.now().UTC()
	s.state.Employees = append(s.state.Employees, e)
	return e
}

func (s *Store) UpdateEmployee(id models.ID, e models.Employee) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.state.Employees, func(v models.Employee) bool { return v.ID == id })
	if i < 0 {
		return models.Employee{}, ErrNotFound
	}
	e.ID = id
	e.CreatedAt = s.state.Employees[i].CreatedAt
	s.state.Employees[i] = e
	return e, nil
}

func (s *Store) Employee(id models.ID) (models.Employee, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.state.Employees, func(v models.Employee) bool { return v.ID == id })
}

// DeleteEmployee removes the employee and every work-hour logged for them.
func (s *Store) DeleteEmployee(id models.ID) (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n, hours int
	s.state.Employees, n = removeWhere(s.state.Employees, func(v models.Employee) bool { return v.ID == id })
	s.state.WorkHours, hours = removeWhere(s.state.WorkHours, func(v models.WorkHour) bool { return v.EmployeeID == id })
	return n > 0, hours
}

// ---------- work hours ----------

// AddWorkHour logs hours for an existing employee.
func (s *Store) AddWorkHour(h models.WorkHour) (models.WorkHour, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.ContainsFunc(s.state.Employees, func(v models.Employee) bool { return v.ID == h.EmployeeID }) {
		return models.WorkHour{}, ErrNotFound
	}
	h.ID = s.nextID()
	h.CreatedAt = s.now().UTC()
	s.state.WorkHours = append(s.state.WorkHours, h)
	return h, nil
}

func (s *Store) DeleteWorkHour(id models.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	s.state.WorkHours, n = removeWhere(s.state.WorkHours, func(v models.WorkHour) bool { return v.ID == id })
	return n > 0
}

// ---------- settings ----------

func (s *Store) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings
}

// SaveSettings overwrites the settings singleton wholesale.
func (s *Store) SaveSettings(settings models.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Settings = settings
}

// Reset clears every collection, restoring the default categories and the
// given settings.
func (s *Store) Reset(settings models.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = models.Snapshot{
		Transactions: []models.Transaction{},
		Categories:   models.DefaultCategories(),
		Clients:      []models.Client{},
		Quotes:       []models.Quote{},
		Employees:    []models.Employee{},
		WorkHours:    []models.WorkHour{},
		Settings:     settings,
	}
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	if i := slices.IndexFunc(items, match); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

// removeWhere filters in place and reports how many items were dropped.
func removeWhere[T any](items []T, match func(T) bool) ([]T, int) {
	before := len(items)
	items = slices.DeleteFunc(items, match)
	return items, before - len(items)
}
