// Package service runs the bookkeeping mutations: validate, change the store,
// then save through the persistence gateway.
package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"bookkeeping/internal/models"
	"bookkeeping/internal/store"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrInvalid wraps every input validation failure.
var ErrInvalid = errors.New("invalid input")

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Persister is the part of the persistence gateway the service needs.
type Persister interface {
	Save(snap models.Snapshot)
	Decode(raw []byte) (models.Snapshot, error)
}

// Defaults supplies the values used when settings are reset.
type Defaults struct {
	BusinessName string
	Currency     string
}

// ClearedBusinessName replaces the business name after a full reset.
const ClearedBusinessName = "My Business"

type Service struct {
	store    *store.Store
	persist  Persister
	log      *logrus.Logger
	defaults Defaults
	now      func() time.Time

	// mu keeps each mutation and its save together so saves never
	// interleave with another request's change.
	mu      sync.Mutex
	pending *PendingDelete
}

func New(st *store.Store, persist Persister, defaults Defaults, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		store:    st,
		persist:  persist,
		log:      log,
		defaults: defaults,
		now:      time.Now,
	}
}

// SetClock is used by tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
	s.store.SetClock(now)
}

// Snapshot is the current state for the view functions.
func (s *Service) Snapshot() models.Snapshot {
	return s.store.Snapshot()
}

func (s *Service) Now() time.Time {
	return s.now()
}

// commit saves the store. Callers hold s.mu.
func (s *Service) commit(action string, fields logrus.Fields) {
	s.persist.Save(s.store.Snapshot())
	s.log.WithFields(fields).Info(action)
}

// ---------- transactions ----------

func (s *Service) AddTransaction(t models.Transaction) (models.Transaction, error) {
	if err := validateTransaction(&t); err != nil {
		return models.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t = s.store.AddTransaction(t)
	s.commit("transaction added", logrus.Fields{"id": t.ID, "type": t.Type})
	return t, nil
}

// UpdateTransaction edits in place. The type chosen at creation is kept.
func (s *Service) UpdateTransaction(id models.ID, t models.Transaction) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.store.Transaction(id)
	if !ok {
		return models.Transaction{}, store.ErrNotFound
	}
	t.Type = current.Type
	if err := validateTransaction(&t); err != nil {
		return models.Transaction{}, err
	}
	t, err := s.store.UpdateTransaction(id, t)
	if err != nil {
		return models.Transaction{}, err
	}
	s.commit("transaction updated", logrus.Fields{"id": id})
	return t, nil
}

func validateTransaction(t *models.Transaction) error {
	t.Description = strings.TrimSpace(t.Description)
	if t.Description == "" {
		return invalid("description is required")
	}
	if !t.Type.Valid() {
		return invalid("type must be income or expense")
	}
	if err := validateAmount(t.Amount); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return invalid("date is required")
	}
	return nil
}

func validateAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return invalid("amount must not be negative")
	}
	return nil
}

// ---------- categories ----------

func (s *Service) AddCategory(c models.Category) (models.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return models.Category{}, invalid("category name is required")
	}
	if !c.Type.Valid() {
		return models.Category{}, invalid("type must be income or expense")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c = s.store.AddCategory(c)
	s.commit("category added", logrus.Fields{"id": c.ID, "name": c.Name})
	return c, nil
}

// ---------- clients ----------

func (s *Service) AddClient(c models.Client) (models.Client, error) {
	if err := validateClient(&c); err != nil {
		return models.Client{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c = s.store.AddClient(c)
	s.commit("client added", logrus.Fields{"id": c.ID})
	return c, nil
}

func (s *Service) UpdateClient(id models.ID, c models.Client) (models.Client, error) {
	if err := validateClient(&c); err != nil {
		return models.Client{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.store.UpdateClient(id, c)
	if err != nil {
		return models.Client{}, err
	}
	s.commit("client updated", logrus.Fields{"id": id})
	return c, nil
}

func validateClient(c *models.Client) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return invalid("client name is required")
	}
	if c.Type == "" {
		c.Type = models.ClientPersonal
	}
	if !c.Type.Valid() {
		return invalid("unknown client type %q", c.Type)
	}
	return nil
}

// ---------- quotes ----------

func (s *Service) AddQuote(q models.Quote) (models.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.validateQuote(&q); err != nil {
		return models.Quote{}, err
	}
	q = s.store.AddQuote(q)
	s.commit("quote added", logrus.Fields{"id": q.ID, "number": q.Number})
	return q, nil
}

func (s *Service) UpdateQuote(id models.ID, q models.Quote) (models.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.validateQuote(&q); err != nil {
		return models.Quote{}, err
	}
	q, err := s.store.UpdateQuote(id, q)
	if err != nil {
		return models.Quote{}, err
	}
	s.commit("quote updated", logrus.Fields{"id": id})
	return q, nil
}

func (s *Service) validateQuote(q *models.Quote) error {
	q.Number = strings.TrimSpace(q.Number)
	if q.Number == "" {
		return invalid("quote number is required")
	}
	if q.Client == 0 {
		return invalid("client is required")
	}
	if err := validateAmount(q.Amount); err != nil {
		return err
	}
	if q.Status == "" {
		q.Status = models.QuotePending
	}
	if !q.Status.Valid() {
		return invalid("unknown quote status %q", q.Status)
	}
	if q.Date.IsZero() {
		return invalid("date is required")
	}
	if !q.Expiry.IsZero() && q.Expiry.Before(q.Date.Time) {
		return invalid("expiry is before the quote date")
	}
	return nil
}

// ---------- employees ----------

func (s *Service) AddEmployee(e models.Employee) (models.Employee, error) {
	if err := validateEmployee(&e); err != nil {
		return models.Employee{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e = s.store.AddEmployee(e)
	s.commit("employee added", logrus.Fields{"id": e.ID})
	return e, nil
}

func (s *Service) UpdateEmployee(id models.ID, e models.Employee) (models.Employee, error) {
	if err := validateEmployee(&e); err != nil {
		return models.Employee{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.store.UpdateEmployee(id, e)
	if err != nil {
		return models.Employee{}, err
	}
	s.commit("employee updated", logrus.Fields{"id": id})
	return e, nil
}

func validateEmployee(e *models.Employee) error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return invalid("employee name is required")
	}
	if e.HourlyRate.IsNegative() {
		return invalid("hourly rate must not be negative")
	}
	if e.Status == "" {
		e.Status = models.EmployeeActive
	}
	if !e.Status.Valid() {
		return invalid("unknown employee status %q", e.Status)
	}
	return nil
}

// ---------- work hours ----------

func (s *Service) LogHours(h models.WorkHour) (models.WorkHour, error) {
	if h.Hours.IsNegative() {
		return models.WorkHour{}, invalid("hours must not be negative")
	}
	if h.Date.IsZero() {
		return models.WorkHour{}, invalid("date is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	logged, err := s.store.AddWorkHour(h)
	if err != nil {
		return models.WorkHour{}, fmt.Errorf("employee %s: %w", h.EmployeeID, err)
	}
	s.commit("hours logged", logrus.Fields{"id": logged.ID, "employee_id": logged.EmployeeID})
	return logged, nil
}

// ---------- settings ----------

func (s *Service) Settings() models.Settings {
	return s.store.Settings()
}

func (s *Service) SaveSettings(settings models.Settings) (models.Settings, error) {
	settings.BusinessName = strings.TrimSpace(settings.BusinessName)
	settings.Currency = strings.ToUpper(strings.TrimSpace(settings.Currency))
	if settings.BusinessName == "" {
		return models.Settings{}, invalid("business name is required")
	}
	if settings.Currency == "" {
		return models.Settings{}, invalid("currency is required")
	}
	if settings.FiscalYear == 0 {
		settings.FiscalYear = s.now().Year()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SaveSettings(settings)
	s.commit("settings saved", logrus.Fields{"currency": settings.Currency})
	return settings, nil
}

// ---------- whole state ----------

// ClearAll wipes every collection. Nothing happens unless confirm is Accepted.
func (s *Service) ClearAll(confirm Confirmation) Confirmation {
	if confirm != Accepted {
		return Declined
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Reset(models.DefaultSettings(ClearedBusinessName, s.defaults.Currency, s.now()))
	s.pending = nil
	s.commit("all data cleared", nil)
	return Accepted
}

// Export returns the whole state stamped with the export time.
func (s *Service) Export() models.Export {
	return models.Export{Snapshot: s.store.Snapshot(), ExportDate: s.now().UTC()}
}

// ExportFileName is the download name for an export taken at t.
func ExportFileName(t time.Time) string {
	return "contabilidad-" + t.Format(models.DateLayout) + ".json"
}

// Import replaces the state with an exported document.
func (s *Service) Import(raw []byte) (models.Snapshot, error) {
	snap, err := s.persist.Decode(raw)
	if err != nil {
		return models.Snapshot{}, invalid("%v", err)
	}
	s.Restore(snap, "data imported")
	return snap, nil
}

// Restore swaps in a complete snapshot and saves it.
func (s *Service) Restore(snap models.Snapshot, action string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Replace(snap)
	s.pending = nil
	s.commit(action, logrus.Fields{"transactions": len(snap.Transactions)})
}
