package service

import (
	"errors"
	"fmt"

	"bookkeeping/internal/models"
	"bookkeeping/internal/store"

	"github.com/sirupsen/logrus"
)

// Confirmation is the answer to a destructive action.
type Confirmation int

const (
	Declined Confirmation = iota
	Accepted
)

func (c Confirmation) String() string {
	if c == Accepted {
		return "accepted"
	}
	return "declined"
}

// Confirmed maps a boolean flag, e.g. ?confirm=true.
func Confirmed(ok bool) Confirmation {
	if ok {
		return Accepted
	}
	return Declined
}

// DeleteResult reports what a delete did.
type DeleteResult struct {
	Confirmation Confirmation `json:"-"`
	Result       string       `json:"result"`
	Removed      bool         `json:"removed"`
	Cascaded     int          `json:"cascaded"`
}

func declined() DeleteResult {
	return DeleteResult{Confirmation: Declined, Result: Declined.String()}
}

func accepted(removed bool, cascaded int) DeleteResult {
	return DeleteResult{Confirmation: Accepted, Result: Accepted.String(), Removed: removed, Cascaded: cascaded}
}

// DeleteClient removes a client and its quotes.
func (s *Service) DeleteClient(id models.ID, confirm Confirmation) DeleteResult {
	if confirm != Accepted {
		return declined()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed, quotes := s.store.DeleteClient(id)
	s.commit("client deleted", logrus.Fields{"id": id, "quotes_removed": quotes})
	return accepted(removed, quotes)
}

// DeleteEmployee removes an employee and the hours logged for them.
func (s *Service) DeleteEmployee(id models.ID, confirm Confirmation) DeleteResult {
	if confirm != Accepted {
		return declined()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed, hours := s.store.DeleteEmployee(id)
	s.commit("employee deleted", logrus.Fields{"id": id, "hours_removed": hours})
	return accepted(removed, hours)
}

// DeleteCategory removes a category; its transactions lose the reference.
func (s *Service) DeleteCategory(id models.ID, confirm Confirmation) DeleteResult {
	if confirm != Accepted {
		return declined()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed, orphaned := s.store.DeleteCategory(id)
	s.commit("category deleted", logrus.Fields{"id": id, "orphaned": orphaned})
	return accepted(removed, orphaned)
}

func (s *Service) DeleteWorkHour(id models.ID, confirm Confirmation) DeleteResult {
	if confirm != Accepted {
		return declined()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.store.DeleteWorkHour(id)
	s.commit("work hour deleted", logrus.Fields{"id": id})
	return accepted(removed, 0)
}

// ---------- staged deletes ----------

// ErrNothingPending is returned when confirming or cancelling with no staged delete.
var ErrNothingPending = errors.New("no delete pending")

type DeleteKind string

const (
	KindTransaction DeleteKind = "transaction"
	KindQuote       DeleteKind = "quote"
)

// PendingDelete is a delete waiting for confirmation. Only one can be staged
// at a time; staging another replaces it.
type PendingDelete struct {
	Kind  DeleteKind `json:"kind"`
	ID    models.ID  `json:"id"`
	Label string     `json:"label"`
}

// StageDelete records the target of a transaction or quote delete.
func (s *Service) StageDelete(kind DeleteKind, id models.ID) (PendingDelete, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := PendingDelete{Kind: kind, ID: id}
	switch kind {
	case KindTransaction:
		t, ok := s.store.Transaction(id)
		if !ok {
			return PendingDelete{}, store.ErrNotFound
		}
		p.Label = t.Description
	case KindQuote:
		q, ok := s.store.Quote(id)
		if !ok {
			return PendingDelete{}, store.ErrNotFound
		}
		p.Label = q.Number
	default:
		return PendingDelete{}, invalid("cannot stage a %q delete", kind)
	}
	s.pending = &p
	return p, nil
}

func (s *Service) Pending() (PendingDelete, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return PendingDelete{}, false
	}
	return *s.pending, true
}

// ConfirmPending performs the staged delete and clears the slot.
func (s *Service) ConfirmPending() (PendingDelete, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return PendingDelete{}, ErrNothingPending
	}
	p := *s.pending
	s.pending = nil

	var removed bool
	switch p.Kind {
	case KindTransaction:
		removed = s.store.DeleteTransaction(p.ID)
	case KindQuote:
		removed = s.store.DeleteQuote(p.ID)
	default:
		return PendingDelete{}, fmt.Errorf("unknown delete kind %q", p.Kind)
	}
	s.commit(string(p.Kind)+" deleted", logrus.Fields{"id": p.ID, "removed": removed})
	return p, nil
}

// CancelPending discards the staged delete.
func (s *Service) CancelPending() (PendingDelete, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return PendingDelete{}, ErrNothingPending
	}
	p := *s.pending
	s.pending = nil
	return p, nil
}
