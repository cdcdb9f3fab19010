// README: Invoice store owns the ordered invoice list and rewrites the backend on every change.
package invoice

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"taxi123/internal/metrics"
	"taxi123/internal/types"
)

// Backend persists the whole invoice list at once. Save always replaces
// everything previously stored.
type Backend interface {
	Load(ctx context.Context) ([]Invoice, error)
	Save(ctx context.Context, invoices []Invoice) error
}

type Store struct {
	mu       sync.Mutex
	backend  Backend
	invoices []Invoice
	log      logrus.FieldLogger
}

func NewStore(backend Backend, log logrus.FieldLogger) *Store {
	return &Store{backend: backend, log: log}
}

// Load replaces the in-memory list with the backend contents. Records
// written before invoices carried an ID get one here; it is persisted with
// the next mutation.
func (s *Store) Load(ctx context.Context) error {
	list, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("load invoices: %w", err)
	}
	assigned := 0
	for i := range list {
		if list[i].ID == "" {
			list[i].ID = types.NewID()
			assigned++
		}
	}

	s.mu.Lock()
	s.invoices = list
	s.mu.Unlock()

	metrics.StoreSize.Set(float64(len(list)))
	s.log.WithFields(logrus.Fields{
		"count":        len(list),
		"assigned_ids": assigned,
	}).Debug("invoices loaded")
	return nil
}

// Append adds inv at the end and persists the list. On a failed write the
// in-memory list is left as it was.
func (s *Store) Append(ctx context.Context, inv Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.invoices
	next := make([]Invoice, len(prev), len(prev)+1)
	copy(next, prev)
	next = append(next, inv)

	if err := s.backend.Save(ctx, next); err != nil {
		metrics.StoreMutations.WithLabelValues("append", "error").Inc()
		return fmt.Errorf("save invoices: %w", err)
	}
	s.invoices = next

	metrics.StoreMutations.WithLabelValues("append", "ok").Inc()
	metrics.StoreSize.Set(float64(len(next)))
	s.log.WithFields(logrus.Fields{
		"id":    inv.ID,
		"name":  inv.Name,
		"total": inv.Total.String(),
	}).Info("invoice appended")
	return nil
}

// Remove deletes the invoice with the given ID. A missing ID is a no-op:
// it returns false and storage is not rewritten.
func (s *Store) Remove(ctx context.Context, id types.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, inv := range s.invoices {
		if inv.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		metrics.StoreMutations.WithLabelValues("remove", "missing").Inc()
		return false, nil
	}

	next := make([]Invoice, 0, len(s.invoices)-1)
	next = append(next, s.invoices[:idx]...)
	next = append(next, s.invoices[idx+1:]...)

	if err := s.backend.Save(ctx, next); err != nil {
		metrics.StoreMutations.WithLabelValues("remove", "error").Inc()
		return false, fmt.Errorf("save invoices: %w", err)
	}
	s.invoices = next

	metrics.StoreMutations.WithLabelValues("remove", "ok").Inc()
	metrics.StoreSize.Set(float64(len(next)))
	s.log.WithField("id", id).Info("invoice removed")
	return true, nil
}

// All returns a copy of the list in insertion order.
func (s *Store) All() []Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Invoice, len(s.invoices))
	copy(out, s.invoices)
	return out
}

func (s *Store) Get(id types.ID) (Invoice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.invoices {
		if inv.ID == id {
			return inv, true
		}
	}
	return Invoice{}, false
}

// FindMatching returns every invoice sharing date, name and total. More
// than one result means the structural key alone cannot pick a record.
func (s *Store) FindMatching(date, name string, total types.Amount) []Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Invoice
	for _, inv := range s.invoices {
		if inv.Matches(date, name, total) {
			out = append(out, inv)
		}
	}
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.invoices)
}
