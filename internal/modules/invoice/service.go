// README: Invoice service validates form input, prices the ride and stores the invoice.
package invoice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"taxi123/internal/modules/pricing"
	"taxi123/internal/types"
)

var (
	ErrNotFound    = errors.New("invoice not found")
	ErrMissingName = errors.New("client name is required")
	ErrInvalidTime = errors.New("time must be HH:MM")
	ErrInvalidDate = errors.New("date must be DD/MM/YYYY")
)

type Pricing interface {
	Estimate(in pricing.FareInput) (pricing.FareResult, error)
}

type Service struct {
	store   *Store
	pricing Pricing
	now     func() time.Time
}

func NewService(store *Store, pricing Pricing) *Service {
	return &Service{store: store, pricing: pricing, now: time.Now}
}

type CreateCommand struct {
	Name          string
	Date          string
	DepartureTime string
	ArrivalTime   string
	Fare          pricing.FareForm
}

func (s *Service) Quote(f pricing.FareForm) (pricing.FareResult, error) {
	in, err := pricing.ParseForm(f)
	if err != nil {
		return pricing.FareResult{}, err
	}
	return s.pricing.Estimate(in)
}

// Create prices the ride and appends the invoice. Blank date defaults to
// today, blank times to 00:00.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (Invoice, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return Invoice{}, ErrMissingName
	}
	now := s.now()

	date, err := normalizeDate(cmd.Date, now)
	if err != nil {
		return Invoice{}, err
	}
	dep, err := normalizeTime(cmd.DepartureTime)
	if err != nil {
		return Invoice{}, fmt.Errorf("departure: %w", err)
	}
	arr, err := normalizeTime(cmd.ArrivalTime)
	if err != nil {
		return Invoice{}, fmt.Errorf("arrival: %w", err)
	}

	in, err := pricing.ParseForm(cmd.Fare)
	if err != nil {
		return Invoice{}, err
	}
	fare, err := s.pricing.Estimate(in)
	if err != nil {
		return Invoice{}, err
	}

	inv := Invoice{
		ID:            types.NewID(),
		Date:          date,
		Name:          name,
		DepartureTime: dep,
		ArrivalTime:   arr,
		Total:         fare.Total,
		Tariffs:       in.Tariffs,
		Reservation:   in.Reservation,
		Extra:         in.Extra,
		CreatedAt:     now.UTC().Truncate(time.Second),
	}
	if err := s.store.Append(ctx, inv); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

func (s *Service) List() []Invoice {
	return s.store.All()
}

func (s *Service) Get(id types.ID) (Invoice, error) {
	inv, ok := s.store.Get(id)
	if !ok {
		return Invoice{}, ErrNotFound
	}
	return inv, nil
}

// Resolve picks an invoice by ID, by a unique ID prefix, or by its 1-based
// position in List. Positions are written "#N"; a bare number shorter than a
// listed short ID is also read as a position. Anything else is matched
// against IDs first, so an all-digit short ID still finds its invoice.
func (s *Service) Resolve(selector string) (Invoice, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return Invoice{}, ErrNotFound
	}
	list := s.store.All()

	if pos, ok := strings.CutPrefix(selector, "#"); ok {
		return atPosition(list, pos)
	}
	if len(selector) < types.ShortIDLen && isDigits(selector) {
		return atPosition(list, selector)
	}

	var match *Invoice
	for i := range list {
		id := string(list[i].ID)
		if id == selector {
			return list[i], nil
		}
		if strings.HasPrefix(id, selector) {
			if match != nil {
				return Invoice{}, fmt.Errorf("%w: %q is ambiguous", ErrNotFound, selector)
			}
			match = &list[i]
		}
	}
	if match == nil {
		return Invoice{}, ErrNotFound
	}
	return *match, nil
}

func atPosition(list []Invoice, raw string) (Invoice, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > len(list) {
		return Invoice{}, fmt.Errorf("%w: no invoice at position %s", ErrNotFound, raw)
	}
	return list[n-1], nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func (s *Service) Delete(ctx context.Context, id types.ID) error {
	ok, err := s.store.Remove(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func normalizeDate(raw string, now time.Time) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.Format(DateLayout), nil
	}
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return d.Format(DateLayout), nil
}

func normalizeTime(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "00:00", nil
	}
	t, err := time.Parse(TimeLayout, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}
	return t.Format(TimeLayout), nil
}
