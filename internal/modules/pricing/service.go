// README: Pricing service computes fares from tariff fields.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"taxi123/internal/types"
)

var (
	ErrInvalidInput       = errors.New("invalid numeric input")
	ErrInvalidReservation = errors.New("reservation must be one of 0, 4 or 7")
)

type Service struct {
	currency string
}

func NewService(currency string) *Service {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Service{currency: currency}
}

// Estimate computes subtotal and total for already parsed amounts.
func (s *Service) Estimate(in FareInput) (FareResult, error) {
	res, err := Calculate(in)
	if err != nil {
		return FareResult{}, err
	}
	res.Currency = s.currency
	return res, nil
}

// EstimateForm parses the text fields and computes the fare. Nothing is
// computed unless every field parses.
func (s *Service) EstimateForm(f FareForm) (FareResult, error) {
	in, err := ParseForm(f)
	if err != nil {
		return FareResult{}, err
	}
	return s.Estimate(in)
}

func ParseForm(f FareForm) (FareInput, error) {
	var in FareInput
	for i, raw := range f.Tariffs {
		v, err := parseField(raw)
		if err != nil {
			return FareInput{}, fmt.Errorf("%w: tariff %s %q", ErrInvalidInput, TariffLabels[i], raw)
		}
		in.Tariffs[i] = v
	}
	resa, err := parseField(f.Reservation)
	if err != nil {
		return FareInput{}, fmt.Errorf("%w: reservation %q", ErrInvalidInput, f.Reservation)
	}
	in.Reservation = resa
	extra, err := parseField(f.Extra)
	if err != nil {
		return FareInput{}, fmt.Errorf("%w: extra %q", ErrInvalidInput, f.Extra)
	}
	in.Extra = extra
	return in, nil
}

// Calculate applies subtotal = tariffs + resa, total = subtotal + pickup + extra.
func Calculate(in FareInput) (FareResult, error) {
	for i, t := range in.Tariffs {
		if t.IsNegative() {
			return FareResult{}, fmt.Errorf("%w: tariff %s is negative", ErrInvalidInput, TariffLabels[i])
		}
	}
	if in.Extra.IsNegative() {
		return FareResult{}, fmt.Errorf("%w: extra is negative", ErrInvalidInput)
	}
	if !ValidReservation(in.Reservation) {
		return FareResult{}, fmt.Errorf("%w: got %s", ErrInvalidReservation, in.Reservation)
	}

	breakdown := make(map[string]types.Amount, TariffCount+3)
	for i, t := range in.Tariffs {
		breakdown["tariff_"+strings.ToLower(TariffLabels[i])] = t
	}
	breakdown["reservation"] = in.Reservation
	breakdown["pickup_fee"] = PickupFee
	breakdown["extra"] = in.Extra

	subtotal := types.SumAmounts(in.Tariffs[:]...).Add(in.Reservation)
	return FareResult{
		Subtotal:  subtotal,
		PickupFee: PickupFee,
		Total:     types.SumAmounts(subtotal, PickupFee, in.Extra),
		Currency:  DefaultCurrency,
		Breakdown: breakdown,
	}, nil
}

func ValidReservation(v types.Amount) bool {
	for _, opt := range ReservationOptions {
		if v.Equal(opt) {
			return true
		}
	}
	return false
}

func parseField(raw string) (types.Amount, error) {
	if strings.TrimSpace(raw) == "" {
		return types.Amount{}, nil
	}
	return types.ParseAmount(raw)
}
