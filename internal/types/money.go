// README: Common money value objects used across modules.
package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// maxIntegerDigits matches the numeric(12,2) columns.
	maxIntegerDigits = 10
	// maxScale bounds how many fraction digits a stored document may carry
	// before they are rounded away.
	maxScale         = 12
)

var (
	ErrAmountRange     = errors.New("amount out of range")
	ErrAmountPrecision = errors.New("amount has more than 2 decimals")
)

// Amount is a currency amount kept to two fraction digits.
// It encodes as a bare JSON number (42.70), not a quoted string.
type Amount struct {
	d decimal.Decimal
}

func NewAmount(v float64) Amount {
	return Amount{d: decimal.NewFromFloat(v).Round(2)}
}

// ParseAmount parses decimal text such as "12", "12.5" or " 3.70 ".
// Values with sub-cent digits are rejected rather than rounded.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}, err
	}
	if err := checkBounds(d); err != nil {
		return Amount{}, err
	}
	if !d.Equal(d.Round(2)) {
		return Amount{}, fmt.Errorf("%w: %s", ErrAmountPrecision, d)
	}
	return Amount{d: d.Round(2)}, nil
}

// checkBounds runs before any Round: rescaling a huge exponent is what
// makes Round expensive.
func checkBounds(d decimal.Decimal) error {
	exp := int64(d.Exponent())
	if exp < -maxScale || exp > maxIntegerDigits {
		return ErrAmountRange
	}
	if int64(d.NumDigits())+exp > maxIntegerDigits {
		return ErrAmountRange
	}
	return nil
}

func SumAmounts(vs ...Amount) Amount {
	sum := decimal.Zero
	for _, v := range vs {
		sum = sum.Add(v.d)
	}
	return Amount{d: sum}
}

func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

func (a Amount) Sub(b Amount) Amount {
	return Amount{d: a.d.Sub(b.d)}
}

// Percent returns p percent of a, rounded half away from zero.
func (a Amount) Percent(p int64) Amount {
	return Amount{d: a.d.Mul(decimal.NewFromInt(p)).Div(decimal.NewFromInt(100)).Round(2)}
}

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

func (a Amount) IsNegative() bool { return a.d.IsNegative() }

func (a Amount) IsZero() bool { return a.d.IsZero() }

func (a Amount) String() string { return a.d.StringFixed(2) }

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.StringFixed(2)), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		a.d = decimal.Zero
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	if err := checkBounds(d); err != nil {
		return err
	}
	a.d = d.Round(2)
	return nil
}

type Money struct {
	Amount   Amount
	Currency string
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount, m.Currency)
}
