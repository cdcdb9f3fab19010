// README: Fare inputs and results for the four-tariff taxi meter.
package pricing

import "taxi123/internal/types"

const (
	DefaultCurrency = "MAD"
	TariffCount     = 4
)

// PickupFee is the fixed "prise en charge" added to every fare.
var PickupFee = types.NewAmount(3.70)

// ReservationOptions are the only RESA surcharges the meter offers.
var ReservationOptions = []types.Amount{
	types.NewAmount(0),
	types.NewAmount(4),
	types.NewAmount(7),
}

// TariffLabels name the tariff slots in display order.
var TariffLabels = [TariffCount]string{"A", "B", "C", "D"}

// FareForm is the raw text as typed by the driver. Empty fields count as zero.
type FareForm struct {
	Tariffs     [TariffCount]string
	Reservation string
	Extra       string
}

type FareInput struct {
	Tariffs     [TariffCount]types.Amount
	Reservation types.Amount
	Extra       types.Amount
}

type FareResult struct {
	Subtotal  types.Amount
	PickupFee types.Amount
	Total     types.Amount
	Currency  string
	Breakdown map[string]types.Amount
}
