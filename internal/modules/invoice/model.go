// README: Invoice record and its JSON document encoding.
package invoice

import (
	"bytes"
	"encoding/json"
	"time"

	"taxi123/internal/modules/pricing"
	"taxi123/internal/types"
)

const (
	DateLayout = "02/01/2006"
	TimeLayout = "15:04"
)

// Invoice is one completed fare. It is never edited once stored.
type Invoice struct {
	ID            types.ID                          `json:"id"`
	Date          string                            `json:"date"`
	Name          string                            `json:"name"`
	DepartureTime string                            `json:"departure_time"`
	ArrivalTime   string                            `json:"arrival_time"`
	Total         types.Amount                      `json:"total"`
	Tariffs       [pricing.TariffCount]types.Amount `json:"tarifs"`
	Reservation   types.Amount                      `json:"resa"`
	Extra         types.Amount                      `json:"extra"`
	CreatedAt     time.Time                         `json:"created_at,omitzero"`
}

// Matches reports the legacy structural identity: same date, name and total.
func (inv Invoice) Matches(date, name string, total types.Amount) bool {
	return inv.Date == date && inv.Name == name && inv.Total.Equal(total)
}

func encodeInvoices(list []Invoice) ([]byte, error) {
	if list == nil {
		list = []Invoice{}
	}
	return json.MarshalIndent(list, "", "    ")
}

func decodeInvoices(b []byte) ([]Invoice, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}
	var list []Invoice
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}
