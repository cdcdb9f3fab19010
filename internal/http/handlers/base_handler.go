// README: Base handler utilities (JSON helpers, error mapping, form values).
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi123/internal/modules/invoice"
	"taxi123/internal/modules/pricing"
)

type errorResponse struct {
	Error string `json:"error"`
}

// formValue accepts a JSON string or number and keeps its text, so the
// fare parser sees exactly what the client sent.
type formValue string

func (v *formValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = formValue(s)
		return nil
	}
	*v = formValue(b)
	return nil
}

type fareFields struct {
	Tariffs     []formValue `json:"tarifs"`
	Reservation formValue   `json:"resa"`
	Extra       formValue   `json:"extra"`
}

func (f fareFields) form() (pricing.FareForm, bool) {
	var out pricing.FareForm
	if len(f.Tariffs) > pricing.TariffCount {
		return out, false
	}
	for i, t := range f.Tariffs {
		out.Tariffs[i] = string(t)
	}
	out.Reservation = string(f.Reservation)
	out.Extra = string(f.Extra)
	return out, true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeInvoiceError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, invoice.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, invoice.ErrMissingName),
		errors.Is(err, invoice.ErrInvalidTime),
		errors.Is(err, invoice.ErrInvalidDate),
		errors.Is(err, pricing.ErrInvalidInput),
		errors.Is(err, pricing.ErrInvalidReservation):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
