// README: Fare quote handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi123/internal/metrics"
	"taxi123/internal/modules/invoice"
	"taxi123/internal/types"
)

type FareHandler struct {
	invoice *invoice.Service
}

func NewFareHandler(svc *invoice.Service) *FareHandler {
	return &FareHandler{invoice: svc}
}

type quoteResp struct {
	Subtotal  types.Amount            `json:"subtotal"`
	PickupFee types.Amount            `json:"pickup_fee"`
	Total     types.Amount            `json:"total"`
	Currency  string                  `json:"currency"`
	Breakdown map[string]types.Amount `json:"breakdown"`
}

func (h *FareHandler) Quote(c *gin.Context) {
	var req fareFields
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	form, ok := req.form()
	if !ok {
		writeError(c, http.StatusBadRequest, "at most 4 tarifs")
		return
	}
	res, err := h.invoice.Quote(form)
	if err != nil {
		metrics.FaresQuoted.WithLabelValues("invalid").Inc()
		writeInvoiceError(c, err)
		return
	}
	metrics.FaresQuoted.WithLabelValues("ok").Inc()
	writeJSON(c, http.StatusOK, quoteResp{
		Subtotal:  res.Subtotal,
		PickupFee: res.PickupFee,
		Total:     res.Total,
		Currency:  res.Currency,
		Breakdown: res.Breakdown,
	})
}
