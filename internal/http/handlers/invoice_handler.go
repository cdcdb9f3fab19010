// README: Invoice handlers for list/create/get/delete and receipt download.
package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taxi123/internal/modules/invoice"
	"taxi123/internal/modules/receipt"
	"taxi123/internal/types"
)

type InvoiceHandler struct {
	invoice  *invoice.Service
	receipts *receipt.Renderer
}

func NewInvoiceHandler(svc *invoice.Service, receipts *receipt.Renderer) *InvoiceHandler {
	return &InvoiceHandler{invoice: svc, receipts: receipts}
}

type createInvoiceReq struct {
	Name          string `json:"name"`
	Date          string `json:"date"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	fareFields
}

func (h *InvoiceHandler) List(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"invoices": h.invoice.List()})
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	var req createInvoiceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	form, ok := req.form()
	if !ok {
		writeError(c, http.StatusBadRequest, "at most 4 tarifs")
		return
	}
	inv, err := h.invoice.Create(c.Request.Context(), invoice.CreateCommand{
		Name:          req.Name,
		Date:          req.Date,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Fare:          form,
	})
	if err != nil {
		writeInvoiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, inv)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	inv, err := h.invoice.Get(types.ID(c.Param("id")))
	if err != nil {
		writeInvoiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, inv)
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.invoice.Delete(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeInvoiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "deleted"})
}

func (h *InvoiceHandler) Receipt(c *gin.Context) {
	inv, err := h.invoice.Get(types.ID(c.Param("id")))
	if err != nil {
		writeInvoiceError(c, err)
		return
	}
	format, ok := receipt.ParseFormat(strings.ToLower(c.Query("format")))
	if !ok {
		writeError(c, http.StatusBadRequest, "format must be txt or pdf")
		return
	}

	disposition := `attachment; filename="` + receipt.FileName(inv, format) + `"`
	if format == receipt.FormatPDF {
		var buf bytes.Buffer
		if err := h.receipts.PDF(&buf, inv); err != nil {
			writeInvoiceError(c, err)
			return
		}
		c.Header("Content-Disposition", disposition)
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
		return
	}
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(h.receipts.Text(inv)))
}
