// README: End-to-end tests for the invoice API over a temp-file store.
package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httptransport "taxi123/internal/http"
	"taxi123/internal/modules/invoice"
	"taxi123/internal/modules/pricing"
	"taxi123/internal/modules/receipt"
)

func buildTestRouter(t *testing.T, token string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := invoice.NewStore(invoice.NewFileBackend(filepath.Join(t.TempDir(), "invoices.json")), log)
	require.NoError(t, store.Load(context.Background()))
	svc := invoice.NewService(store, pricing.NewService(pricing.DefaultCurrency))

	return httptransport.NewRouter(httptransport.RouterDeps{
		Invoice:  svc,
		Receipts: receipt.NewRenderer("", ""),
		Log:      log,
		Token:    token,
	})
}

func doRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := buildTestRouter(t, "")
	w := doRequest(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestQuote(t *testing.T) {
	r := buildTestRouter(t, "")
	w := doRequest(r, http.MethodPost, "/api/fares/quote", map[string]any{
		"tarifs": []any{10, "20", 0, 0},
		"resa":   4,
		"extra":  "5",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Subtotal json.Number `json:"subtotal"`
		Total    json.Number `json:"total"`
		Currency string      `json:"currency"`
	}
	dec := json.NewDecoder(w.Body)
	dec.UseNumber()
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "34.00", resp.Subtotal.String())
	assert.Equal(t, "42.70", resp.Total.String())
	assert.Equal(t, "MAD", resp.Currency)
}

func TestQuoteInvalid(t *testing.T) {
	r := buildTestRouter(t, "")

	w := doRequest(r, http.MethodPost, "/api/fares/quote", map[string]any{"tarifs": []any{"dix"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid numeric input")

	w = doRequest(r, http.MethodPost, "/api/fares/quote", map[string]any{"resa": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodPost, "/api/fares/quote", map[string]any{"tarifs": []any{1, 2, 3, 4, 5}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuoteRejectsOutOfRangeAmounts(t *testing.T) {
	r := buildTestRouter(t, "")

	for _, v := range []string{"1e2000000000", "0.005"} {
		start := time.Now()
		w := doRequest(r, http.MethodPost, "/api/fares/quote", map[string]any{"tarifs": []any{v}})
		assert.Equal(t, http.StatusBadRequest, w.Code, v)
		assert.Less(t, time.Since(start), time.Second, v)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/fares/quote", strings.NewReader(`{"extra":"`+strings.Repeat("9", 1<<20)+`"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestInvoiceLifecycle(t *testing.T) {
	r := buildTestRouter(t, "")

	w := doRequest(r, http.MethodPost, "/api/invoices", map[string]any{
		"name":           "Karim Alami",
		"date":           "12/03/2025",
		"departure_time": "08:15",
		"arrival_time":   "08:40",
		"tarifs":         []any{10, 20, 0, 0},
		"resa":           4,
		"extra":          5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created invoice.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "42.70", created.Total.String())

	w = doRequest(r, http.MethodGet, "/api/invoices", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Invoices []invoice.Invoice `json:"invoices"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Invoices, 1)
	assert.Equal(t, created.ID, list.Invoices[0].ID)

	w = doRequest(r, http.MethodGet, "/api/invoices/"+string(created.ID)+"/receipt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "facture_Karim_Alami.txt")
	assert.Contains(t, w.Body.String(), "Total TTC:           42.70 MAD")

	w = doRequest(r, http.MethodGet, "/api/invoices/"+string(created.ID)+"/receipt?format=pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))

	w = doRequest(r, http.MethodGet, "/api/invoices/"+string(created.ID)+"/receipt?format=docx", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodDelete, "/api/invoices/"+string(created.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/invoices/"+string(created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodDelete, "/api/invoices/"+string(created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateInvoiceValidation(t *testing.T) {
	r := buildTestRouter(t, "")

	w := doRequest(r, http.MethodPost, "/api/invoices", map[string]any{"name": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "client name is required")

	w = doRequest(r, http.MethodPost, "/api/invoices", map[string]any{"name": "A", "departure_time": "24:00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIRequiresTokenWhenConfigured(t *testing.T) {
	r := buildTestRouter(t, "s3cret")

	w := doRequest(r, http.MethodGet, "/api/invoices", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Health stays open for probes.
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/health", nil).Code)
}
