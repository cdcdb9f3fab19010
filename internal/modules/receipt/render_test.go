package receipt

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxi123/internal/modules/invoice"
	"taxi123/internal/types"
)

func TestRendererText(t *testing.T) {
	r := NewRenderer("", "")
	text := r.Text(sample())

	want := `
        BENATSOU YAZID

Date course:        12/03/2025          

Heure départ:            08:15               
Heure d'arrivée:         08:40               

******************************
Tarif(s) appliqué(s)

Tarif A (km):        10.00 MAD
Tarif B (km):        20.00 MAD
Tarif C (km):         0.00 MAD
Tarif D (km):         0.00 MAD

RESA:                 4.00 MAD
Prise en charge:      3.70 MAD
Ajouter au total:     5.00 MAD

Total TTC:           42.70 MAD
TVA (10%):            4.27 MAD
Sous-total HT:       38.43 MAD
******************************
Nom du client:          Karim Alami         
******************************

    Exemplaire chauffeur
`
	assert.Equal(t, want, text)
}

func TestRendererUsesInvoiceSurcharges(t *testing.T) {
	inv := sample()
	inv.Reservation = types.NewAmount(7)
	inv.Extra = types.NewAmount(12.5)

	text := NewRenderer("TAXI 123", "EUR").Text(inv)
	assert.Contains(t, text, "        TAXI 123\n")
	assert.Contains(t, text, "RESA:                 7.00 EUR\n")
	assert.Contains(t, text, "Ajouter au total:    12.50 EUR\n")
}

func TestRendererVATAndNetAddUpToTotal(t *testing.T) {
	inv := sample()
	inv.Total = types.NewAmount(42.75)

	text := NewRenderer("", "").Text(inv)
	// 10% of 42.75 is 4.275; the net line takes the remainder.
	assert.Contains(t, text, "TVA (10%):            4.28 MAD\n")
	assert.Contains(t, text, "Sous-total HT:       38.47 MAD\n")
}

func TestRendererPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer("", "").PDF(&buf, sample()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "not a PDF document")
}

func TestExportText(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer("", "")

	path, err := r.Export(dir, sample(), FormatText)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "facture_Karim_Alami.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, r.Text(sample()), string(data))
}

func TestExportPDF(t *testing.T) {
	dir := t.TempDir()
	path, err := NewRenderer("", "").Export(dir, sample(), FormatPDF)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "facture_Karim_Alami.pdf"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestWriteTicket(t *testing.T) {
	dir := t.TempDir()
	path, err := NewRenderer("", "").WriteTicket(dir, sample())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, TicketName), path)
}

func TestFileNameStripsSeparators(t *testing.T) {
	inv := sample()
	inv.Name = " ../etc/Jean Dupont "
	assert.Equal(t, "facture_.._etc_Jean_Dupont.txt", FileName(inv, FormatText))
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("")
	assert.True(t, ok)
	assert.Equal(t, FormatText, f)

	f, ok = ParseFormat("pdf")
	assert.True(t, ok)
	assert.Equal(t, FormatPDF, f)

	_, ok = ParseFormat("docx")
	assert.False(t, ok)
}

func sample() invoice.Invoice {
	return invoice.Invoice{
		ID:            types.ID("5f1c7a52-0d3e-4b8e-9a55-3c9f0f2d7e11"),
		Date:          "12/03/2025",
		Name:          "Karim Alami",
		DepartureTime: "08:15",
		ArrivalTime:   "08:40",
		Tariffs:       [4]types.Amount{types.NewAmount(10), types.NewAmount(20), types.NewAmount(0), types.NewAmount(0)},
		Reservation:   types.NewAmount(4),
		Extra:         types.NewAmount(5),
		Total:         types.NewAmount(42.70),
	}
}
