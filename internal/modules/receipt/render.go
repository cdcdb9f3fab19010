// README: Fixed-width text and PDF rendering of invoice receipts.
package receipt

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"taxi123/internal/modules/invoice"
	"taxi123/internal/modules/pricing"
	"taxi123/internal/types"
)

type Renderer struct {
	header   string
	currency string
}

func NewRenderer(header, currency string) *Renderer {
	if header == "" {
		header = DefaultHeader
	}
	if currency == "" {
		currency = pricing.DefaultCurrency
	}
	return &Renderer{header: header, currency: currency}
}

// Lines returns the receipt body, one entry per printed line.
func (r *Renderer) Lines(inv invoice.Invoice) []string {
	amount := func(label string, v types.Amount) string {
		return fmt.Sprintf("%s%*s %s", label, amountWidth, v.String(), r.currency)
	}

	lines := []string{
		"",
		"        " + r.header,
		"",
		fmt.Sprintf("Date course:        %-20s", inv.Date),
		"",
		fmt.Sprintf("Heure départ:            %-20s", inv.DepartureTime),
		fmt.Sprintf("Heure d'arrivée:         %-20s", inv.ArrivalTime),
		"",
		separator,
		"Tarif(s) appliqué(s)",
		"",
	}
	for i, t := range inv.Tariffs {
		lines = append(lines, amount(fmt.Sprintf("Tarif %s (km):   ", pricing.TariffLabels[i]), t))
	}
	vat := inv.Total.Percent(VATPercent)
	lines = append(lines,
		"",
		amount("RESA:           ", inv.Reservation),
		amount("Prise en charge:", pricing.PickupFee),
		fmt.Sprintf("Ajouter au total:%*s %s", amountWidth-1, inv.Extra.String(), r.currency),
		"",
		amount("Total TTC:      ", inv.Total),
		amount(fmt.Sprintf("TVA (%d%%):      ", VATPercent), vat),
		amount("Sous-total HT:  ", inv.Total.Sub(vat)),
		separator,
		fmt.Sprintf("Nom du client:          %-20s", inv.Name),
		separator,
		"",
		"    "+Footer,
	)
	return lines
}

func (r *Renderer) Text(inv invoice.Invoice) string {
	return strings.Join(r.Lines(inv), "\n") + "\n"
}

// PDF draws the same lines in a monospaced font on an 80mm ticket page.
func (r *Renderer) PDF(w io.Writer, inv invoice.Invoice) error {
	lines := r.Lines(inv)
	const lineHeight = 4.0

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: 80, Ht: 20 + lineHeight*float64(len(lines))},
	})
	pdf.SetTitle("Facture "+inv.Name, true)
	pdf.SetMargins(5, 8, 5)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont("Courier", "", 9)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, line := range lines {
		pdf.CellFormat(0, lineHeight, tr(line), "", 1, "L", false, 0, "")
	}
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
