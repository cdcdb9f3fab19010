// README: Receipt layout constants and export formats.
package receipt

const (
	DefaultHeader = "BENATSOU YAZID"
	Footer        = "Exemplaire chauffeur"
	TicketName    = "ticket.txt"

	VATPercent = 10

	separator   = "******************************"
	amountWidth = 10
	filePrefix  = "facture_"
)

type Format string

const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
)

func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, true
	case FormatPDF:
		return FormatPDF, true
	}
	return "", false
}
