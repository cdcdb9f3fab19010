package receipt

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"taxi123/internal/modules/invoice"
)

// FileName builds facture_<client>.<ext>, spaces replaced by underscores.
func FileName(inv invoice.Invoice, f Format) string {
	name := strings.NewReplacer(" ", "_", "/", "_", `\`, "_").Replace(strings.TrimSpace(inv.Name))
	return filePrefix + name + "." + string(f)
}

// Export writes the receipt into dir and returns the file path.
func (r *Renderer) Export(dir string, inv invoice.Invoice, f Format) (string, error) {
	var buf bytes.Buffer
	switch f {
	case FormatPDF:
		if err := r.PDF(&buf, inv); err != nil {
			return "", err
		}
	default:
		f = FormatText
		buf.WriteString(r.Text(inv))
	}

	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(inv, f))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// WriteTicket writes the text receipt to ticket.txt in dir, or in the OS
// temp dir when dir is empty. Sending it to a printer is left to the OS.
func (r *Renderer) WriteTicket(dir string, inv invoice.Invoice) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, TicketName)
	if err := os.WriteFile(path, []byte(r.Text(inv)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
