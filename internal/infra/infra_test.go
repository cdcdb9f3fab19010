package infra

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxi123/internal/config"
	"taxi123/internal/modules/invoice"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "debug", "json")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("id", "abc").Info("hello")
	assert.Contains(t, buf.String(), `"id":"abc"`)

	assert.Equal(t, logrus.InfoLevel, NewLogger(io.Discard, "loud", "text").GetLevel())
}

func TestOpenInvoiceBackendFile(t *testing.T) {
	var cfg config.Config
	cfg.Store.Backend = config.StoreFile
	cfg.Store.File = filepath.Join(t.TempDir(), "invoices.json")

	backend, closeFn, err := OpenInvoiceBackend(context.Background(), cfg, NewLogger(io.Discard, "info", "text"))
	require.NoError(t, err)
	defer closeFn()

	fb, ok := backend.(*invoice.FileBackend)
	require.True(t, ok)
	assert.Equal(t, cfg.Store.File, fb.Path())
}

func TestOpenInvoiceBackendUnknown(t *testing.T) {
	var cfg config.Config
	cfg.Store.Backend = "mongo"
	_, _, err := OpenInvoiceBackend(context.Background(), cfg, NewLogger(io.Discard, "info", "text"))
	assert.Error(t, err)
}
