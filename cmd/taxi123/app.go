// README: CLI wiring; config, logger and invoice services are opened lazily per command.
package main

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"taxi123/internal/config"
	"taxi123/internal/infra"
	"taxi123/internal/modules/invoice"
	"taxi123/internal/modules/pricing"
	"taxi123/internal/modules/receipt"
)

type session struct {
	out    io.Writer
	errOut io.Writer

	cfg      config.Config
	log      *logrus.Logger
	invoices *invoice.Service
	receipts *receipt.Renderer
	closers  []func()
}

func newApp(out, errOut io.Writer) *cli.App {
	s := &session{out: out, errOut: errOut}

	return &cli.App{
		Name:      "taxi123",
		Usage:     "taxi fare calculator and invoice book",
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file loaded before TAXI_* variables"},
			&cli.StringFlag{Name: "store", Usage: "invoice backend: file, postgres or redis (overrides TAXI_STORE)"},
			&cli.StringFlag{Name: "file", Usage: "invoice JSON file (overrides TAXI_INVOICE_FILE)"},
		},
		Before: s.setup,
		After: func(*cli.Context) error {
			s.close()
			return nil
		},
		Commands: []*cli.Command{
			quoteCommand(s),
			saveCommand(s),
			listCommand(s),
			showCommand(s),
			deleteCommand(s),
			exportCommand(s),
			printCommand(s),
			serveCommand(s),
			migrateCommand(s),
		},
	}
}

func (s *session) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}
	if v := c.String("store"); v != "" {
		cfg.Store.Backend = v
	}
	if v := c.String("file"); v != "" {
		cfg.Store.File = v
	}
	s.cfg = cfg
	s.log = infra.NewLogger(s.errOut, cfg.Log.Level, cfg.Log.Format)
	s.receipts = receipt.NewRenderer(cfg.Receipt.Header, cfg.Receipt.Currency)
	return nil
}

// open connects the configured backend and loads the invoice list once.
func (s *session) open(c *cli.Context) (*invoice.Service, error) {
	if s.invoices != nil {
		return s.invoices, nil
	}
	backend, closeFn, err := infra.OpenInvoiceBackend(c.Context, s.cfg, s.log)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, closeFn)

	store := invoice.NewStore(backend, s.log)
	if err := store.Load(c.Context); err != nil {
		return nil, err
	}
	s.invoices = invoice.NewService(store, pricing.NewService(s.cfg.Receipt.Currency))
	return s.invoices, nil
}

func (s *session) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
