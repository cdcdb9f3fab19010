package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	httptransport "taxi123/internal/http"
	"taxi123/internal/infra"
	"taxi123/internal/metrics"
	"taxi123/internal/modules/invoice"
	"taxi123/internal/modules/pricing"
	"taxi123/internal/modules/receipt"
	"taxi123/internal/types"
	"taxi123/migrations"
)

func fareFlags() []cli.Flag {
	flags := make([]cli.Flag, 0, pricing.TariffCount+2)
	for _, label := range pricing.TariffLabels {
		flags = append(flags, &cli.StringFlag{
			Name:  strings.ToLower(label),
			Usage: "tariff " + label + " amount",
		})
	}
	return append(flags,
		&cli.StringFlag{Name: "resa", Usage: "reservation surcharge: 0, 4 or 7"},
		&cli.StringFlag{Name: "extra", Usage: "amount added to the total"},
	)
}

func fareForm(c *cli.Context) pricing.FareForm {
	var f pricing.FareForm
	for i, label := range pricing.TariffLabels {
		f.Tariffs[i] = c.String(strings.ToLower(label))
	}
	f.Reservation = c.String("resa")
	f.Extra = c.String("extra")
	return f
}

func quoteCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "quote",
		Usage: "compute a fare without saving it",
		Flags: fareFlags(),
		Action: func(c *cli.Context) error {
			in, err := pricing.ParseForm(fareForm(c))
			if err != nil {
				return err
			}
			res, err := pricing.NewService(s.cfg.Receipt.Currency).Estimate(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "Sous-total: %s\n", types.Money{Amount: res.Subtotal, Currency: res.Currency})
			fmt.Fprintf(s.out, "Total:      %s\n", types.Money{Amount: res.Total, Currency: res.Currency})
			return nil
		},
	}
}

func saveCommand(s *session) *cli.Command {
	flags := append([]cli.Flag{
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "client name", Required: true},
		&cli.StringFlag{Name: "date", Usage: "ride date DD/MM/YYYY (default today)"},
		&cli.StringFlag{Name: "depart", Usage: "departure time HH:MM"},
		&cli.StringFlag{Name: "arrive", Usage: "arrival time HH:MM"},
		&cli.BoolFlag{Name: "print", Usage: "also write the ticket file"},
	}, fareFlags()...)

	return &cli.Command{
		Name:  "save",
		Usage: "price a ride and store it as an invoice",
		Flags: flags,
		Action: func(c *cli.Context) error {
			svc, err := s.open(c)
			if err != nil {
				return err
			}
			inv, err := svc.Create(c.Context, invoice.CreateCommand{
				Name:          c.String("name"),
				Date:          c.String("date"),
				DepartureTime: c.String("depart"),
				ArrivalTime:   c.String("arrive"),
				Fare:          fareForm(c),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "saved %s  %s  %s  %s\n", inv.ID.Short(), inv.Date, inv.Name, s.money(inv.Total))

			if c.Bool("print") {
				path, err := s.receipts.WriteTicket(s.cfg.Receipt.TicketDir, inv)
				if err != nil {
					return err
				}
				fmt.Fprintln(s.out, "ticket:", path)
			}
			return nil
		},
	}
}

func listCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list stored invoices in insertion order",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print the raw JSON document"},
		},
		Action: func(c *cli.Context) error {
			svc, err := s.open(c)
			if err != nil {
				return err
			}
			list := svc.List()
			if c.Bool("json") {
				return writeJSON(s, list)
			}
			if len(list) == 0 {
				fmt.Fprintln(s.out, "no invoices")
				return nil
			}
			w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tID\tDATE\tCLIENT\tTOTAL")
			for i, inv := range list {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, inv.ID.Short(), inv.Date, inv.Name, s.money(inv.Total))
			}
			return w.Flush()
		},
	}
}

func showCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "print the receipt of one invoice",
		ArgsUsage: "<id|#position>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print the stored record instead"},
		},
		Action: func(c *cli.Context) error {
			inv, err := s.resolve(c)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return writeJSON(s, inv)
			}
			_, err = fmt.Fprint(s.out, s.receipts.Text(inv))
			return err
		},
	}
}

func deleteCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "remove one invoice",
		ArgsUsage: "<id|#position>",
		Action: func(c *cli.Context) error {
			inv, err := s.resolve(c)
			if err != nil {
				return err
			}
			if err := s.invoices.Delete(c.Context, inv.ID); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "deleted %s  %s  %s\n", inv.ID.Short(), inv.Date, inv.Name)
			return nil
		},
	}
}

func exportCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "write the receipt to facture_<client>.txt or .pdf",
		ArgsUsage: "<id|#position>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: string(receipt.FormatText), Usage: "txt or pdf"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "target directory (overrides TAXI_EXPORT_DIR)"},
		},
		Action: func(c *cli.Context) error {
			format, ok := receipt.ParseFormat(strings.ToLower(c.String("format")))
			if !ok {
				return fmt.Errorf("unknown format %q", c.String("format"))
			}
			inv, err := s.resolve(c)
			if err != nil {
				return err
			}
			dir := c.String("out")
			if dir == "" {
				dir = s.cfg.Receipt.ExportDir
			}
			path, err := s.receipts.Export(dir, inv, format)
			if err != nil {
				return err
			}
			fmt.Fprintln(s.out, path)
			return nil
		},
	}
}

func printCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:      "print",
		Usage:     "write the receipt to the ticket file for printing",
		ArgsUsage: "<id|#position>",
		Action: func(c *cli.Context) error {
			inv, err := s.resolve(c)
			if err != nil {
				return err
			}
			path, err := s.receipts.WriteTicket(s.cfg.Receipt.TicketDir, inv)
			if err != nil {
				return err
			}
			fmt.Fprintln(s.out, path)
			return nil
		},
	}
}

func serveCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address (overrides TAXI_HTTP_ADDR)"},
		},
		Action: func(c *cli.Context) error {
			svc, err := s.open(c)
			if err != nil {
				return err
			}
			metrics.Register()
			if !s.log.IsLevelEnabled(logrus.DebugLevel) {
				gin.SetMode(gin.ReleaseMode)
			}

			addr := c.String("addr")
			if addr == "" {
				addr = s.cfg.HTTP.Addr
			}
			router := httptransport.NewRouter(httptransport.RouterDeps{
				Invoice:  svc,
				Receipts: s.receipts,
				Log:      s.log,
				Token:    s.cfg.HTTP.Token,
			})
			return httptransport.NewServer(addr, router, s.log).Run(c.Context)
		},
	}
}

func migrateCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create the invoices table in Postgres",
		Action: func(c *cli.Context) error {
			db, err := infra.NewDB(c.Context, s.cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := migrations.Apply(c.Context, db); err != nil {
				return err
			}
			names, err := migrations.Names()
			if err != nil {
				return err
			}
			s.log.WithField("files", names).Info("migrations applied")
			return nil
		},
	}
}

var errNoSelector = errors.New("an invoice ID or list position is required")

func (s *session) resolve(c *cli.Context) (invoice.Invoice, error) {
	if c.NArg() == 0 {
		return invoice.Invoice{}, errNoSelector
	}
	svc, err := s.open(c)
	if err != nil {
		return invoice.Invoice{}, err
	}
	return svc.Resolve(c.Args().First())
}

func (s *session) money(a types.Amount) types.Money {
	return types.Money{Amount: a, Currency: s.cfg.Receipt.Currency}
}

func writeJSON(s *session, v any) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}
