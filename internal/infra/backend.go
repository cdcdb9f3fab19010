// README: Chooses and opens the configured invoice backend.
package infra

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"taxi123/internal/config"
	"taxi123/internal/modules/invoice"
)

// OpenInvoiceBackend returns the backend selected by cfg.Store.Backend and
// a close func releasing its connections.
func OpenInvoiceBackend(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (invoice.Backend, func(), error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		db, err := NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("backend", "postgres").Debug("invoice backend ready")
		return invoice.NewPostgresBackend(db), db.Close, nil
	case config.StoreRedis:
		client, err := NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, nil, err
		}
		log.WithFields(logrus.Fields{"backend": "redis", "key": cfg.Redis.Key}).Debug("invoice backend ready")
		return invoice.NewRedisBackend(client, cfg.Redis.Key), func() { _ = client.Close() }, nil
	case config.StoreFile, "":
		log.WithFields(logrus.Fields{"backend": "file", "path": cfg.Store.File}).Debug("invoice backend ready")
		return invoice.NewFileBackend(cfg.Store.File), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown invoice backend %q", cfg.Store.Backend)
}
