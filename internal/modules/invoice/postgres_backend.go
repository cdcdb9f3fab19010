package invoice

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"taxi123/internal/types"
)

// PostgresBackend keeps one row per invoice; position preserves list order.
type PostgresBackend struct {
	db *pgxpool.Pool
}

func NewPostgresBackend(db *pgxpool.Pool) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) Load(ctx context.Context) ([]Invoice, error) {
	rows, err := b.db.Query(ctx, `
        SELECT id, date, name, departure_time, arrival_time,
               tariff_a::text, tariff_b::text, tariff_c::text, tariff_d::text,
               reservation::text, extra::text, total::text, created_at
        FROM invoices
        ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		var inv Invoice
		var id string
		var amounts [7]string
		var createdAt sql.NullTime
		if err := rows.Scan(
			&id, &inv.Date, &inv.Name, &inv.DepartureTime, &inv.ArrivalTime,
			&amounts[0], &amounts[1], &amounts[2], &amounts[3],
			&amounts[4], &amounts[5], &amounts[6], &createdAt,
		); err != nil {
			return nil, err
		}
		inv.ID = types.ID(id)
		parsed, err := parseAmounts(amounts[:])
		if err != nil {
			return nil, fmt.Errorf("invoice %s: %w", id, err)
		}
		copy(inv.Tariffs[:], parsed[:4])
		inv.Reservation = parsed[4]
		inv.Extra = parsed[5]
		inv.Total = parsed[6]
		if createdAt.Valid {
			inv.CreatedAt = createdAt.Time
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// Save replaces the table contents inside one transaction.
func (b *PostgresBackend) Save(ctx context.Context, invoices []Invoice) error {
	tx, err := b.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM invoices`); err != nil {
		return err
	}
	for i, inv := range invoices {
		_, err := tx.Exec(ctx, `
            INSERT INTO invoices (
                id, position, date, name, departure_time, arrival_time,
                tariff_a, tariff_b, tariff_c, tariff_d,
                reservation, extra, total, created_at
            ) VALUES (
                $1, $2, $3, $4, $5, $6,
                $7, $8, $9, $10,
                $11, $12, $13, $14
            )`,
			string(inv.ID), i, inv.Date, inv.Name, inv.DepartureTime, inv.ArrivalTime,
			inv.Tariffs[0].String(), inv.Tariffs[1].String(), inv.Tariffs[2].String(), inv.Tariffs[3].String(),
			inv.Reservation.String(), inv.Extra.String(), inv.Total.String(),
			toNullTime(inv),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func parseAmounts(raw []string) ([]types.Amount, error) {
	out := make([]types.Amount, len(raw))
	for i, r := range raw {
		a, err := types.ParseAmount(r)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

func toNullTime(inv Invoice) sql.NullTime {
	if inv.CreatedAt.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: inv.CreatedAt, Valid: true}
}
