// README: Postgres and Redis backend tests; skipped unless TAXI_TEST_DSN / TAXI_TEST_REDIS_ADDR are set.
package invoice

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxi123/internal/types"
	"taxi123/migrations"
)

func TestPostgresBackendRoundTrip(t *testing.T) {
	backend := setupPostgresBackend(t)
	exerciseBackend(t, backend)
}

func TestRedisBackendRoundTrip(t *testing.T) {
	backend := setupRedisBackend(t)
	exerciseBackend(t, backend)
}

func exerciseBackend(t *testing.T, backend Backend) {
	t.Helper()
	ctx := context.Background()

	store := NewStore(backend, quietLogger())
	require.NoError(t, store.Load(ctx))
	assert.Empty(t, store.All())

	a := sampleInvoice("Alami", 42.70)
	a.Tariffs = [4]types.Amount{types.NewAmount(10), types.NewAmount(20), types.NewAmount(0), types.NewAmount(0)}
	a.Reservation = types.NewAmount(4)
	a.Extra = types.NewAmount(5)
	b := sampleInvoice("Bennani", 18.70)
	require.NoError(t, store.Append(ctx, a))
	require.NoError(t, store.Append(ctx, b))

	reloaded := NewStore(backend, quietLogger())
	require.NoError(t, reloaded.Load(ctx))
	got := reloaded.All()
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, b.ID, got[1].ID)
	assert.Equal(t, "42.70", got[0].Total.String())
	assert.Equal(t, "20.00", got[0].Tariffs[1].String())
	assert.Equal(t, "4.00", got[0].Reservation.String())
	assert.Equal(t, "5.00", got[0].Extra.String())
	assert.True(t, a.CreatedAt.Equal(got[0].CreatedAt))

	removed, err := reloaded.Remove(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, removed)

	final := NewStore(backend, quietLogger())
	require.NoError(t, final.Load(ctx))
	require.Len(t, final.All(), 1)
	assert.Equal(t, b.ID, final.All()[0].ID)
}

func setupPostgresBackend(t *testing.T) *PostgresBackend {
	t.Helper()

	dsn := os.Getenv("TAXI_TEST_DSN")
	if dsn == "" {
		t.Skip("TAXI_TEST_DSN not set; skipping Postgres backend test")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Apply(ctx, db); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE invoices"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return NewPostgresBackend(db)
}

func setupRedisBackend(t *testing.T) *RedisBackend {
	t.Helper()

	addr := os.Getenv("TAXI_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TAXI_TEST_REDIS_ADDR not set; skipping Redis backend test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	key := fmt.Sprintf("taxi123:test:%d", time.Now().UnixNano())
	t.Cleanup(func() { rdb.Del(context.Background(), key) })
	return NewRedisBackend(rdb, key)
}
