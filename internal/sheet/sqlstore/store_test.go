package sqlstore

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/clearance-sale/internal/sheet"
	"github.com/dmehra2102/clearance-sale/internal/sheet/migrations"
)

func openSQLite(t *testing.T) *Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "sale.db")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := Open(context.Background(), log, migrations.SQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	require.NoError(t, s.Ping(ctx))

	_, err := s.Rows(ctx, "Bestellingen")
	require.ErrorIs(t, err, sheet.ErrSheetNotFound)
	require.ErrorIs(t, s.Append(ctx, "Bestellingen", []string{"x"}), sheet.ErrSheetNotFound)

	require.NoError(t, s.Create(ctx, "Bestellingen", []string{"OrderID", "Items"}))
	require.ErrorIs(t, s.Create(ctx, "Bestellingen", []string{"OrderID"}), sheet.ErrSheetExists)

	require.NoError(t, s.Append(ctx, "Bestellingen", []string{"ORD-1", "2x Dumbbell 20kg"}))
	require.NoError(t, s.Append(ctx, "Bestellingen", []string{"ORD-2", "1x Rower, 3x \"Plate\""}))

	rows, err := s.Rows(ctx, "Bestellingen")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"OrderID", "Items"},
		{"ORD-1", "2x Dumbbell 20kg"},
		{"ORD-2", "1x Rower, 3x \"Plate\""},
	}, rows)
}

func TestSQLiteStoreReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "sale.db")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	first, err := Open(ctx, log, migrations.SQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, first.Create(ctx, "Sheet1", []string{"Materiaal"}))
	require.NoError(t, first.Append(ctx, "Sheet1", []string{"Kettlebell"}))
	require.NoError(t, first.Close())

	second, err := Open(ctx, log, migrations.SQLite, dsn)
	require.NoError(t, err)
	defer second.Close()

	rows, err := second.Rows(ctx, "Sheet1")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestOpenRejectsPostgresDialect(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := Open(context.Background(), log, migrations.Postgres, "postgres://x")
	assert.Error(t, err)
}
