// Package pgstore keeps sheets in PostgreSQL through a pgx pool.
package pgstore

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"

	"github.com/dmehra2102/clearance-sale/internal/sheet"
	"github.com/dmehra2102/clearance-sale/internal/sheet/migrations"
)

type Store struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

var _ sheet.Store = (*Store)(nil)

func NewStore(log *slog.Logger, pool *pgxpool.Pool) *Store {
	return &Store{log: log, pool: pool}
}

// Migrate applies the schema over a separate database/sql handle so the
// pool is never closed by the migrator.
func (s *Store) Migrate() error {
	db := stdlib.OpenDB(*s.pool.Config().ConnConfig)
	defer db.Close()
	return migrations.Up(migrations.Postgres, db)
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Rows(ctx context.Context, name string) ([][]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT cells FROM sheet_rows WHERE sheet=$1 ORDER BY id`, name)
	if err != nil {
		return nil, errors.Wrapf(err, "select rows of %q", name)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.Wrapf(err, "scan row of %q", name)
		}
		var cells []string
		if err := json.Unmarshal(raw, &cells); err != nil {
			return nil, errors.Wrapf(err, "decode row of %q", name)
		}
		out = append(out, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "iterate rows of %q", name)
	}

	if len(out) == 0 {
		var exists bool
		err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sheets WHERE name=$1)`, name).Scan(&exists)
		if err != nil {
			return nil, errors.Wrapf(err, "lookup sheet %q", name)
		}
		if !exists {
			return nil, sheet.ErrSheetNotFound
		}
	}
	return out, nil
}

func (s *Store) Append(ctx context.Context, name string, row []string) error {
	cells, err := json.Marshal(row)
	if err != nil {
		return errors.Wrap(err, "encode row")
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO sheet_rows (sheet, cells) SELECT name, $1::jsonb FROM sheets WHERE name=$2`,
		string(cells), name)
	if err != nil {
		return errors.Wrapf(err, "append row to %q", name)
	}
	if tag.RowsAffected() == 0 {
		return sheet.ErrSheetNotFound
	}
	return nil
}

func (s *Store) Create(ctx context.Context, name string, header []string) error {
	cells, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "encode header")
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `INSERT INTO sheets (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return errors.Wrapf(err, "insert sheet %q", name)
	}
	if tag.RowsAffected() == 0 {
		return sheet.ErrSheetExists
	}
	if _, err := tx.Exec(ctx, `INSERT INTO sheet_rows (sheet, cells) VALUES ($1, $2::jsonb)`, name, string(cells)); err != nil {
		return errors.Wrapf(err, "insert header of %q", name)
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit")
	}
	s.log.Info("sheet created", "sheet", name, "columns", len(header))
	return nil
}
