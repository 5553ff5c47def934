// Package sqlstore keeps sheets in SQLite or MySQL through sqlx.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/dmehra2102/clearance-sale/internal/sheet"
	"github.com/dmehra2102/clearance-sale/internal/sheet/migrations"
)

type Store struct {
	log     *slog.Logger
	db      *sqlx.DB
	dialect migrations.Dialect
}

var _ sheet.Store = (*Store)(nil)

// Open connects to dsn and applies the schema. dialect is either
// migrations.SQLite or migrations.MySQL.
func Open(ctx context.Context, log *slog.Logger, dialect migrations.Dialect, dsn string) (*Store, error) {
	driver, err := driverName(dialect)
	if err != nil {
		return nil, err
	}

	migrateDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open migration connection")
	}
	err = migrations.Up(dialect, migrateDB)
	_ = migrateDB.Close()
	if err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "connect %s", dialect)
	}
	if dialect == migrations.SQLite {
		// one writer at a time keeps appends ordered without busy errors
		db.SetMaxOpenConns(1)
	}
	return &Store{log: log, db: db, dialect: dialect}, nil
}

func driverName(d migrations.Dialect) (string, error) {
	switch d {
	case migrations.SQLite:
		return "sqlite", nil
	case migrations.MySQL:
		return "mysql", nil
	default:
		return "", errors.Errorf("sqlstore does not support dialect %q", d)
	}
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Rows(ctx context.Context, name string) ([][]string, error) {
	var raw []string
	err := s.db.SelectContext(ctx, &raw, `SELECT cells FROM sheet_rows WHERE sheet = ? ORDER BY id`, name)
	if err != nil {
		return nil, errors.Wrapf(err, "select rows of %q", name)
	}
	if len(raw) == 0 {
		if err := s.mustExist(ctx, name); err != nil {
			return nil, err
		}
	}

	rows := make([][]string, 0, len(raw))
	for _, r := range raw {
		var cells []string
		if err := json.Unmarshal([]byte(r), &cells); err != nil {
			return nil, errors.Wrapf(err, "decode row of %q", name)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func (s *Store) Append(ctx context.Context, name string, row []string) error {
	cells, err := json.Marshal(row)
	if err != nil {
		return errors.Wrap(err, "encode row")
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sheet_rows (sheet, cells) SELECT name, ? FROM sheets WHERE name = ?`,
		string(cells), name)
	if err != nil {
		return errors.Wrapf(err, "append row to %q", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return sheet.ErrSheetNotFound
	}
	return nil
}

func (s *Store) Create(ctx context.Context, name string, header []string) error {
	cells, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "encode header")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, s.insertSheetSQL(), name)
	if err != nil {
		return errors.Wrapf(err, "insert sheet %q", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return sheet.ErrSheetExists
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO sheet_rows (sheet, cells) VALUES (?, ?)`, name, string(cells)); err != nil {
		return errors.Wrapf(err, "insert header of %q", name)
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	s.log.Info("sheet created", "sheet", name, "columns", len(header))
	return nil
}

func (s *Store) insertSheetSQL() string {
	if s.dialect == migrations.MySQL {
		return `INSERT IGNORE INTO sheets (name) VALUES (?)`
	}
	return `INSERT INTO sheets (name) VALUES (?) ON CONFLICT (name) DO NOTHING`
}

func (s *Store) mustExist(ctx context.Context, name string) error {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM sheets WHERE name = ?`, name); err != nil {
		return errors.Wrapf(err, "lookup sheet %q", name)
	}
	if n == 0 {
		return sheet.ErrSheetNotFound
	}
	return nil
}
