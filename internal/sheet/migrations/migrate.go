// Package migrations holds the sheet store schema for every supported SQL
// dialect and applies it with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	mysqlmigrate "github.com/golang-migrate/migrate/v4/database/mysql"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

//go:embed postgres/*.sql mysql/*.sql sqlite/*.sql
var files embed.FS

// Up applies all pending migrations for dialect. Some drivers close db when
// the migrator is closed, so callers pass a dedicated handle.
func Up(dialect Dialect, db *sql.DB) (err error) {
	src, err := iofs.New(files, string(dialect))
	if err != nil {
		return errors.Wrapf(err, "open %s migrations", dialect)
	}

	var drv database.Driver
	switch dialect {
	case Postgres:
		drv, err = pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	case MySQL:
		drv, err = mysqlmigrate.WithInstance(db, &mysqlmigrate.Config{})
	case SQLite:
		drv, err = sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	default:
		return errors.Errorf("unsupported dialect %q", dialect)
	}
	if err != nil {
		return errors.Wrapf(err, "init %s migration driver", dialect)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(dialect), drv)
	if err != nil {
		return errors.Wrap(err, "init migrator")
	}
	defer func() {
		srcErr, dbErr := m.Close()
		switch {
		case err != nil:
		case srcErr != nil:
			err = errors.Wrap(srcErr, "close migration source")
		case dbErr != nil:
			err = errors.Wrap(dbErr, "close migration database")
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrapf(err, "apply %s migrations", dialect)
	}
	return nil
}
