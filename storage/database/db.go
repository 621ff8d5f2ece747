package database

import (
	"embed"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/darasa/core"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open opens (creating it if needed) the sqlite database file.
// foreign_keys is enabled so referential constraints back up the services'
// check-then-insert discipline.
func Open(conf *core.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", "file:"+conf.Database.Path+"?_foreign_keys=on")
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	// sqlite allows a single writer; one connection serializes conflicting
	// writes instead of surfacing SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "pinging database")
	}
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

// RunGoose runs an arbitrary goose command ("up", "down", "status", ...)
// against the migrations; used by the admin CLI.
func RunGoose(command string, db *sqlx.DB, args ...string) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	return goose.Run(command, db.DB, "migrations", args...)
}
