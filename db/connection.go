// Package db opens the SQLite run ledger and keeps its schema current.
package db

import (
	"database/sql"
	"net/url"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/teranos/erbench/errors"
)

// SQLiteBusyTimeoutMS is how long a writer waits on a locked database.
// Two prep runs finishing together both write the ledger.
const SQLiteBusyTimeoutMS = 5000

// dsnParams are applied by the driver to every pooled connection, so
// foreign keys hold for cascading deletes on any of them.
var dsnParams = url.Values{
	"_journal_mode": {"WAL"},
	"_foreign_keys": {"on"},
	"_busy_timeout": {strconv.Itoa(SQLiteBusyTimeoutMS)},
}

// Open opens the ledger at path, creating the file when missing.
// A nil logger is allowed.
func Open(path string, logger *zap.SugaredLogger) (*sql.DB, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	db, err := sql.Open("sqlite3", path+"?"+dsnParams.Encode())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %s", path)
	}
	// sql.Open is lazy; surface a bad path here rather than on first query
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to open database %s", path)
	}

	logger.Debugw("Ledger opened", "path", path)
	return db, nil
}

// OpenWithMigrations opens path and brings its schema up to date.
func OpenWithMigrations(path string, logger *zap.SugaredLogger) (*sql.DB, error) {
	db, err := Open(path, logger)
	if err != nil {
		return nil, errors.Wrap(err, "open ledger database")
	}
	if err := Migrate(db, logger); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "migrate %s", path)
	}
	return db, nil
}
