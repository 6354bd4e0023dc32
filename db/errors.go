package db

import (
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/teranos/erbench/errors"
)

// ErrDatabaseClosed marks ledger operations attempted after Close.
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed reports whether err is ErrDatabaseClosed or the driver's
// own "database is closed" error, which carries no type to match.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}

// IsBusy reports whether err is SQLite giving up on a locked database after
// SQLiteBusyTimeoutMS.
func IsBusy(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
}
