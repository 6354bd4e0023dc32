package commands

import (
	"database/sql"

	"github.com/teranos/erbench/am"
	"github.com/teranos/erbench/db"
	"github.com/teranos/erbench/errors"
	"github.com/teranos/erbench/ledger"
	"github.com/teranos/erbench/logger"
)

// openLedger opens and migrates the run ledger. If dbPath is empty, the
// configured database.path is used.
func openLedger(dbPath string) (*sql.DB, *ledger.Store, error) {
	if dbPath == "" {
		cfg, err := am.Load()
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to load config")
		}
		dbPath = cfg.GetDatabasePath()
	}

	database, err := db.OpenWithMigrations(dbPath, logger.Logger)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open run ledger at %s", dbPath)
	}

	return database, ledger.NewStore(database, logger.ComponentLogger("ledger")), nil
}
