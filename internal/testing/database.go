package testing

import (
	"database/sql"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/teranos/erbench/db"
)

// CreateLedgerDB creates a migrated run ledger in a temp dir.
// Automatically registers cleanup via t.Cleanup().
func CreateLedgerDB(t *testing.T) *sql.DB {
	t.Helper()

	// A file, not :memory:, so every pooled connection sees the same schema
	conn, err := db.OpenWithMigrations(filepath.Join(t.TempDir(), "ledger.db"), zaptest.NewLogger(t).Sugar())
	if err != nil {
		t.Fatalf("Failed to create ledger database: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
	})

	return conn
}
