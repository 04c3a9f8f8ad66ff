package models

import (
	"database/sql"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
)

// ============================================================================
// Sandbox Database
//
// The sandbox is a local stand-in for the challenge signup API. Accounts it
// creates live in DuckDB, in memory by default or on disk when a path is
// configured, so a developer can exercise the forms without a token for the
// real service.
// ============================================================================

var (
	sandboxDB   *sql.DB
	sandboxDBMu sync.RWMutex
)

// DDLCreateChallengeUsersTable stores accounts created through the sandbox.
const DDLCreateChallengeUsersTable = `
CREATE TABLE IF NOT EXISTS challenge_users (
    guid          VARCHAR PRIMARY KEY,
    username      VARCHAR NOT NULL UNIQUE,
    password_hash VARCHAR NOT NULL,
    created_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InitSandboxDB opens the sandbox database and creates its schema.
// An empty path opens an in-memory database.
func InitSandboxDB(path string) error {
	sandboxDBMu.Lock()
	defer sandboxDBMu.Unlock()

	if sandboxDB != nil {
		_ = sandboxDB.Close()
		sandboxDB = nil
	}

	// DuckDB's go driver uses an empty DSN for in-memory databases
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return serr.Wrap(err, "failed to open sandbox database")
	}

	// A single connection keeps an in-memory database from being
	// recreated per pooled connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(DDLCreateChallengeUsersTable); err != nil {
		_ = db.Close()
		return serr.Wrap(err, "failed to create challenge_users table")
	}

	sandboxDB = db
	if path == "" {
		logger.Info("Sandbox database ready", "storage", "memory")
	} else {
		logger.Info("Sandbox database ready", "storage", path)
	}
	return nil
}

// CloseSandboxDB closes the sandbox database if it is open.
func CloseSandboxDB() {
	sandboxDBMu.Lock()
	defer sandboxDBMu.Unlock()

	if sandboxDB != nil {
		if err := sandboxDB.Close(); err != nil {
			logger.LogErr(err, "failed to close sandbox database")
		}
		sandboxDB = nil
	}
}

func getSandboxDB() (*sql.DB, error) {
	sandboxDBMu.RLock()
	defer sandboxDBMu.RUnlock()

	if sandboxDB == nil {
		return nil, serr.New("sandbox database not initialized - call InitSandboxDB first")
	}
	return sandboxDB, nil
}
