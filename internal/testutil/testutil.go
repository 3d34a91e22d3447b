package testutil

import (
	"database/sql"
	"embed"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

//go:embed migrations/*.sql
var testMigrationsFS embed.FS

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is configured with foreign keys enabled and WAL mode.
func NewTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on&_journal_mode=WAL")
	require.NoError(t, err)

	migrations := []string{
		"migrations/0001_init.sql",
	}

	for _, migration := range migrations {
		sqlBytes, err := testMigrationsFS.ReadFile(migration)
		require.NoError(t, err, "failed to read migration %s", migration)

		_, err = db.Exec(string(sqlBytes))
		require.NoError(t, err, "failed to apply migration %s", migration)
	}

	return db
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// InsertUser adds a user row and returns its ID.
func InsertUser(t *testing.T, db *sql.DB, email string, active bool) int64 {
	res, err := db.Exec(`INSERT INTO users (email, is_active) VALUES (?, ?)`, email, active)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// InsertProblem adds a problem row and returns its ID.
func InsertProblem(t *testing.T, db *sql.DB, title, slug string) int64 {
	res, err := db.Exec(`INSERT INTO problems (title, slug) VALUES (?, ?)`, title, slug)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// InsertAttempt adds a solved attempt row and returns its ID.
func InsertAttempt(t *testing.T, db *sql.DB, userID, problemID int64, runtimeMS, memoryKB *int) int64 {
	res, err := db.Exec(
		`INSERT INTO attempts (user_id, problem_id, runtime_ms, memory_kb, solved) VALUES (?, ?, ?, ?, 1)`,
		userID, problemID, runtimeMS, memoryKB,
	)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// IntPtr returns a pointer to v, for optional measurement columns.
func IntPtr(v int) *int {
	return &v
}
