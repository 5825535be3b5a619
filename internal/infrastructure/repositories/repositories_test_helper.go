package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		email_verified_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createActionTokenTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE action_tokens (
		id TEXT PRIMARY KEY,
		entity_id TEXT NOT NULL,
		action_name TEXT NOT NULL,
		created_at DATETIME,
		expires_at DATETIME NOT NULL,
		executed_at DATETIME
	);`)
}

func createShortURLTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE short_urls (
		id TEXT PRIMARY KEY,
		short_code TEXT NOT NULL UNIQUE,
		long_url TEXT NOT NULL,
		user_id TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
