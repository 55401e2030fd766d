// database_utils should be the canonical place to put shared DB utils.
// It should not include:
// 1. Any util that doesn't manipulate DB
// 2. Any util that contains business logic
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cryptopulse/cryptopulse/model"
)

const DefaultDBPath = "data/scraped_posts.db"

// GetDBConnection connects to the database specified by env. By default this
// is a local SQLite file (DB_PATH); when DB_HOST is set we instead connect to
// a shared Postgres instance, which tolerates concurrent writers from the
// dashboard and the API at once.
func GetDBConnection() (*gorm.DB, error) {
	if os.Getenv("DB_HOST") != "" {
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASS"),
			os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))
		return getDB(postgres.Open(dsn))
	}

	path := os.Getenv("DB_PATH")
	if path == "" {
		path = DefaultDBPath
	}
	return GetSQLiteDBConnection(path)
}

// GetSQLiteDBConnection opens (and creates if needed) the SQLite file at path.
func GetSQLiteDBConnection(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	// Busy timeout lets concurrent save/query calls wait on the engine's own
	// file lock instead of failing with SQLITE_BUSY.
	return getDB(sqlite.Open(path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"))
}

func getDB(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// DatabaseSetupAndMigration migrates the posts table. Idempotent.
func DatabaseSetupAndMigration(db *gorm.DB) error {
	return db.AutoMigrate(&model.Post{})
}

// CreateTempDB creates a temp SQLite DB for testing, migrated and cleaned up
// together with the test's temp dir.
func CreateTempDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := GetSQLiteDBConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("cannot connect to temp DB: %v", err)
	}
	if err := DatabaseSetupAndMigration(db); err != nil {
		t.Fatalf("fail to migrate temp DB: %v", err)
	}
	t.Cleanup(func() {
		conn, _ := db.DB()
		conn.Close()
	})
	return db
}
