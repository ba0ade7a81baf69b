package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

func InitDB() error {
	var dbPath string
	if os.Getenv("FLY_APP_NAME") != "" {
		// We're running on Fly.io, use the mounted volume
		dbPath = filepath.Join("/data", "assets.db")
	} else if os.Getenv("TEST_DB") == "1" {
		// We're running tests, use in-memory database
		dbPath = ":memory:"
	} else {
		// Local development
		dbPath = "./database.db"
	}

	var err error
	// Connection parameters to better handle concurrency. Foreign keys must be
	// enforced so category/department deletes are rejected, not cascaded,
	// while assets still reference them.
	dsn := dbPath + "?_journal=WAL&_timeout=10000&_busy_timeout=10000&_foreign_keys=on"
	DB, err = sql.Open("sqlite3", dsn)
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(5)
	DB.SetMaxIdleConns(5)
	DB.SetConnMaxLifetime(time.Minute * 5)

	_, err = DB.Exec("PRAGMA journal_mode=WAL;")
	if err != nil {
		return err
	}

	_, err = DB.Exec("PRAGMA busy_timeout=5000;")
	if err != nil {
		return err
	}

	_, err = DB.Exec("PRAGMA foreign_keys=ON;")
	if err != nil {
		return err
	}

	err = DB.Ping()
	if err != nil {
		return err
	}

	return CreateSQLiteSchema(DB)
}

// CreateSQLiteSchema creates the base tables for SQLite. All asset foreign
// keys are ON DELETE RESTRICT: a category, department or profile cannot be
// removed while an asset references it.
func CreateSQLiteSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			full_name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'USER',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS departments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS assets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			cost REAL NOT NULL,
			date_purchased TEXT NOT NULL,
			category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
			department_id INTEGER NOT NULL REFERENCES departments(id) ON DELETE RESTRICT,
			created_by TEXT NOT NULL REFERENCES profiles(id) ON DELETE RESTRICT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// SeedBootstrapAdmin inserts an initial admin profile when the profiles table
// is empty, so a fresh install has someone able to invite users.
func SeedBootstrapAdmin() error {
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM profiles").Scan(&count)
	if err != nil {
		return err
	}

	if count == 0 {
		adminID := os.Getenv("BOOTSTRAP_ADMIN_UID")
		if adminID == "" {
			adminID = "admin-user-1"
		}
		adminName := os.Getenv("BOOTSTRAP_ADMIN_NAME")
		if adminName == "" {
			adminName = "Administrator"
		}

		_, err := DB.Exec(
			"INSERT INTO profiles (id, full_name, role) VALUES (?, ?, 'ADMIN')",
			adminID, adminName)
		if err != nil {
			return err
		}
	}

	return nil
}
