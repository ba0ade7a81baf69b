package database

import (
	"database/sql"
	"fmt"
	"log"
)

// CreateSchema creates the database schema for PostgreSQL
func CreateSchema(db *sql.DB) error {
	log.Printf("Creating schema for PostgreSQL database")

	err := CreatePostgresSchema(db)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Record the schema creation in the migrations table
	if err := recordMigration(db, "base_schema"); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return nil
}

// recordMigration records a migration in the migrations table
func recordMigration(db *sql.DB, name string) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO migrations (name)
		VALUES ($1)
		ON CONFLICT (name) DO NOTHING
	`
	_, err = db.Exec(query, name)
	return err
}
