package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresConfig holds database connection parameters
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// GetPostgresConfigFromEnv reads PostgreSQL configuration from environment variables
func GetPostgresConfigFromEnv() PostgresConfig {
	return PostgresConfig{
		Host:     getEnvOrDefault("DB_HOST", "localhost"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
		DBName:   getEnvOrDefault("DB_NAME", "assetmanager"),
		SSLMode:  getEnvOrDefault("DB_SSL_MODE", "disable"),
	}
}

// ConnectionString builds a PostgreSQL connection string
func (cfg PostgresConfig) ConnectionString() string {
	// If DATABASE_URL is set (Fly.io or other cloud provider), use it directly
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return dbURL
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.SSLMode,
	)
}

// CreatePostgresDB creates a new PostgreSQL database connection
func CreatePostgresDB() (*sql.DB, error) {
	config := GetPostgresConfigFromEnv()
	connectionString := config.ConnectionString()

	log.Printf("Connecting to PostgreSQL: %s", MaskPassword(connectionString))

	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL")
	return db, nil
}

// MaskPassword masks the password in a connection string for logging
func MaskPassword(connStr string) string {
	result := ""
	inPassword := false

	for i := 0; i < len(connStr); i++ {
		if inPassword {
			if connStr[i] == '@' {
				inPassword = false
				result += "@"
			} else {
				result += "*"
			}
		} else if connStr[i] == ':' && i > 0 && connStr[i-1] != '/' {
			result += ":"
			inPassword = true
		} else {
			result += string(connStr[i])
		}
	}

	return result
}

// Helper function to get environment variable with default
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// CreatePostgresSchema creates all tables needed for the application.
// The asset foreign keys use ON DELETE RESTRICT so the database itself
// rejects deletes of rows that are still referenced.
func CreatePostgresSchema(db *sql.DB) error {
	log.Println("Creating complete PostgreSQL schema...")

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			full_name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'USER',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create profiles table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS categories (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create categories table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS departments (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create departments table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS assets (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			cost NUMERIC(15,2) NOT NULL,
			date_purchased TEXT NOT NULL,
			category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
			department_id INTEGER NOT NULL REFERENCES departments(id) ON DELETE RESTRICT,
			created_by TEXT NOT NULL REFERENCES profiles(id) ON DELETE RESTRICT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create assets table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS warranty_config (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			api_url TEXT,
			api_key TEXT,
			timeout_seconds INTEGER DEFAULT 15,
			last_updated TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create warranty_config table: %w", err)
	}

	log.Println("Successfully created complete PostgreSQL schema")
	return nil
}
