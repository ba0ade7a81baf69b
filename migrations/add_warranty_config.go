package migrations

import (
	"database/sql"
	"fmt"
)

// AddWarrantyConfigTable creates the single-row configuration table for the
// external warranty service. The api_key column holds an encrypted value.
func AddWarrantyConfigTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS warranty_config (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			api_url TEXT,
			api_key TEXT,
			timeout_seconds INTEGER DEFAULT 15,
			last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create warranty_config table: %w", err)
	}

	return nil
}
