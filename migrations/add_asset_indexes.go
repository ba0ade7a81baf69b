package migrations

import (
	"database/sql"
	"fmt"
)

// AddAssetIndexes adds the indexes the list queries lean on: owner-scoped
// listing and the referential-integrity existence checks.
func AddAssetIndexes(db *sql.DB) error {
	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_assets_created_by ON assets(created_by)",
		"CREATE INDEX IF NOT EXISTS idx_assets_category_id ON assets(category_id)",
		"CREATE INDEX IF NOT EXISTS idx_assets_department_id ON assets(department_id)",
		"CREATE INDEX IF NOT EXISTS idx_assets_created_at ON assets(created_at)",
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
