package services

import (
	"database/sql"
	"fmt"
	"math"
	"strings"

	"assetmanager/backend/database"
	"assetmanager/backend/models"
)

// AssetScope selects which assets a list call returns. ScopeAll is reserved
// for admins; OwnedBy restricts to a single owner.
type AssetScope struct {
	All     bool
	OwnerID string
}

func ScopeAll() AssetScope {
	return AssetScope{All: true}
}

func OwnedBy(ownerID string) AssetScope {
	return AssetScope{OwnerID: ownerID}
}

// ListAssets returns assets joined with their category and department names,
// newest-created first. The all scope additionally carries the owner's
// display name for the admin list.
func ListAssets(scope AssetScope) ([]models.Asset, error) {
	query := `
		SELECT a.id, a.name, a.cost, a.date_purchased,
		       a.category_id, a.department_id,
		       c.name, d.name,
		       a.created_by, p.full_name, a.created_at
		FROM assets a
		JOIN categories c ON c.id = a.category_id
		JOIN departments d ON d.id = a.department_id
		JOIN profiles p ON p.id = a.created_by
	`
	args := []interface{}{}

	if !scope.All {
		query += " WHERE a.created_by = ?"
		args = append(args, scope.OwnerID)
	}

	query += " ORDER BY a.created_at DESC, a.id DESC"

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var a models.Asset
		var ownerName sql.NullString
		err := rows.Scan(&a.ID, &a.Name, &a.Cost, &a.DatePurchased,
			&a.CategoryID, &a.DepartmentID,
			&a.CategoryName, &a.DepartmentName,
			&a.CreatedBy, &ownerName, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		if scope.All && ownerName.Valid {
			a.CreatedByName = ownerName.String
		}
		assets = append(assets, a)
	}

	return assets, rows.Err()
}

// CreateAsset inserts a new asset owned by the acting principal. The owner is
// always stamped from the resolved session identity; nothing in the input can
// attribute the asset to someone else.
func CreateAsset(input models.NewAsset, actor Identity) (*models.Asset, error) {
	if actor.Anonymous() {
		return nil, &models.ForbiddenError{Message: "no active session"}
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, &models.ValidationError{Message: "asset name is required"}
	}
	if strings.TrimSpace(input.DatePurchased) == "" {
		return nil, &models.ValidationError{Message: "date purchased is required"}
	}
	if input.CategoryID == 0 {
		return nil, &models.ValidationError{Message: "category is required"}
	}
	if input.DepartmentID == 0 {
		return nil, &models.ValidationError{Message: "department is required"}
	}
	if input.Cost < 0 {
		return nil, &models.ValidationError{Message: "cost must not be negative"}
	}

	if err := requireRowExists("categories", input.CategoryID, "category"); err != nil {
		return nil, err
	}
	if err := requireRowExists("departments", input.DepartmentID, "department"); err != nil {
		return nil, err
	}

	// Stored with two-decimal currency precision
	cost := math.Round(input.Cost*100) / 100

	result, err := database.DB.Exec(`
		INSERT INTO assets (name, cost, date_purchased, category_id, department_id, created_by)
		VALUES (?, ?, ?, ?, ?, ?)
	`, strings.TrimSpace(input.Name), cost, input.DatePurchased,
		input.CategoryID, input.DepartmentID, actor.Profile.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, &models.ReferenceError{Message: "category or department does not exist"}
		}
		return nil, fmt.Errorf("failed to insert asset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted asset id: %w", err)
	}

	return GetAsset(id)
}

// GetAsset loads a single asset joined with its category and department names.
func GetAsset(id int64) (*models.Asset, error) {
	var a models.Asset
	var ownerName sql.NullString

	err := database.DB.QueryRow(`
		SELECT a.id, a.name, a.cost, a.date_purchased,
		       a.category_id, a.department_id,
		       c.name, d.name,
		       a.created_by, p.full_name, a.created_at
		FROM assets a
		JOIN categories c ON c.id = a.category_id
		JOIN departments d ON d.id = a.department_id
		JOIN profiles p ON p.id = a.created_by
		WHERE a.id = ?
	`, id).Scan(&a.ID, &a.Name, &a.Cost, &a.DatePurchased,
		&a.CategoryID, &a.DepartmentID,
		&a.CategoryName, &a.DepartmentName,
		&a.CreatedBy, &ownerName, &a.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Resource: "asset"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load asset %d: %w", id, err)
	}

	if ownerName.Valid {
		a.CreatedByName = ownerName.String
	}
	return &a, nil
}

// DeleteAsset removes an asset permanently. Admins may delete any asset; a
// user may delete only assets they created.
func DeleteAsset(id int64, actor Identity) error {
	if actor.Anonymous() {
		return &models.ForbiddenError{Message: "no active session"}
	}

	var createdBy string
	err := database.DB.QueryRow("SELECT created_by FROM assets WHERE id = ?", id).Scan(&createdBy)
	if err == sql.ErrNoRows {
		return &models.NotFoundError{Resource: "asset"}
	}
	if err != nil {
		return fmt.Errorf("failed to look up asset %d: %w", id, err)
	}

	if actor.Role != models.RoleAdmin && createdBy != actor.Profile.ID {
		return &models.ForbiddenError{Message: "you can only delete assets you created"}
	}

	_, err = database.DB.Exec("DELETE FROM assets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete asset %d: %w", id, err)
	}

	return nil
}

// requireRowExists verifies the referenced row exists before insert so the
// caller gets a reference error rather than a raw driver failure.
func requireRowExists(table string, id int64, label string) error {
	var exists bool
	err := database.DB.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM "+table+" WHERE id = ?)", id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check %s existence: %w", label, err)
	}
	if !exists {
		return &models.ReferenceError{Message: label + " does not exist"}
	}
	return nil
}

// isForeignKeyViolation recognizes FK rejections from both drivers: sqlite
// reports "FOREIGN KEY constraint failed", postgres class 23503.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "violates foreign key constraint") ||
		strings.Contains(msg, "23503")
}
