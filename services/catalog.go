package services

import (
	"database/sql"
	"fmt"
	"strings"

	"assetmanager/backend/database"
	"assetmanager/backend/models"
)

// Categories and departments share a shape and lifecycle; the helpers below
// are parameterized on the table so the rules stay in one place.

func ListCategories() ([]models.Category, error) {
	rows, err := listNamedRows("categories")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func CreateCategory(name string) (*models.Category, error) {
	id, createdAt, err := createNamed("categories", name)
	if err != nil {
		return nil, err
	}
	return &models.Category{ID: id, Name: strings.TrimSpace(name), CreatedAt: createdAt.Time}, nil
}

// DeleteCategory rejects the delete while any asset still references the
// category. The reference check is authoritative; the FK RESTRICT on the
// assets table backs it up against races.
func DeleteCategory(id int64) error {
	return deleteNamed("categories", "category_id", id, "category")
}

func ListDepartments() ([]models.Department, error) {
	rows, err := listNamedRows("departments")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []models.Department
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func CreateDepartment(name string) (*models.Department, error) {
	id, createdAt, err := createNamed("departments", name)
	if err != nil {
		return nil, err
	}
	return &models.Department{ID: id, Name: strings.TrimSpace(name), CreatedAt: createdAt.Time}, nil
}

func DeleteDepartment(id int64) error {
	return deleteNamed("departments", "department_id", id, "department")
}

func listNamedRows(table string) (*sql.Rows, error) {
	rows, err := database.DB.Query(
		"SELECT id, name, created_at FROM " + table + " ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	return rows, nil
}

func createNamed(table, name string) (int64, sql.NullTime, error) {
	var createdAt sql.NullTime

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, createdAt, &models.ValidationError{Message: "name is required"}
	}

	result, err := database.DB.Exec("INSERT INTO "+table+" (name) VALUES (?)", name)
	if err != nil {
		return 0, createdAt, fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, createdAt, fmt.Errorf("failed to read inserted id: %w", err)
	}

	database.DB.QueryRow("SELECT created_at FROM "+table+" WHERE id = ?", id).Scan(&createdAt)
	return id, createdAt, nil
}

func deleteNamed(table, fkColumn string, id int64, label string) error {
	var exists bool
	err := database.DB.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM "+table+" WHERE id = ?)", id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check %s existence: %w", label, err)
	}
	if !exists {
		return &models.NotFoundError{Resource: label}
	}

	var referenced bool
	err = database.DB.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM assets WHERE "+fkColumn+" = ?)", id).Scan(&referenced)
	if err != nil {
		return fmt.Errorf("failed to check %s references: %w", label, err)
	}
	if referenced {
		return &models.ReferentialError{Resource: label}
	}

	_, err = database.DB.Exec("DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			// An asset was created between the check and the delete
			return &models.ReferentialError{Resource: label}
		}
		return fmt.Errorf("failed to delete %s %d: %w", label, id, err)
	}

	return nil
}
