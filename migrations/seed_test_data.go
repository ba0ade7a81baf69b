package migrations

import (
	"database/sql"
	"fmt"
	"log"
	"os"
)

// SeedTestData seeds test data for development and PR environments
// This should only be called in non-production environments
func SeedTestData(db *sql.DB) error {
	// Check if we're in production - we should NEVER run this in production
	if os.Getenv("APP_ENV") == "production" || os.Getenv("NODE_ENV") == "production" {
		log.Println("Refusing to seed test data in production environment")
		return nil
	}

	// Only seed if explicitly requested or in dev/PR environment
	if os.Getenv("RESET_DB") != "true" &&
		os.Getenv("APP_ENV") != "development" &&
		os.Getenv("PR_DEPLOYMENT") != "true" {
		log.Println("Skipping test data seeding - not explicitly requested and not in dev/PR environment")
		return nil
	}

	log.Println("Seeding test data for development/PR environment...")

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// Clear existing data. Assets first so the restrict FKs don't fire.
	for _, table := range []string{"assets", "categories", "departments", "profiles"} {
		_, err = tx.Exec("DELETE FROM " + table)
		if err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}

	// Development profiles: one admin, two regular users
	profiles := []struct {
		id       string
		fullName string
		role     string
	}{
		{"admin-user-1", "Dev Admin", "ADMIN"},
		{"user-1", "Thabo Mokoena", "USER"},
		{"user-2", "Lerato Dlamini", "USER"},
	}
	for _, p := range profiles {
		_, err = tx.Exec(
			"INSERT INTO profiles (id, full_name, role) VALUES (?, ?, ?)",
			p.id, p.fullName, p.role)
		if err != nil {
			return fmt.Errorf("failed to seed profile %s: %w", p.id, err)
		}
	}

	for _, name := range []string{"IT Equipment", "Furniture", "Vehicles"} {
		_, err = tx.Exec("INSERT INTO categories (name) VALUES (?)", name)
		if err != nil {
			return fmt.Errorf("failed to seed category %s: %w", name, err)
		}
	}

	for _, name := range []string{"Finance", "Operations", "Human Resources"} {
		_, err = tx.Exec("INSERT INTO departments (name) VALUES (?)", name)
		if err != nil {
			return fmt.Errorf("failed to seed department %s: %w", name, err)
		}
	}

	assets := []struct {
		name          string
		cost          float64
		datePurchased string
		categoryID    int64
		departmentID  int64
		createdBy     string
	}{
		{"Laptop", 15000.00, "2024-01-10", 1, 1, "user-1"},
		{"Standing Desk", 4200.50, "2023-11-02", 2, 2, "user-1"},
		{"Delivery Van", 310000.00, "2022-06-30", 3, 2, "user-2"},
	}
	for _, a := range assets {
		_, err = tx.Exec(`
			INSERT INTO assets (name, cost, date_purchased, category_id, department_id, created_by)
			VALUES (?, ?, ?, ?, ?, ?)
		`, a.name, a.cost, a.datePurchased, a.categoryID, a.departmentID, a.createdBy)
		if err != nil {
			return fmt.Errorf("failed to seed asset %s: %w", a.name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	log.Println("Test data seeded successfully")
	return nil
}
