package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"assetmanager/backend/database"
	"assetmanager/backend/middleware"
	"assetmanager/backend/models"
	"assetmanager/backend/services"
)

// Well-known test principals used across handler tests
const (
	TestAdminID = "test-admin-id"
	TestUserID  = "test-user-id"
	TestOtherID = "test-other-user-id"
)

// SetupTestDB points the global DB at a fresh in-memory database with the
// full schema and the three test profiles.
func SetupTestDB() {
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		panic(err)
	}
	db.SetMaxOpenConns(1)
	database.DB = db

	if err := database.CreateSQLiteSchema(db); err != nil {
		panic(err)
	}

	profiles := []struct {
		id, name, role string
	}{
		{TestAdminID, "Test Admin", "ADMIN"},
		{TestUserID, "Test User", "USER"},
		{TestOtherID, "Other User", "USER"},
	}
	for _, p := range profiles {
		_, err := db.Exec(
			"INSERT INTO profiles (id, full_name, role) VALUES (?, ?, ?)",
			p.id, p.name, p.role)
		if err != nil {
			panic(err)
		}
	}

	services.FlushIdentityCache()
}

// CleanupTestDB closes the test database connection
func CleanupTestDB() {
	if database.DB != nil {
		database.DB.Close()
	}
}

// TestIdentity builds the resolved identity for a seeded test profile.
func TestIdentity(id string, role models.Role) services.Identity {
	var fullName string
	database.DB.QueryRow("SELECT full_name FROM profiles WHERE id = ?", id).Scan(&fullName)
	return services.Identity{
		Profile: &models.Profile{ID: id, FullName: fullName, Role: role},
		Role:    role,
	}
}

// WithIdentity attaches a resolved identity to the request context, the same
// way AuthMiddleware does.
func WithIdentity(req *http.Request, identity services.Identity) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.IdentityKey, identity)
	return req.WithContext(ctx)
}

// NewAuthenticatedRequest creates a request carrying the given identity, with
// an optional JSON body.
func NewAuthenticatedRequest(method, url string, body interface{}, identity services.Identity) *http.Request {
	var req *http.Request

	if body != nil {
		buf, _ := json.Marshal(body)
		req = httptest.NewRequest(method, url, bytes.NewBuffer(buf))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	return WithIdentity(req, identity)
}

// MustInsertCategory inserts a category and returns its id.
func MustInsertCategory(name string) int64 {
	result, err := database.DB.Exec("INSERT INTO categories (name) VALUES (?)", name)
	if err != nil {
		panic(err)
	}
	id, _ := result.LastInsertId()
	return id
}

// MustInsertDepartment inserts a department and returns its id.
func MustInsertDepartment(name string) int64 {
	result, err := database.DB.Exec("INSERT INTO departments (name) VALUES (?)", name)
	if err != nil {
		panic(err)
	}
	id, _ := result.LastInsertId()
	return id
}

// MustInsertAsset inserts an asset row directly and returns its id.
func MustInsertAsset(name string, cost float64, categoryID, departmentID int64, createdBy string) int64 {
	result, err := database.DB.Exec(`
		INSERT INTO assets (name, cost, date_purchased, category_id, department_id, created_by)
		VALUES (?, ?, '2024-01-10', ?, ?, ?)
	`, name, cost, categoryID, departmentID, createdBy)
	if err != nil {
		panic(err)
	}
	id, _ := result.LastInsertId()
	return id
}
