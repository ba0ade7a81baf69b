package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"assetmanager/backend/database"
	"assetmanager/backend/models"
	"assetmanager/backend/services"

	_ "github.com/mattn/go-sqlite3"
)

func setupAuthTestDB(t *testing.T) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	database.DB = db
	t.Cleanup(func() { db.Close() })

	if err := database.CreateSQLiteSchema(db); err != nil {
		t.Fatal(err)
	}

	services.FlushIdentityCache()
}

func TestExtractToken(t *testing.T) {
	testCases := []struct {
		name          string
		authHeader    string
		expectedToken string
	}{
		{
			name:          "Valid Bearer token",
			authHeader:    "Bearer test-token-123",
			expectedToken: "test-token-123",
		},
		{
			name:          "Missing Bearer prefix",
			authHeader:    "test-token-123",
			expectedToken: "",
		},
		{
			name:          "Empty auth header",
			authHeader:    "",
			expectedToken: "",
		},
		{
			name:          "Bearer with no token",
			authHeader:    "Bearer ",
			expectedToken: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token := extractToken(tc.authHeader)
			if token != tc.expectedToken {
				t.Errorf("Expected token '%s', got '%s'", tc.expectedToken, token)
			}
		})
	}
}

func TestAuthMiddleware_DevMode(t *testing.T) {
	setupAuthTestDB(t)

	// Save the original firebaseAuth
	originalAuth := firebaseAuth
	defer func() { firebaseAuth = originalAuth }()

	// Simulate dev mode: no Firebase client
	firebaseAuth = nil

	// Seed the profile the dev resolver looks up
	_, err := database.DB.Exec(
		"INSERT INTO profiles (id, full_name, role) VALUES ('admin-user-1', 'Dev Admin', 'ADMIN')")
	if err != nil {
		t.Fatal(err)
	}

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := GetIdentityFromContext(r)
		if identity.Anonymous() {
			t.Error("Expected a resolved identity in dev mode")
		} else if identity.Profile.ID != "admin-user-1" {
			t.Errorf("Expected dev identity 'admin-user-1', got '%s'", identity.Profile.ID)
		}
		if identity.Role != "ADMIN" {
			t.Errorf("Expected role ADMIN, got '%s'", identity.Role)
		}
		w.WriteHeader(http.StatusOK)
	})

	middleware := AuthMiddleware(testHandler)

	req := httptest.NewRequest("GET", "/api/test", nil)
	rr := httptest.NewRecorder()

	middleware.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("Handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
}

func TestAuthMiddleware_DevModeWithoutSeededProfile(t *testing.T) {
	setupAuthTestDB(t)

	originalAuth := firebaseAuth
	defer func() { firebaseAuth = originalAuth }()
	firebaseAuth = nil

	// No profiles at all: the dev resolver falls back to a synthetic admin
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := GetIdentityFromContext(r)
		if identity.Role != "ADMIN" {
			t.Errorf("Expected synthetic dev admin, got role '%s'", identity.Role)
		}
		w.WriteHeader(http.StatusOK)
	})

	middleware := AuthMiddleware(testHandler)

	req := httptest.NewRequest("GET", "/api/test", nil)
	rr := httptest.NewRecorder()

	middleware.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("Handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
}

func TestAuthMiddleware_OptionsRequest(t *testing.T) {
	// Preflight requests skip auth entirely
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := AuthMiddleware(testHandler)

	req := httptest.NewRequest("OPTIONS", "/api/test", nil)
	rr := httptest.NewRecorder()

	middleware.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("Expected status code %v for OPTIONS request, got %v", http.StatusOK, status)
	}
}

func TestGetIdentityFromContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/test", nil)
	identity := services.Identity{
		Profile: &models.Profile{ID: "test-user-123", Role: models.RoleUser},
		Role:    models.RoleUser,
	}
	req = req.WithContext(context.WithValue(req.Context(), IdentityKey, identity))

	got := GetIdentityFromContext(req)
	if got.Anonymous() {
		t.Fatal("Expected identity from context, got anonymous")
	}
	if got.Profile.ID != "test-user-123" {
		t.Errorf("Expected profile 'test-user-123', got '%s'", got.Profile.ID)
	}

	// A request without an identity yields the anonymous zero value
	emptyReq := httptest.NewRequest("GET", "/api/test", nil)
	if got := GetIdentityFromContext(emptyReq); !got.Anonymous() {
		t.Errorf("Expected anonymous identity, got %+v", got)
	}
}
