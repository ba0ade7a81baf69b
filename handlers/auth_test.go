package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"assetmanager/backend/database"
	"assetmanager/backend/models"
	"assetmanager/backend/services"
)

func TestGetSessionDevModeResolvesBootstrapAdmin(t *testing.T) {
	SetupTestDB()
	defer CleanupTestDB()

	// Seed the bootstrap admin so the dev-mode resolver finds a real profile
	_, err := database.DB.Exec(
		"INSERT INTO profiles (id, full_name, role) VALUES ('admin-user-1', 'Dev Admin', 'ADMIN')")
	if err != nil {
		t.Fatal(err)
	}
	services.FlushIdentityCache()

	req := httptest.NewRequest("POST", "/auth/session", nil)
	w := httptest.NewRecorder()

	GetSession(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var response struct {
		Role string `json:"role"`
		Home string `json:"home"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Error decoding response: %v", err)
	}

	if response.Role != "ADMIN" {
		t.Errorf("Expected role ADMIN, got '%s'", response.Role)
	}
	if response.Home != "/admin/dashboard" {
		t.Errorf("Expected home '/admin/dashboard', got '%s'", response.Home)
	}
}

func TestLogoutBroadcastsSessionChange(t *testing.T) {
	SetupTestDB()
	defer CleanupTestDB()

	var gotEvent services.SessionEvent
	unsubscribe := services.OnSessionChange(func(ev services.SessionEvent) {
		gotEvent = ev
	})
	defer unsubscribe()

	req := NewAuthenticatedRequest("POST", "/auth/logout", nil, TestIdentity(TestUserID, models.RoleUser))
	w := httptest.NewRecorder()

	Logout(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var response struct {
		Redirect string `json:"redirect"`
		Reload   bool   `json:"reload"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Error decoding response: %v", err)
	}

	if response.Redirect != "/login" {
		t.Errorf("Expected redirect '/login', got '%s'", response.Redirect)
	}
	if !response.Reload {
		t.Error("Expected reload true so the client discards in-memory state")
	}

	if gotEvent.Type != services.SessionSignedOut || gotEvent.UID != TestUserID {
		t.Errorf("Expected signed_out event for %s, got %+v", TestUserID, gotEvent)
	}
}

func TestLogoutWithoutSession(t *testing.T) {
	SetupTestDB()
	defer CleanupTestDB()

	req := WithIdentity(httptest.NewRequest("POST", "/auth/logout", nil), services.Identity{})
	w := httptest.NewRecorder()

	Logout(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code %d, got %d", http.StatusUnauthorized, w.Code)
	}

	var response map[string]string
	json.NewDecoder(w.Body).Decode(&response)
	if response["redirect"] != "/login" {
		t.Errorf("Expected redirect '/login', got '%s'", response["redirect"])
	}
}
