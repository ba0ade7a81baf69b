package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"assetmanager/backend/models"
	"assetmanager/backend/services"
)

func identityWithRole(id string, role models.Role) services.Identity {
	return services.Identity{
		Profile: &models.Profile{ID: id, Role: role},
		Role:    role,
	}
}

func TestGuardDecisions(t *testing.T) {
	tests := []struct {
		name         string
		identity     services.Identity
		required     models.Role
		wantKind     DecisionKind
		wantRedirect string
	}{
		{
			name:     "admin on admin surface",
			identity: identityWithRole("a1", models.RoleAdmin),
			required: models.RoleAdmin,
			wantKind: Allow,
		},
		{
			name:     "user on user surface",
			identity: identityWithRole("u1", models.RoleUser),
			required: models.RoleUser,
			wantKind: Allow,
		},
		{
			name:         "anonymous on admin surface",
			identity:     services.Identity{},
			required:     models.RoleAdmin,
			wantKind:     RedirectLogin,
			wantRedirect: "/login",
		},
		{
			name:         "anonymous on user surface",
			identity:     services.Identity{},
			required:     models.RoleUser,
			wantKind:     RedirectLogin,
			wantRedirect: "/login",
		},
		{
			name:         "user on admin surface",
			identity:     identityWithRole("u1", models.RoleUser),
			required:     models.RoleAdmin,
			wantKind:     RedirectHome,
			wantRedirect: "/user/dashboard",
		},
		{
			name:         "admin on user surface",
			identity:     identityWithRole("a1", models.RoleAdmin),
			required:     models.RoleUser,
			wantKind:     RedirectHome,
			wantRedirect: "/admin/dashboard",
		},
		{
			name:         "roleless profile on admin surface",
			identity:     identityWithRole("x1", models.RoleNone),
			required:     models.RoleAdmin,
			wantKind:     RedirectHome,
			wantRedirect: "/user/dashboard",
		},
		{
			name:         "roleless profile on user surface",
			identity:     identityWithRole("x1", models.RoleNone),
			required:     models.RoleUser,
			wantKind:     RedirectHome,
			wantRedirect: "/user/dashboard",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Guard(tt.identity, tt.required)

			if decision.Kind != tt.wantKind {
				t.Errorf("Expected kind %v, got %v", tt.wantKind, decision.Kind)
			}
			if decision.Redirect != tt.wantRedirect {
				t.Errorf("Expected redirect '%s', got '%s'", tt.wantRedirect, decision.Redirect)
			}
		})
	}
}

// A non-admin identity must never reach an admin-gated handler, whatever its
// role value is.
func TestGuardNeverAllowsNonAdminOnAdminSurface(t *testing.T) {
	identities := []services.Identity{
		{},
		identityWithRole("u1", models.RoleUser),
		identityWithRole("x1", models.RoleNone),
		identityWithRole("w1", models.Role("SOMETHING_ELSE")),
	}

	for _, identity := range identities {
		if decision := Guard(identity, models.RoleAdmin); decision.Kind == Allow {
			t.Errorf("Expected deny for role '%s', got Allow", identity.Role)
		}
	}
}

func TestRequireAdminMiddleware(t *testing.T) {
	var reached bool
	handler := RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		identity   services.Identity
		wantStatus int
		wantReach  bool
	}{
		{"admin passes", identityWithRole("a1", models.RoleAdmin), http.StatusOK, true},
		{"user is redirected home", identityWithRole("u1", models.RoleUser), http.StatusForbidden, false},
		{"anonymous is redirected to login", services.Identity{}, http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false

			req := httptest.NewRequest("GET", "/admin/assets", nil)
			if !tt.identity.Anonymous() {
				req = req.WithContext(context.WithValue(req.Context(), IdentityKey, tt.identity))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status code %d, got %d", tt.wantStatus, w.Code)
			}
			if reached != tt.wantReach {
				t.Errorf("Expected handler reached=%v, got %v", tt.wantReach, reached)
			}

			if !tt.wantReach {
				var body map[string]string
				if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
					t.Fatalf("Error decoding redirect body: %v", err)
				}
				if body["redirect"] == "" {
					t.Error("Expected a redirect route in the body")
				}
			}
		})
	}
}

func TestRequireRoleSkipsPreflight(t *testing.T) {
	handler := RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest("OPTIONS", "/admin/assets", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected preflight to pass through, got %d", w.Code)
	}
}
