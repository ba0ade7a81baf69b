package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"assetmanager/backend/middleware"
	"assetmanager/backend/models"
	"assetmanager/backend/services"

	"github.com/gorilla/mux"
)

// GetProfiles lists every profile, newest first. Admin-only at the route
// level.
func GetProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := services.ListProfiles()
	if err != nil {
		writeError(w, err)
		return
	}

	if profiles == nil {
		profiles = []models.Profile{}
	}
	writeJSON(w, profiles)
}

// InviteUser provisions a provider account and a USER profile for a new
// person. The provider delivers the invitation email itself.
func InviteUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		FullName string `json:"fullName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := services.InviteUser(r.Context(), middleware.AccountProvisioner(), body.Email, body.FullName)
	if err != nil {
		log.Printf("Failed to invite %s: %v", body.Email, err)
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"profile": profile,
	})
}

// SetUserRole updates a profile's role. Admin-only at the route level.
func SetUserRole(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := services.SetProfileRole(id, models.ParseRole(body.Role)); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
