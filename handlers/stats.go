package handlers

import (
	"net/http"

	"assetmanager/backend/middleware"
	"assetmanager/backend/services"
)

// GetAdminStats returns the admin dashboard counts.
func GetAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := services.GetAdminStats()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, stats)
}

// GetUserStats returns the acting user's own asset count and total value.
func GetUserStats(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	stats, err := services.GetUserStats(identity.Profile.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, stats)
}
