package handlers

import (
	"log"
	"net/http"

	"assetmanager/backend/middleware"
	"assetmanager/backend/models"
	"assetmanager/backend/services"
)

// GetSession resolves the current session and reports the role and the home
// route the client must land on. The login page calls this right after
// sign-in to pick the redirect target.
func GetSession(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.ResolveRequestIdentity(r)
	if err != nil {
		log.Printf("Error resolving session: %v", err)
		middleware.WriteRedirect(w, http.StatusUnauthorized, "/login", "could not verify session")
		return
	}

	if identity.Anonymous() {
		middleware.WriteRedirect(w, http.StatusUnauthorized, "/login", "no active session")
		return
	}

	if identity.Role == models.RoleNone {
		// Authenticated but no usable profile row. Not an ADMIN, not a USER.
		writeJSONError(w, http.StatusForbidden, "your profile is not set up correctly")
		return
	}

	services.PublishSessionChange(services.SessionEvent{
		Type: services.SessionSignedIn,
		UID:  identity.Profile.ID,
	})

	writeJSON(w, map[string]interface{}{
		"user": identity.Profile,
		"role": identity.Role,
		"home": identity.Role.HomeRoute(),
	})
}

// Logout revokes the session with the identity provider and broadcasts the
// change so nothing decided under the old session survives. The reload flag
// tells the client to hard-reload onto the login route rather than routing
// client side, so no in-memory state from the previous principal leaks.
func Logout(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)
	if identity.Anonymous() {
		middleware.WriteRedirect(w, http.StatusUnauthorized, "/login", "no active session")
		return
	}

	uid := identity.Profile.ID

	if err := middleware.RevokeUserSessions(r.Context(), uid); err != nil {
		// The local session state is still torn down; log and continue
		log.Printf("Error revoking sessions for %s: %v", uid, err)
	}

	services.PublishSessionChange(services.SessionEvent{
		Type: services.SessionSignedOut,
		UID:  uid,
	})

	writeJSON(w, map[string]interface{}{
		"redirect": "/login",
		"reload":   true,
	})
}
