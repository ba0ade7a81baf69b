package middleware

import (
	"net/http"

	"assetmanager/backend/models"
	"assetmanager/backend/services"
)

// DecisionKind is the closed set of guard outcomes.
type DecisionKind int

const (
	Allow DecisionKind = iota
	RedirectLogin
	RedirectHome
)

// Decision is the outcome of a guard check. Redirect is set for the two
// redirect kinds.
type Decision struct {
	Kind     DecisionKind
	Redirect string
}

// Guard decides whether an identity may access a surface gated on the given
// role. It is a pure function of its inputs; callers re-run it on every
// request and on every session change, never caching a decision across them.
func Guard(identity services.Identity, required models.Role) Decision {
	if identity.Anonymous() {
		return Decision{Kind: RedirectLogin, Redirect: "/login"}
	}

	if identity.Role != required {
		// Wrong role, or no role at all: send them to the home they do have.
		// RoleNone lands on the user home, the least privileged surface.
		return Decision{Kind: RedirectHome, Redirect: identity.Role.HomeRoute()}
	}

	return Decision{Kind: Allow}
}

// RequireRole gates a subrouter on a role. The identity must already be
// resolved by AuthMiddleware; the guard decision is translated to the JSON
// redirect body the frontend acts on.
func RequireRole(required models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == "OPTIONS" {
				next.ServeHTTP(w, r)
				return
			}

			identity := GetIdentityFromContext(r)

			switch decision := Guard(identity, required); decision.Kind {
			case Allow:
				next.ServeHTTP(w, r)
			case RedirectLogin:
				WriteRedirect(w, http.StatusUnauthorized, decision.Redirect, "no active session")
			case RedirectHome:
				WriteRedirect(w, http.StatusForbidden, decision.Redirect, "insufficient role")
			}
		})
	}
}

// RequireAdmin gates a subrouter on the ADMIN role.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(models.RoleAdmin)
}

// RequireUser gates a subrouter on the USER role.
func RequireUser() func(http.Handler) http.Handler {
	return RequireRole(models.RoleUser)
}
