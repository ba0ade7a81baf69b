package services

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"time"

	"assetmanager/backend/database"
	"assetmanager/backend/models"
)

// Identity is the resolved principal for a request. Profile nil means
// anonymous. Profile set with Role == RoleNone means the session is valid but
// no usable profile row exists: authenticated, unauthorized for any
// role-gated surface.
type Identity struct {
	Profile *models.Profile
	Role    models.Role
}

// Anonymous reports whether no session was presented or the session was
// invalid.
func (id Identity) Anonymous() bool {
	return id.Profile == nil
}

// TokenVerifier checks a raw session token with the identity provider and
// returns the provider user id. Implemented by the auth middleware; tests
// substitute their own.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (uid string, err error)
}

// Resolved identities are cached briefly per token so a burst of guard checks
// for one page load costs one provider round trip. Entries are dropped on any
// session-change event, so a decision never outlives a logout.
const identityCacheTTL = 30 * time.Second

type identityCacheEntry struct {
	identity Identity
	expires  time.Time
}

var (
	identityCacheMu sync.Mutex
	identityCache   = make(map[string]identityCacheEntry)
)

func init() {
	OnSessionChange(func(ev SessionEvent) {
		identityCacheMu.Lock()
		defer identityCacheMu.Unlock()
		for token, entry := range identityCache {
			if entry.identity.Profile == nil || entry.identity.Profile.ID == ev.UID || ev.UID == "" {
				delete(identityCache, token)
			}
		}
	})
}

// ResolveIdentity resolves the current principal and role for a session
// token. An absent or invalid token yields an anonymous Identity, not an
// error; a valid token whose profile row is missing or unreadable yields the
// principal with RoleNone. Callers must not render any role-gated data until
// this returns.
func ResolveIdentity(ctx context.Context, verifier TokenVerifier, idToken string) (Identity, error) {
	if idToken == "" {
		return Identity{}, nil
	}

	identityCacheMu.Lock()
	if entry, ok := identityCache[idToken]; ok && time.Now().Before(entry.expires) {
		identityCacheMu.Unlock()
		return entry.identity, nil
	}
	identityCacheMu.Unlock()

	uid, err := verifier.VerifyToken(ctx, idToken)
	if err != nil {
		// Expired, revoked or malformed token. Treated as no session.
		log.Printf("Token verification failed: %v", err)
		return Identity{}, nil
	}

	identity := LookupIdentity(uid)

	identityCacheMu.Lock()
	identityCache[idToken] = identityCacheEntry{
		identity: identity,
		expires:  time.Now().Add(identityCacheTTL),
	}
	identityCacheMu.Unlock()

	return identity, nil
}

// LookupIdentity loads the profile and role for a verified provider uid.
// A missing or unreadable profile row does not default to either role.
func LookupIdentity(uid string) Identity {
	var profile models.Profile
	var role string
	var fullName sql.NullString
	var createdAt sql.NullTime

	err := database.DB.QueryRow(
		"SELECT id, full_name, role, created_at FROM profiles WHERE id = ?",
		uid).Scan(&profile.ID, &fullName, &role, &createdAt)

	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("Error reading profile for uid %s: %v", uid, err)
		}
		// Authenticated but no profile: principal known, role none.
		return Identity{
			Profile: &models.Profile{ID: uid},
			Role:    models.RoleNone,
		}
	}

	if fullName.Valid {
		profile.FullName = fullName.String
	}
	if createdAt.Valid {
		profile.CreatedAt = createdAt.Time
	}
	profile.Role = models.ParseRole(role)

	return Identity{Profile: &profile, Role: profile.Role}
}

// FlushIdentityCache clears all cached identities. Used by tests.
func FlushIdentityCache() {
	identityCacheMu.Lock()
	defer identityCacheMu.Unlock()
	identityCache = make(map[string]identityCacheEntry)
}
