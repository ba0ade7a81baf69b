package services

import (
	"database/sql"
	"fmt"
	"strings"

	"assetmanager/backend/database"
	"assetmanager/backend/models"
)

// ListProfiles returns all profiles, newest first. Admin-only at the route
// level.
func ListProfiles() ([]models.Profile, error) {
	rows, err := database.DB.Query(`
		SELECT id, full_name, role, created_at
		FROM profiles
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		var role string
		var fullName sql.NullString
		if err := rows.Scan(&p.ID, &fullName, &role, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		if fullName.Valid {
			p.FullName = fullName.String
		}
		p.Role = models.ParseRole(role)
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

// CreateProfile provisions the application-side record for a provider
// account. New profiles default to the USER role; only a later admin action
// can change it.
func CreateProfile(id, fullName string, role models.Role) (*models.Profile, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &models.ValidationError{Message: "profile id is required"}
	}
	if role == models.RoleNone {
		role = models.RoleUser
	}

	_, err := database.DB.Exec(
		"INSERT INTO profiles (id, full_name, role) VALUES (?, ?, ?)",
		id, strings.TrimSpace(fullName), string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to insert profile: %w", err)
	}

	identity := LookupIdentity(id)
	return identity.Profile, nil
}

// SetProfileRole changes a profile's role. Admin-only at the route level.
func SetProfileRole(id string, role models.Role) error {
	if role != models.RoleAdmin && role != models.RoleUser {
		return &models.ValidationError{Message: "role must be ADMIN or USER"}
	}

	result, err := database.DB.Exec(
		"UPDATE profiles SET role = ? WHERE id = ?", string(role), id)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return &models.NotFoundError{Resource: "profile"}
	}

	// Role changes take effect on the next guard evaluation
	PublishSessionChange(SessionEvent{Type: SessionTokenRefreshed, UID: id})
	return nil
}
