package services

import (
	"context"
	"fmt"
	"strings"

	"assetmanager/backend/models"
)

// AccountProvisioner creates a login account with the identity provider and
// returns its user id. The provider sends its own invitation email; we never
// handle credentials here.
type AccountProvisioner interface {
	CreateAccount(ctx context.Context, email string) (uid string, err error)
}

// InviteUser provisions a provider-level account plus the application profile
// row, role USER. If the profile insert fails after the provider account was
// created, the error reports the half-finished state rather than hiding it.
func InviteUser(ctx context.Context, provisioner AccountProvisioner, email, fullName string) (*models.Profile, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &models.ValidationError{Message: "email is required"}
	}

	uid, err := provisioner.CreateAccount(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider account: %w", err)
	}

	profile, err := CreateProfile(uid, fullName, models.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("provider account %s created but profile insert failed: %w", uid, err)
	}

	return profile, nil
}
