package models

import "time"

// Profile is the application-side record for an identity-provider account.
// The provider owns credentials; we own the display name and role.
type Profile struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
