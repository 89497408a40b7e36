package domain

import "time"

// User represents an identity provisioned from the external provider.
// The ID is the provider-issued subject; username and email are unique.
type User struct {
	ID         string    `json:"id"`
	GivenName  string    `json:"given_name"`
	FamilyName string    `json:"family_name"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	if u.GivenName == "" {
		return u.FamilyName
	}
	if u.FamilyName == "" {
		return u.GivenName
	}
	return u.GivenName + " " + u.FamilyName
}
