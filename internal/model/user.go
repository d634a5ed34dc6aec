package model

import (
	"time"
)

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Username     *string   `db:"username"` // Nullable until the owner edits the profile
	Bio          *string   `db:"bio"`
	CreatedAt    time.Time `db:"created_at"`
}

// DisplayName is the username, or the email when none has been set.
func (u *User) DisplayName() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	return u.Email
}

// BioText returns the bio or an empty string.
func (u *User) BioText() string {
	if u.Bio == nil {
		return ""
	}
	return *u.Bio
}
