package models

import (
	"time"

	"blogdesk/app/credentials"
)

// Validate checks the user against its column bounds.
func (u *User) Validate() error {
	return validate.Struct(u)
}

// BeforeCreate stamps the creation time if it is unset.
func (u *User) BeforeCreate() {
	if u.DateAdded.IsZero() {
		u.DateAdded = time.Now().UTC()
	}
}

// SetPassword replaces the stored hash with one derived from plain.
func (u *User) SetPassword(plain string) error {
	hash, err := credentials.Hash(plain)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// VerifyPassword reports whether plain matches the stored hash.
func (u *User) VerifyPassword(plain string) bool {
	return credentials.Verify(plain, u.PasswordHash)
}

func (u *User) String() string {
	return u.Username
}
