// Package user defines the user model used throughout the application,
// particularly for authentication and ownership of todo lists.
package user

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the cost the provisioning tool has always used;
// existing hashes stay verifiable if it changes.
const bcryptCost = 10

// User represents a system user. Users are created by the out-of-band
// provisioning tool, never by the running API.
type User struct {
	// ID is the unique identifier of the user, meaning a UUID.
	ID string `json:"id"`

	// Username is unique across the system and matched exactly at login.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the user's password. API responses
	// use models.UserProfile so the hash never leaves the server; the json
	// tag exists for the file-backed store only.
	PasswordHash string `json:"password_hash"`
}

// SetPassword replaces the stored hash with a bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)

	return nil
}

// CheckPassword reports whether password matches the stored hash using
// bcrypt's constant-time comparison.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
