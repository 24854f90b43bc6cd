// Package models defines the server-side persistence structures.
package models

// User is an account row. PasswordHash is a bcrypt hash; AvatarLocator
// points at the profile picture in blob storage, empty when unset.
type User struct {
	ID            string
	UserName      string
	PasswordHash  []byte
	AvatarLocator string
}
