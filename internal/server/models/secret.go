package models

// Secret is the per-user access-gate PIN, one row per user.
type Secret struct {
	UserID string
	Pin    string
}
