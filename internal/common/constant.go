// Package common contains shared constants and sentinel errors used across
// MoodDiary components.
package common

// DateLayout is the canonical day-granularity date format used for entry
// keys, month index keys and API paths.
const DateLayout = "2006-01-02"

// AuthHeaderName is the HTTP header carrying the bearer access token.
const AuthHeaderName = "Authorization"
