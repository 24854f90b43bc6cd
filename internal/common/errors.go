// Package common defines shared constants and sentinel errors used across
// client and server layers of MoodDiary. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal         = errors.New("internal error")
	ErrNotAuthenticated = errors.New("not authenticated")

	// Save protocol errors. ErrUpsertFailed aborts a save before anything
	// was uploaded; ErrUploadFailed and ErrLinkFailed are per-item outcomes
	// and never abort sibling items.
	ErrUpsertFailed = errors.New("entry upsert failed")
	ErrUploadFailed = errors.New("media upload failed")
	ErrLinkFailed   = errors.New("media link failed")
	ErrDeleteFailed = errors.New("media delete failed")
	ErrSaveInFlight = errors.New("save already in flight")
	ErrEntryNotOpen = errors.New("no entry open")

	// Access gate errors.
	ErrPinMismatch  = errors.New("pin confirmation mismatch")
	ErrPinIncorrect = errors.New("incorrect pin")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	ErrLoginAlreadyExists   = errors.New("login already exists")
	ErrInvalidLoginPassword = errors.New("invalid login/password")
)
