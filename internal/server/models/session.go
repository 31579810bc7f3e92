package models

import "time"

// Session maps an opaque bearer token to a user for a fixed lifetime.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}
