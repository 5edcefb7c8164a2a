package domain

import "time"

// APIKey authorizes administrative operations such as manual rate-sheet
// uploads. Only the sha256 hash of the token is ever stored.
type APIKey struct {
	TokenHash string
	Name      string
	Active    bool
	CreatedAt time.Time
}
