package domain

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Token mirrors a minted access token on the server side. The row, not the
// token's own exp claim, is authoritative for expiry and revocation.
type Token struct {
	ID          string
	Username    string
	AccessToken string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}
