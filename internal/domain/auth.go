package domain

import "time"

// Token represents issued authentication token metadata.
type Token struct {
	ID        string
	SubjectID string
	Category  StaffCategory
	ExpiresAt time.Time
	IssuedAt  time.Time
}
