package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash and is never serialized to clients.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	Picture   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
