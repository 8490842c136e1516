package entity

import (
	"time"
)

// Post is a blog entry owned by a user. UserID is captured from the verified
// token at creation time, never from client input.
type Post struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Detail    string    `json:"detail"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
