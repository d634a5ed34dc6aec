package model

import (
	"time"
)

// Image is a post: a single uploaded file owned by one user.
type Image struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Filename    string    `db:"filename"` // Storage name, unique across all posts
	Description string    `db:"description"`
	UploadedAt  time.Time `db:"uploaded_at"`
}
