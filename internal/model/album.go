package model

import (
	"time"
)

type Album struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// AlbumImage belongs to an album and inherits its owner.
type AlbumImage struct {
	ID          string     `db:"id"`
	AlbumID     string     `db:"album_id"`
	Filename    string     `db:"filename"`
	Description string     `db:"description"`
	TakenAt     *time.Time `db:"taken_at"`
	Location    *string    `db:"location"`
	UploadedAt  time.Time  `db:"uploaded_at"`
}
