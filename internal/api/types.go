// Package api holds the JSON shapes shared by the HTTP handlers and the client.
package api

import (
	"time"

	"github.com/templui/photoshare/internal/model"
)

// Wire layouts for timestamps.
const (
	UploadedAtLayout = "2006-01-02 15:04"
	TakenAtLayout    = "2006-01-02 15:04:05"
)

// MediaURL is where a stored file is served from.
func MediaURL(filename string) string {
	return "/uploads/" + filename
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Profile struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Bio        string `json:"bio"`
	PictureURL string `json:"picture_url,omitempty"`
}

// ProfileEdit is a partial update; omitted fields are left unchanged.
type ProfileEdit struct {
	Username *string `json:"username,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

type ProfileEdited struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
}

type PictureUploaded struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

type ImageUploaded struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type Image struct {
	Filename    string `json:"filename"`
	Description string `json:"description"`
	UploadedAt  string `json:"uploaded_at"`
	URL         string `json:"url"`
}

func NewImage(img *model.Image) Image {
	return Image{
		Filename:    img.Filename,
		Description: img.Description,
		UploadedAt:  img.UploadedAt.UTC().Format(UploadedAtLayout),
		URL:         MediaURL(img.Filename),
	}
}

type AlbumCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Album struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

func NewAlbum(a *model.Album) Album {
	return Album{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		CreatedAt:   a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type AlbumImage struct {
	Filename    string `json:"filename"`
	Description string `json:"description"`
	UploadedAt  string `json:"uploaded_at"`
	TakenAt     string `json:"taken_at,omitempty"`
	Location    string `json:"location,omitempty"`
	URL         string `json:"url"`
}

func NewAlbumImage(img *model.AlbumImage) AlbumImage {
	out := AlbumImage{
		Filename:    img.Filename,
		Description: img.Description,
		UploadedAt:  img.UploadedAt.UTC().Format(UploadedAtLayout),
		URL:         MediaURL(img.Filename),
	}
	if img.TakenAt != nil {
		out.TakenAt = img.TakenAt.Format(TakenAtLayout)
	}
	if img.Location != nil {
		out.Location = *img.Location
	}
	return out
}

type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
