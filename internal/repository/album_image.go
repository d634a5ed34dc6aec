package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/templui/photoshare/internal/model"
)

type AlbumImageRepository interface {
	Create(ctx context.Context, image *model.AlbumImage) error
	ByAlbum(ctx context.Context, albumID string) ([]*model.AlbumImage, error)
	FilenamesByUser(ctx context.Context, userID string) ([]string, error)
	FilenameExists(ctx context.Context, filename string) (bool, error)
}

type albumImageRepository struct {
	db *sqlx.DB
}

func NewAlbumImageRepository(db *sqlx.DB) AlbumImageRepository {
	return &albumImageRepository{db: db}
}

func (r *albumImageRepository) Create(ctx context.Context, image *model.AlbumImage) error {
	query := `INSERT INTO album_images (id, album_id, filename, description, taken_at, location, uploaded_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		image.ID,
		image.AlbumID,
		image.Filename,
		image.Description,
		image.TakenAt,
		image.Location,
		image.UploadedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateFilename
	}
	return err
}

func (r *albumImageRepository) ByAlbum(ctx context.Context, albumID string) ([]*model.AlbumImage, error) {
	images := []*model.AlbumImage{}
	query := `SELECT id, album_id, filename, description, taken_at, location, uploaded_at
	          FROM album_images WHERE album_id = $1 ORDER BY uploaded_at DESC, filename`

	if err := r.db.SelectContext(ctx, &images, query, albumID); err != nil {
		return nil, err
	}
	return images, nil
}

// FilenamesByUser lists the storage names of every image in the user's albums.
func (r *albumImageRepository) FilenamesByUser(ctx context.Context, userID string) ([]string, error) {
	filenames := []string{}
	query := `SELECT ai.filename FROM album_images ai JOIN albums a ON a.id = ai.album_id WHERE a.user_id = $1`

	if err := r.db.SelectContext(ctx, &filenames, query, userID); err != nil {
		return nil, err
	}
	return filenames, nil
}

func (r *albumImageRepository) FilenameExists(ctx context.Context, filename string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM album_images WHERE filename = $1)`

	err := r.db.GetContext(ctx, &exists, query, filename)
	return exists, err
}
