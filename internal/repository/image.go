package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/photoshare/internal/model"
)

var (
	ErrImageNotFound     = errors.New("image not found")
	ErrDuplicateFilename = errors.New("filename already exists")
)

type ImageRepository interface {
	Create(ctx context.Context, image *model.Image) error
	ByOwnerAndFilename(ctx context.Context, userID, filename string) (*model.Image, error)
	ByUser(ctx context.Context, userID string) ([]*model.Image, error)
	FilenameExists(ctx context.Context, filename string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type imageRepository struct {
	db *sqlx.DB
}

func NewImageRepository(db *sqlx.DB) ImageRepository {
	return &imageRepository{db: db}
}

const imageColumns = `id, user_id, filename, description, uploaded_at`

func (r *imageRepository) Create(ctx context.Context, image *model.Image) error {
	query := `INSERT INTO images (id, user_id, filename, description, uploaded_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, image.ID, image.UserID, image.Filename, image.Description, image.UploadedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateFilename
	}
	return err
}

// ByOwnerAndFilename only finds the image when userID owns it.
func (r *imageRepository) ByOwnerAndFilename(ctx context.Context, userID, filename string) (*model.Image, error) {
	image := &model.Image{}
	query := `SELECT ` + imageColumns + ` FROM images WHERE user_id = $1 AND filename = $2`

	err := r.db.GetContext(ctx, image, query, userID, filename)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}
	return image, nil
}

func (r *imageRepository) ByUser(ctx context.Context, userID string) ([]*model.Image, error) {
	images := []*model.Image{}
	query := `SELECT ` + imageColumns + ` FROM images WHERE user_id = $1 ORDER BY uploaded_at DESC, filename`

	if err := r.db.SelectContext(ctx, &images, query, userID); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *imageRepository) FilenameExists(ctx context.Context, filename string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM images WHERE filename = $1)`

	err := r.db.GetContext(ctx, &exists, query, filename)
	return exists, err
}

func (r *imageRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM images WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireRow(result, ErrImageNotFound)
}
