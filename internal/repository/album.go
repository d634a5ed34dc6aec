package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/photoshare/internal/model"
)

var ErrAlbumNotFound = errors.New("album not found")

type AlbumRepository interface {
	Create(ctx context.Context, album *model.Album) error
	ByID(ctx context.Context, id string) (*model.Album, error)
	ByUser(ctx context.Context, userID string) ([]*model.Album, error)
}

type albumRepository struct {
	db *sqlx.DB
}

func NewAlbumRepository(db *sqlx.DB) AlbumRepository {
	return &albumRepository{db: db}
}

const albumColumns = `id, user_id, name, description, created_at`

func (r *albumRepository) Create(ctx context.Context, album *model.Album) error {
	query := `INSERT INTO albums (id, user_id, name, description, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, album.ID, album.UserID, album.Name, album.Description, album.CreatedAt)
	return err
}

func (r *albumRepository) ByID(ctx context.Context, id string) (*model.Album, error) {
	album := &model.Album{}
	query := `SELECT ` + albumColumns + ` FROM albums WHERE id = $1`

	err := r.db.GetContext(ctx, album, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAlbumNotFound
	}
	if err != nil {
		return nil, err
	}
	return album, nil
}

func (r *albumRepository) ByUser(ctx context.Context, userID string) ([]*model.Album, error) {
	albums := []*model.Album{}
	query := `SELECT ` + albumColumns + ` FROM albums WHERE user_id = $1 ORDER BY created_at DESC, name`

	if err := r.db.SelectContext(ctx, &albums, query, userID); err != nil {
		return nil, err
	}
	return albums, nil
}
