package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/templui/photoshare/internal/model"
	"github.com/templui/photoshare/internal/repository"
	"github.com/templui/photoshare/internal/validation"
)

type AlbumService struct {
	albumRepository      repository.AlbumRepository
	albumImageRepository repository.AlbumImageRepository
	now                  func() time.Time
}

func NewAlbumService(albumRepository repository.AlbumRepository, albumImageRepository repository.AlbumImageRepository) *AlbumService {
	return &AlbumService{
		albumRepository:      albumRepository,
		albumImageRepository: albumImageRepository,
		now:                  time.Now,
	}
}

func (s *AlbumService) CreateAlbum(ctx context.Context, userID, name, description string) (*model.Album, error) {
	name, err := validation.ValidateAlbumName(name)
	if err != nil {
		return nil, invalid(err.Error())
	}

	album := &model.Album{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Description: description,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.albumRepository.Create(ctx, album); err != nil {
		return nil, fmt.Errorf("failed to create album: %w", err)
	}

	slog.Info("album created", "user_id", userID, "album_id", album.ID)
	return album, nil
}

func (s *AlbumService) ListAlbums(ctx context.Context, userID string) ([]*model.Album, error) {
	albums, err := s.albumRepository.ByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	return albums, nil
}

// OwnedAlbum resolves the album and checks that userID owns it.
// A missing album is ErrNotFound, someone else's album is ErrForbidden.
func (s *AlbumService) OwnedAlbum(ctx context.Context, userID, albumID string) (*model.Album, error) {
	album, err := s.albumRepository.ByID(ctx, albumID)
	if errors.Is(err, repository.ErrAlbumNotFound) {
		return nil, fmt.Errorf("%w: album not found", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get album: %w", err)
	}
	if album.UserID != userID {
		return nil, fmt.Errorf("%w: album belongs to another user", ErrForbidden)
	}
	return album, nil
}

func (s *AlbumService) ListAlbumImages(ctx context.Context, userID, albumID string) ([]*model.AlbumImage, error) {
	if _, err := s.OwnedAlbum(ctx, userID, albumID); err != nil {
		return nil, err
	}

	images, err := s.albumImageRepository.ByAlbum(ctx, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to list album images: %w", err)
	}
	return images, nil
}
