package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/photoshare/internal/imageproc"
	"github.com/templui/photoshare/internal/model"
	"github.com/templui/photoshare/internal/repository"
	"github.com/templui/photoshare/internal/storage"
	"github.com/templui/photoshare/internal/validation"
)

// Upload is a file received from a client.
type Upload struct {
	Filename string
	Body     io.Reader
}

// AlbumImageInput carries the caller-supplied metadata of an album image.
type AlbumImageInput struct {
	Description string
	TakenAt     *time.Time
	Location    string
}

func ProfilePictureName(userID string) string {
	return "profile_" + userID + ".jpg"
}

func postName(userID, base string) string {
	return "user" + userID + "_" + base
}

func albumImageName(albumID, base string) string {
	return "album" + albumID + "_" + base
}

type MediaService struct {
	imageRepository      repository.ImageRepository
	albumImageRepository repository.AlbumImageRepository
	albums               *AlbumService
	storage              storage.Storage
	jpegQuality          int
	now                  func() time.Time
}

func NewMediaService(
	imageRepository repository.ImageRepository,
	albumImageRepository repository.AlbumImageRepository,
	albums *AlbumService,
	storage storage.Storage,
	jpegQuality int,
) *MediaService {
	return &MediaService{
		imageRepository:      imageRepository,
		albumImageRepository: albumImageRepository,
		albums:               albums,
		storage:              storage,
		jpegQuality:          jpegQuality,
		now:                  time.Now,
	}
}

// UploadProfilePicture normalizes the picture to JPEG and overwrites the user's previous one.
func (s *MediaService) UploadProfilePicture(ctx context.Context, userID string, up Upload) (string, error) {
	if up.Body == nil || up.Filename == "" {
		return "", invalid("no file selected")
	}
	if err := validation.ValidateImageExtension(up.Filename); err != nil {
		return "", invalid(err.Error())
	}

	data, err := imageproc.NormalizeJPEG(up.Body, s.jpegQuality)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProcessing, err)
	}

	name := ProfilePictureName(userID)
	if err := s.storage.Put(ctx, name, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrIO, err)
	}

	slog.Info("profile picture updated", "user_id", userID, "bytes", len(data))
	return name, nil
}

func (s *MediaService) CreatePost(ctx context.Context, userID string, up Upload, description string) (*model.Image, error) {
	base, err := uploadBaseName(up)
	if err != nil {
		return nil, err
	}
	name := postName(userID, base)

	taken, err := s.imageRepository.FilenameExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check filename: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: a post named %q already exists", ErrConflict, base)
	}

	image := &model.Image{
		ID:          uuid.New().String(),
		UserID:      userID,
		Filename:    name,
		Description: description,
		UploadedAt:  s.now().UTC(),
	}
	err = s.storeThenRecord(ctx, name, up.Body, func() error {
		return s.imageRepository.Create(ctx, image)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("image uploaded", "user_id", userID, "filename", name)
	return image, nil
}

func (s *MediaService) AddAlbumImage(ctx context.Context, userID, albumID string, up Upload, in AlbumImageInput) (*model.AlbumImage, error) {
	if _, err := s.albums.OwnedAlbum(ctx, userID, albumID); err != nil {
		return nil, err
	}

	base, err := uploadBaseName(up)
	if err != nil {
		return nil, err
	}
	name := albumImageName(albumID, base)

	taken, err := s.albumImageRepository.FilenameExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check filename: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: album already has an image named %q", ErrConflict, base)
	}

	image := &model.AlbumImage{
		ID:          uuid.New().String(),
		AlbumID:     albumID,
		Filename:    name,
		Description: in.Description,
		TakenAt:     in.TakenAt,
		UploadedAt:  s.now().UTC(),
	}
	if loc := strings.TrimSpace(in.Location); loc != "" {
		image.Location = &loc
	}

	err = s.storeThenRecord(ctx, name, up.Body, func() error {
		return s.albumImageRepository.Create(ctx, image)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("album image uploaded", "user_id", userID, "album_id", albumID, "filename", name)
	return image, nil
}

// storeThenRecord writes the blob exclusively, then runs insert. If the insert
// fails the blob written here is removed again, so no record is left without
// a blob and no blob without a record.
func (s *MediaService) storeThenRecord(ctx context.Context, name string, body io.Reader, insert func() error) error {
	err := s.storage.Create(ctx, name, body)
	if errors.Is(err, storage.ErrExists) {
		return fmt.Errorf("%w: %s already exists", ErrConflict, name)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	if err := insert(); err != nil {
		if delErr := s.storage.Delete(context.WithoutCancel(ctx), name); delErr != nil {
			slog.Error("failed to delete blob during cleanup", "error", delErr, "filename", name)
		}
		if errors.Is(err, repository.ErrDuplicateFilename) {
			return fmt.Errorf("%w: %s already exists", ErrConflict, name)
		}
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

func (s *MediaService) ListImages(ctx context.Context, userID string) ([]*model.Image, error) {
	images, err := s.imageRepository.ByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}

// DeleteImage removes the blob first and the record second. If the blob
// cannot be removed the record stays so the post is still visible.
func (s *MediaService) DeleteImage(ctx context.Context, userID, filename string) error {
	image, err := s.imageRepository.ByOwnerAndFilename(ctx, userID, filename)
	if errors.Is(err, repository.ErrImageNotFound) {
		return fmt.Errorf("%w: image not found", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get image: %w", err)
	}

	if err := s.storage.Delete(ctx, image.Filename); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	if err := s.imageRepository.Delete(ctx, image.ID); err != nil && !errors.Is(err, repository.ErrImageNotFound) {
		return fmt.Errorf("failed to delete image record: %w", err)
	}

	slog.Info("image deleted", "user_id", userID, "filename", filename)
	return nil
}

// Open returns a stored blob for serving.
func (s *MediaService) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	rc, err := s.storage.Open(ctx, filename)
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
		return nil, fmt.Errorf("%w: file not found", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return rc, nil
}

func uploadBaseName(up Upload) (string, error) {
	if up.Body == nil || up.Filename == "" {
		return "", invalid("no file selected")
	}
	base, err := validation.SanitizeFilename(up.Filename)
	if err != nil {
		return "", invalid(err.Error())
	}
	return base, nil
}
