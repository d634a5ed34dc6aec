package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/templui/photoshare/internal/model"
	"github.com/templui/photoshare/internal/repository"
	"github.com/templui/photoshare/internal/storage"
	"github.com/templui/photoshare/internal/validation"
)

type UserService struct {
	userRepository       repository.UserRepository
	imageRepository      repository.ImageRepository
	albumImageRepository repository.AlbumImageRepository
	storage              storage.Storage
}

func NewUserService(
	userRepository repository.UserRepository,
	imageRepository repository.ImageRepository,
	albumImageRepository repository.AlbumImageRepository,
	storage storage.Storage,
) *UserService {
	return &UserService{
		userRepository:       userRepository,
		imageRepository:      imageRepository,
		albumImageRepository: albumImageRepository,
		storage:              storage,
	}
}

// Profile is a user together with the storage name of their picture, if any.
type Profile struct {
	User    *model.User
	Picture string
}

// ProfileUpdate holds the fields to change. Nil fields are left as they are.
type ProfileUpdate struct {
	Username *string
	Bio      *string
}

func (s *UserService) Profile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.byID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: user}
	name := ProfilePictureName(userID)
	ok, err := s.storage.Exists(ctx, name)
	if err != nil {
		slog.Warn("failed to check profile picture", "error", err, "user_id", userID)
	}
	if ok {
		profile.Picture = name
	}
	return profile, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*model.User, error) {
	if err := validation.ValidateProfile(update.Username, update.Bio); err != nil {
		return nil, invalid(err.Error())
	}

	if update.Username != nil || update.Bio != nil {
		err := s.userRepository.UpdateProfile(ctx, userID, update.Username, update.Bio)
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnknownUser
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
		slog.Info("profile updated", "user_id", userID)
	}

	return s.byID(ctx, userID)
}

// DeleteAccount removes every blob the user owns, then the user. Albums and
// image records follow through ON DELETE CASCADE.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	images, err := s.imageRepository.ByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list images: %w", err)
	}
	albumFiles, err := s.albumImageRepository.FilenamesByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list album images: %w", err)
	}

	names := make([]string, 0, len(images)+len(albumFiles)+1)
	for _, img := range images {
		names = append(names, img.Filename)
	}
	names = append(names, albumFiles...)
	names = append(names, ProfilePictureName(userID))

	for _, name := range names {
		if err := s.storage.Delete(ctx, name); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	}

	err = s.userRepository.Delete(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUnknownUser
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("account deleted", "user_id", userID, "blobs", len(names))
	return nil
}

func (s *UserService) byID(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}
