package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/templui/photoshare/internal/db"
	"github.com/templui/photoshare/internal/model"
	"github.com/templui/photoshare/internal/repository"
	"github.com/templui/photoshare/internal/storage"
)

const testSecret = "test-secret-which-is-long-enough-for-hs256"

type testEnv struct {
	users       repository.UserRepository
	images      repository.ImageRepository
	albums      repository.AlbumRepository
	albumImages repository.AlbumImageRepository
	storage     *storage.LocalStorage

	tokens   *TokenService
	auth     *AuthService
	userSvc  *UserService
	albumSvc *AlbumService
	media    *MediaService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	database, err := db.Init(ctx, "sqlite", filepath.Join(dir, "test.db")+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.RunMigrations(ctx, database.DB, "sqlite"))

	store, err := storage.NewLocalStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	env := &testEnv{
		users:       repository.NewUserRepository(database),
		images:      repository.NewImageRepository(database),
		albums:      repository.NewAlbumRepository(database),
		albumImages: repository.NewAlbumImageRepository(database),
		storage:     store,
	}
	env.tokens = NewTokenService(env.users, testSecret, 2*time.Hour)
	env.auth = NewAuthService(env.users, env.tokens)
	env.userSvc = NewUserService(env.users, env.images, env.albumImages, store)
	env.albumSvc = NewAlbumService(env.albums, env.albumImages)
	env.media = NewMediaService(env.images, env.albumImages, env.albumSvc, store, 85)
	return env
}

// register creates an account and returns its id.
func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	u, err := e.auth.Register(context.Background(), email, "pw")
	require.NoError(t, err)
	return u.ID
}

// blobNames lists what is currently in the upload directory.
func (e *testEnv) blobNames(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(e.storage.Dir())
	require.NoError(t, err)
	names := []string{}
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func (e *testEnv) blob(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.storage.Dir(), name))
	require.NoError(t, err)
	return data
}

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func upload(name string, data []byte) Upload {
	return Upload{Filename: name, Body: bytes.NewReader(data)}
}

// failingStorage wraps a Storage and fails deletes with a non-absence error.
type failingStorage struct {
	storage.Storage
}

func (f failingStorage) Delete(context.Context, string) error {
	return errors.New("permission denied")
}

// failingImageRepository refuses every insert.
type failingImageRepository struct {
	repository.ImageRepository
}

func (failingImageRepository) Create(context.Context, *model.Image) error {
	return errors.New("database is locked")
}
