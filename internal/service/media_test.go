package service

import (
	"context"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/photoshare/internal/repository"
)

func TestProfilePictureRejectsExtensionBeforeWriting(t *testing.T) {
	env := newTestEnv(t)
	userID := env.register(t, "ada@example.com")

	_, err := env.media.UploadProfilePicture(context.Background(), userID, upload("avatar.gif", pngBytes(t, color.White)))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, env.blobNames(t))
}

func TestProfilePictureUndecodableIsProcessingError(t *testing.T) {
	env := newTestEnv(t)
	userID := env.register(t, "ada@example.com")

	_, err := env.media.UploadProfilePicture(context.Background(), userID, upload("avatar.png", []byte("not a png")))
	assert.ErrorIs(t, err, ErrProcessing)
	assert.Empty(t, env.blobNames(t))
}

func TestProfilePictureReuploadOverwrites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.register(t, "ada@example.com")

	name, err := env.media.UploadProfilePicture(ctx, userID, upload("first.png", pngBytes(t, color.Black)))
	require.NoError(t, err)
	first := env.blob(t, name)

	name2, err := env.media.UploadProfilePicture(ctx, userID, upload("second.PNG", pngBytes(t, color.White)))
	require.NoError(t, err)
	assert.Equal(t, name, name2)
	assert.Equal(t, []string{"profile_" + userID + ".jpg"}, env.blobNames(t))
	assert.NotEqual(t, first, env.blob(t, name))
	assert.Equal(t, []byte{0xFF, 0xD8}, env.blob(t, name)[:2], "stored as JPEG")

	profile, err := env.userSvc.Profile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, name, profile.Picture)
}

func TestCreatePostThenList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.register(t, "ada@example.com")

	img, err := env.media.CreatePost(ctx, userID, upload("cat.png", []byte("meow")), "cute")
	require.NoError(t, err)
	assert.Equal(t, "user"+userID+"_cat.png", img.Filename)

	list, err := env.media.ListImages(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "cute", list[0].Description)
	assert.Contains(t, list[0].Filename, "cat.png")
	assert.Equal(t, []byte("meow"), env.blob(t, img.Filename))
}

func TestCreatePostSanitizesPathNames(t *testing.T) {
	env := newTestEnv(t)
	userID := env.register(t, "ada@example.com")

	img, err := env.media.CreatePost(context.Background(), userID, upload("../../escape.png", []byte("x")), "")
	require.NoError(t, err)
	assert.Equal(t, "user"+userID+"_escape.png", img.Filename)

	_, err = env.media.CreatePost(context.Background(), userID, upload("..", []byte("x")), "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.media.CreatePost(context.Background(), userID, Upload{Filename: ""}, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreatePostSameNameIsConflictAndKeepsOriginal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.register(t, "ada@example.com")

	img, err := env.media.CreatePost(ctx, userID, upload("cat.png", []byte("original")), "")
	require.NoError(t, err)

	_, err = env.media.CreatePost(ctx, userID, upload("cat.png", []byte("impostor")), "")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, []byte("original"), env.blob(t, img.Filename))

	list, err := env.media.ListImages(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreatePostRemovesBlobWhenInsertFails(t *testing.T) {
	env := newTestEnv(t)
	userID := env.register(t, "ada@example.com")

	media := NewMediaService(failingImageRepository{env.images}, env.albumImages, env.albumSvc, env.storage, 85)
	_, err := media.CreatePost(context.Background(), userID, upload("cat.png", []byte("meow")), "")
	require.Error(t, err)
	assert.Empty(t, env.blobNames(t), "no orphaned blob after a failed insert")
}

func TestListImagesIsOwnershipFilteredNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	bob := env.register(t, "bob@example.com")

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	env.media.now = func() time.Time { return now }

	_, err := env.media.CreatePost(ctx, alice, upload("old.png", []byte("1")), "")
	require.NoError(t, err)
	now = now.Add(time.Minute)
	_, err = env.media.CreatePost(ctx, alice, upload("new.png", []byte("2")), "")
	require.NoError(t, err)
	_, err = env.media.CreatePost(ctx, bob, upload("bob.png", []byte("3")), "")
	require.NoError(t, err)

	list, err := env.media.ListImages(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, strings.HasSuffix(list[0].Filename, "_new.png"))
	assert.True(t, strings.HasSuffix(list[1].Filename, "_old.png"))
	for _, img := range list {
		assert.Equal(t, alice, img.UserID)
	}
}

func TestDeleteImage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	bob := env.register(t, "bob@example.com")

	img, err := env.media.CreatePost(ctx, alice, upload("cat.png", []byte("meow")), "")
	require.NoError(t, err)

	t.Run("missing is not found and changes nothing", func(t *testing.T) {
		err := env.media.DeleteImage(ctx, alice, "user"+alice+"_dog.png")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Len(t, env.blobNames(t), 1)
	})

	t.Run("other owner is not found", func(t *testing.T) {
		err := env.media.DeleteImage(ctx, bob, img.Filename)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Len(t, env.blobNames(t), 1)
	})

	t.Run("storage failure keeps the record", func(t *testing.T) {
		broken := NewMediaService(env.images, env.albumImages, env.albumSvc, failingStorage{env.storage}, 85)
		err := broken.DeleteImage(ctx, alice, img.Filename)
		assert.ErrorIs(t, err, ErrIO)

		_, err = env.images.ByOwnerAndFilename(ctx, alice, img.Filename)
		assert.NoError(t, err)
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, env.media.DeleteImage(ctx, alice, img.Filename))
		assert.Empty(t, env.blobNames(t))

		_, err := env.images.ByOwnerAndFilename(ctx, alice, img.Filename)
		assert.ErrorIs(t, err, repository.ErrImageNotFound)
	})

	t.Run("missing blob is tolerated", func(t *testing.T) {
		img, err := env.media.CreatePost(ctx, alice, upload("ghost.png", []byte("boo")), "")
		require.NoError(t, err)
		require.NoError(t, env.storage.Delete(ctx, img.Filename))

		require.NoError(t, env.media.DeleteImage(ctx, alice, img.Filename))
	})
}

func TestAlbumImages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	bob := env.register(t, "bob@example.com")

	album, err := env.albumSvc.CreateAlbum(ctx, alice, "  Paris ", "spring trip")
	require.NoError(t, err)
	assert.Equal(t, "Paris", album.Name)

	_, err = env.albumSvc.CreateAlbum(ctx, alice, "   ", "")
	assert.ErrorIs(t, err, ErrValidation)

	taken := time.Date(2023, 4, 2, 10, 0, 0, 0, time.UTC)
	img, err := env.media.AddAlbumImage(ctx, alice, album.ID, upload("eiffel.jpg", []byte("tower")), AlbumImageInput{
		Description: "tower",
		TakenAt:     &taken,
		Location:    "48.858370,2.294481",
	})
	require.NoError(t, err)
	assert.Equal(t, "album"+album.ID+"_eiffel.jpg", img.Filename)

	t.Run("owner lists", func(t *testing.T) {
		images, err := env.albumSvc.ListAlbumImages(ctx, alice, album.ID)
		require.NoError(t, err)
		require.Len(t, images, 1)
		assert.Equal(t, "48.858370,2.294481", *images[0].Location)
		assert.True(t, images[0].TakenAt.Equal(taken))
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		_, err := env.albumSvc.ListAlbumImages(ctx, bob, album.ID)
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = env.media.AddAlbumImage(ctx, bob, album.ID, upload("x.jpg", []byte("x")), AlbumImageInput{})
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Len(t, env.blobNames(t), 1)
	})

	t.Run("unknown album is not found", func(t *testing.T) {
		_, err := env.albumSvc.ListAlbumImages(ctx, alice, "no-such-album")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("albums are ownership filtered", func(t *testing.T) {
		albums, err := env.albumSvc.ListAlbums(ctx, bob)
		require.NoError(t, err)
		assert.Empty(t, albums)
	})
}

func TestUpdateProfileIsPartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.register(t, "ada@example.com")

	name := "ada"
	user, err := env.userSvc.UpdateProfile(ctx, userID, ProfileUpdate{Username: &name})
	require.NoError(t, err)
	assert.Equal(t, "ada", user.DisplayName())
	assert.Equal(t, "", user.BioText())

	bio := "first programmer"
	user, err = env.userSvc.UpdateProfile(ctx, userID, ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "ada", user.DisplayName())
	assert.Equal(t, "first programmer", user.BioText())
}

func TestDeleteAccountRemovesBlobsAndInvalidatesTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	bob := env.register(t, "bob@example.com")

	_, err := env.media.CreatePost(ctx, alice, upload("a.png", []byte("a")), "")
	require.NoError(t, err)
	album, err := env.albumSvc.CreateAlbum(ctx, alice, "Trip", "")
	require.NoError(t, err)
	_, err = env.media.AddAlbumImage(ctx, alice, album.ID, upload("b.png", []byte("b")), AlbumImageInput{})
	require.NoError(t, err)
	_, err = env.media.UploadProfilePicture(ctx, alice, upload("me.png", pngBytes(t, color.White)))
	require.NoError(t, err)
	bobPost, err := env.media.CreatePost(ctx, bob, upload("b.png", []byte("bob")), "")
	require.NoError(t, err)

	token, _, err := env.tokens.Issue(alice)
	require.NoError(t, err)

	require.NoError(t, env.userSvc.DeleteAccount(ctx, alice))

	assert.Equal(t, []string{bobPost.Filename}, env.blobNames(t))
	_, err = env.tokens.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrUnknownUser)
}
