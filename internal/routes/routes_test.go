package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/photoshare/internal/api"
	"github.com/templui/photoshare/internal/app"
	"github.com/templui/photoshare/internal/config"
	"github.com/templui/photoshare/internal/respond"
)

type testServer struct {
	t         *testing.T
	handler   http.Handler
	uploadDir string
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		AppEnv:         "development",
		Port:           "0",
		DBDriver:       "sqlite",
		DBConnection:   filepath.Join(dir, "test.db") + "?_pragma=foreign_keys(1)",
		JWTSecret:      "routes-test-secret-routes-test-secret",
		JWTExpiry:      2 * time.Hour,
		AuthRateLimit:  1000,
		AuthRateBurst:  1000,
		AllowedOrigins: []string{"*"},
		MaxUploadSize:  1 << 20,
		JPEGQuality:    85,
		StorageDriver:  "local",
		UploadDir:      filepath.Join(dir, "uploads"),
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return &testServer{t: t, handler: SetupRoutes(a), uploadDir: cfg.UploadDir}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) json(method, path, token string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.do(req)
}

func (s *testServer) upload(path, token, filename string, data []byte, fields map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(s.t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(s.t, err)
	_, err = fw.Write(data)
	require.NoError(s.t, err)
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.do(req)
}

// login registers email and returns a session token.
func (s *testServer) login(email string) string {
	rec := s.json(http.MethodPost, "/register", "", api.Credentials{Email: email, Password: "pw"})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.json(http.MethodPost, "/login", "", api.Credentials{Email: email, Password: "pw"})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var resp api.LoginResponse
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func (s *testServer) files() []string {
	entries, err := os.ReadDir(s.uploadDir)
	require.NoError(s.t, err)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func pngFile(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{B: 255, A: 128})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAuthScenario(t *testing.T) {
	s := newTestServer(t, testConfig(t))
	creds := api.Credentials{Email: "a@x.com", Password: "pw"}

	rec := s.json(http.MethodPost, "/register", "", creds)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = s.json(http.MethodPost, "/login", "", creds)
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[api.LoginResponse](t, rec)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "a@x.com", login.Email)

	rec = s.json(http.MethodPost, "/register", "", creds)
	assert.Equal(t, http.StatusConflict, rec.Code)

	wrong := s.json(http.MethodPost, "/login", "", api.Credentials{Email: "a@x.com", Password: "nope"})
	unknown := s.json(http.MethodPost, "/login", "", api.Credentials{Email: "b@x.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())

	rec = s.json(http.MethodPost, "/register", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{not json"))
	assert.Equal(t, http.StatusBadRequest, s.do(req).Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, testConfig(t))

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/profile"},
		{http.MethodPost, "/profile-edit"},
		{http.MethodPost, "/profile-picture"},
		{http.MethodDelete, "/account"},
		{http.MethodPost, "/upload"},
		{http.MethodGet, "/images"},
		{http.MethodDelete, "/images/x.png"},
		{http.MethodGet, "/albums"},
		{http.MethodPost, "/albums"},
		{http.MethodGet, "/albums/1/images"},
		{http.MethodPost, "/albums/1/images"},
	} {
		rec := s.json(route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
		assert.Equal(t, "missing token", decode[respond.ErrorBody](t, rec).Error, route.path)

		rec = s.json(route.method, route.path, "not.a.token", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
		assert.Equal(t, "invalid token", decode[respond.ErrorBody](t, rec).Error, route.path)
	}
}

func TestUploadThenList(t *testing.T) {
	s := newTestServer(t, testConfig(t))
	token := s.login("a@x.com")

	rec := s.upload("/upload", token, "cat.png", []byte("meow"), map[string]string{"description": "cute"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	uploaded := decode[api.ImageUploaded](t, rec)

	rec = s.json(http.MethodGet, "/images", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	images := decode[[]api.Image](t, rec)
	require.Len(t, images, 1)
	assert.Equal(t, "cute", images[0].Description)
	assert.Contains(t, images[0].Filename, "cat.png")
	_, err := time.Parse(api.UploadedAtLayout, images[0].UploadedAt)
	assert.NoError(t, err)

	rec = s.do(httptest.NewRequest(http.MethodGet, uploaded.URL, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "meow", rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = s.upload("/upload", token, "cat.png", []byte("again"), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	other := s.login("b@x.com")
	rec = s.json(http.MethodGet, "/images", other, nil)
	assert.Empty(t, decode[[]api.Image](t, rec), "listing is ownership filtered")
}

func TestUploadValidation(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxUploadSize = 1024
	s := newTestServer(t, cfg)
	token := s.login("a@x.com")

	rec := s.upload("/upload", token, "big.png", bytes.Repeat([]byte("x"), 4096), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.json(http.MethodPost, "/upload", token, map[string]string{"file": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, s.files())
}

func TestProfilePicture(t *testing.T) {
	s := newTestServer(t, testConfig(t))
	token := s.login("a@x.com")

	rec := s.upload("/profile-picture", token, "me.gif", pngFile(t), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, s.files(), "rejected before any write")

	rec = s.upload("/profile-picture", token, "me.png", []byte("garbage"), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "processing failed", decode[respond.ErrorBody](t, rec).Error)

	for range 2 {
		rec = s.upload("/profile-picture", token, "me.png", pngFile(t), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	assert.Len(t, s.files(), 1)

	rec = s.json(http.MethodGet, "/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[api.Profile](t, rec)
	assert.Equal(t, "a@x.com", profile.Username, "username falls back to email")
	assert.Equal(t, "", profile.Bio)
	assert.NotEmpty(t, profile.PictureURL)

	rec = s.do(httptest.NewRequest(http.MethodGet, profile.PictureURL, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
}

func TestProfileEditIsPartial(t *testing.T) {
	s := newTestServer(t, testConfig(t))
	token := s.login("a@x.com")

	rec := s.json(http.MethodPost, "/profile-edit", token, map[string]string{"username": "ada"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.json(http.MethodPost, "/profile-edit", token, map[string]string{"bio": "hello"})
	require.Equal(t, http.StatusOK, rec.Code)
	edited := decode[api.ProfileEdited](t, rec)
	assert.Equal(t, "ada", edited.Username)
	assert.Equal(t, "hello", edited.Bio)
}

func TestAlbums(t *testing.T) {
	s := newTestServer(t, testConfig(t))
	alice := s.login("alice@x.com")
	bob := s.login("bob@x.com")

	rec := s.json(http.MethodPost, "/albums", alice, api.AlbumCreate{Name: "Paris", Description: "spring"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	album := decode[api.Album](t, rec)
	_, err := time.Parse(time.RFC3339, album.CreatedAt)
	assert.NoError(t, err)

	rec = s.json(http.MethodPost, "/albums", alice, api.AlbumCreate{Name: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.upload("/albums/"+album.ID+"/images", alice, "eiffel.jpg", []byte("tower"), map[string]string{
		"description": "tower",
		"taken_at":    "2023-04-02 10:00:00",
		"location":    "48.858370,2.294481",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.upload("/albums/"+album.ID+"/images", alice, "bad.jpg", []byte("x"), map[string]string{"taken_at": "yesterday"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.json(http.MethodGet, "/albums/"+album.ID+"/images", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	images := decode[[]api.AlbumImage](t, rec)
	require.Len(t, images, 1)
	assert.Equal(t, "2023-04-02 10:00:00", images[0].TakenAt)
	assert.Equal(t, "48.858370,2.294481", images[0].Location)

	rec = s.json(http.MethodGet, "/albums/"+album.ID+"/images", bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.upload("/albums/"+album.ID+"/images", bob, "sneaky.jpg", []byte("x"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.json(http.MethodGet, "/albums/does-not-exist/images", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.json(http.MethodGet, "/albums", bob, nil)
	assert.Empty(t, decode[[]api.Album](t, rec))

	rec = s.json(http.MethodGet, "/albums", alice, nil)
	assert.Len(t, decode[[]api.Album](t, rec), 1)
}

func TestDeleteImage(t *testing.T) {
	s := newTestServer(t, testConfig(t))
	alice := s.login("alice@x.com")
	bob := s.login("bob@x.com")

	rec := s.upload("/upload", alice, "cat.png", []byte("meow"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	filename := decode[api.ImageUploaded](t, rec).Filename

	rec = s.json(http.MethodDelete, "/images/missing.png", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.json(http.MethodDelete, "/images/"+filename, bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, s.files(), 1)

	rec = s.json(http.MethodGet, "/images", alice, nil)
	assert.Len(t, decode[[]api.Image](t, rec), 1)

	rec = s.json(http.MethodDelete, "/images/"+filename, alice, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.files())

	rec = s.do(httptest.NewRequest(http.MethodGet, "/uploads/"+filename, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteAccountRevokesToken(t *testing.T) {
	s := newTestServer(t, testConfig(t))
	token := s.login("a@x.com")

	rec := s.upload("/upload", token, "cat.png", []byte("meow"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.json(http.MethodDelete, "/account", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.files())

	rec = s.json(http.MethodGet, "/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "user no longer exists", decode[respond.ErrorBody](t, rec).Details)
}

func TestAuthRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.AuthRateLimit = 0.001
	cfg.AuthRateBurst = 2
	s := newTestServer(t, cfg)

	creds := api.Credentials{Email: "a@x.com", Password: "pw"}
	assert.Equal(t, http.StatusCreated, s.json(http.MethodPost, "/register", "", creds).Code)
	assert.Equal(t, http.StatusOK, s.json(http.MethodPost, "/login", "", creds).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.json(http.MethodPost, "/login", "", creds).Code)
}

func TestHealthAndFallback(t *testing.T) {
	s := newTestServer(t, testConfig(t))

	rec := s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[api.Health](t, rec).Status)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", decode[respond.ErrorBody](t, rec).Error)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/uploads/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
