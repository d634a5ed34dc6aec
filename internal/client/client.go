// Package client is a typed HTTP client for the photoshare API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/templui/photoshare/internal/api"
	"github.com/templui/photoshare/internal/respond"
)

// DefaultURL is where a local development server listens.
const DefaultURL = "http://localhost:8090"

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%d): %s", e.Message, e.Status, e.Details)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 2 * time.Minute},
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

// File is a local file sent as the "file" part of a multipart upload.
type File struct {
	Name string
	Body io.Reader
}

func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/register", api.Credentials{Email: email, Password: password}, nil)
}

// Login stores the returned token for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*api.LoginResponse, error) {
	var resp api.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/login", api.Credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

func (c *Client) Profile(ctx context.Context) (*api.Profile, error) {
	var resp api.Profile
	if err := c.doJSON(ctx, http.MethodGet, "/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) EditProfile(ctx context.Context, edit api.ProfileEdit) (*api.ProfileEdited, error) {
	var resp api.ProfileEdited
	if err := c.doJSON(ctx, http.MethodPost, "/profile-edit", edit, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UploadProfilePicture(ctx context.Context, file File) (*api.PictureUploaded, error) {
	var resp api.PictureUploaded
	if err := c.doMultipart(ctx, "/profile-picture", file, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Upload(ctx context.Context, file File, description string) (*api.ImageUploaded, error) {
	var resp api.ImageUploaded
	fields := map[string]string{"description": description}
	if err := c.doMultipart(ctx, "/upload", file, fields, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Images(ctx context.Context) ([]api.Image, error) {
	var resp []api.Image
	if err := c.doJSON(ctx, http.MethodGet, "/images", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) DeleteImage(ctx context.Context, filename string) error {
	return c.doJSON(ctx, http.MethodDelete, "/images/"+url.PathEscape(filename), nil, nil)
}

func (c *Client) Albums(ctx context.Context) ([]api.Album, error) {
	var resp []api.Album
	if err := c.doJSON(ctx, http.MethodGet, "/albums", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) CreateAlbum(ctx context.Context, name, description string) (*api.Album, error) {
	var resp api.Album
	if err := c.doJSON(ctx, http.MethodPost, "/albums", api.AlbumCreate{Name: name, Description: description}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AlbumImages(ctx context.Context, albumID string) ([]api.AlbumImage, error) {
	var resp []api.AlbumImage
	if err := c.doJSON(ctx, http.MethodGet, "/albums/"+url.PathEscape(albumID)+"/images", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// AlbumImageMeta is the optional metadata sent with an album image.
type AlbumImageMeta struct {
	Description string
	TakenAt     time.Time
	Location    string
}

func (c *Client) AddAlbumImage(ctx context.Context, albumID string, file File, meta AlbumImageMeta) (*api.AlbumImage, error) {
	fields := map[string]string{
		"description": meta.Description,
		"location":    meta.Location,
	}
	if !meta.TakenAt.IsZero() {
		fields["taken_at"] = meta.TakenAt.Format(api.TakenAtLayout)
	}

	var resp api.AlbumImage
	if err := c.doMultipart(ctx, "/albums/"+url.PathEscape(albumID)+"/images", file, fields, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Download copies a served media file into w.
func (c *Client) Download(ctx context.Context, filename string, w io.Writer) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, api.MediaURL(url.PathEscape(filename)), nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to download %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, decodeError(resp)
	}
	return io.Copy(w, resp.Body)
}

func (c *Client) Health(ctx context.Context) (*api.Health, error) {
	var resp api.Health
	if err := c.doJSON(ctx, http.MethodGet, "/healthz", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) doMultipart(ctx context.Context, path string, file File, fields map[string]string, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	fw, err := mw.CreateFormFile("file", file.Name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, file.Body); err != nil {
		return fmt.Errorf("failed to read %s: %w", file.Name, err)
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body respond.ErrorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Details = body.Details
	}
	return apiErr
}
