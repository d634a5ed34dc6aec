package handler

import (
	"net/http"

	"github.com/templui/photoshare/internal/api"
	"github.com/templui/photoshare/internal/ctxkeys"
	"github.com/templui/photoshare/internal/respond"
	"github.com/templui/photoshare/internal/service"
	"github.com/templui/photoshare/internal/validation"
)

type AlbumHandler struct {
	albumService  *service.AlbumService
	mediaService  *service.MediaService
	maxUploadSize int64
}

func NewAlbumHandler(albumService *service.AlbumService, mediaService *service.MediaService, maxUploadSize int64) *AlbumHandler {
	return &AlbumHandler{
		albumService:  albumService,
		mediaService:  mediaService,
		maxUploadSize: maxUploadSize,
	}
}

func (h *AlbumHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	albums, err := h.albumService.ListAlbums(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]api.Album, 0, len(albums))
	for _, a := range albums {
		resp = append(resp, api.NewAlbum(a))
	}
	respond.JSON(w, http.StatusOK, resp)
}

func (h *AlbumHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req api.AlbumCreate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	album, err := h.albumService.CreateAlbum(r.Context(), user.ID, req.Name, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, api.NewAlbum(album))
}

func (h *AlbumHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	images, err := h.albumService.ListAlbumImages(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]api.AlbumImage, 0, len(images))
	for _, img := range images {
		resp = append(resp, api.NewAlbumImage(img))
	}
	respond.JSON(w, http.StatusOK, resp)
}

func (h *AlbumHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	upload, done, err := readUpload(w, r, h.maxUploadSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer done()

	takenAt, err := validation.ParseTakenAt(r.FormValue("taken_at"))
	if err != nil {
		writeError(w, r, invalidField(err))
		return
	}

	image, err := h.mediaService.AddAlbumImage(r.Context(), user.ID, r.PathValue("id"), upload, service.AlbumImageInput{
		Description: r.FormValue("description"),
		TakenAt:     takenAt,
		Location:    r.FormValue("location"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, api.NewAlbumImage(image))
}
