package handler

import (
	"net/http"

	"github.com/templui/photoshare/internal/api"
	"github.com/templui/photoshare/internal/ctxkeys"
	"github.com/templui/photoshare/internal/respond"
	"github.com/templui/photoshare/internal/service"
)

type ImageHandler struct {
	mediaService  *service.MediaService
	maxUploadSize int64
}

func NewImageHandler(mediaService *service.MediaService, maxUploadSize int64) *ImageHandler {
	return &ImageHandler{
		mediaService:  mediaService,
		maxUploadSize: maxUploadSize,
	}
}

func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	upload, done, err := readUpload(w, r, h.maxUploadSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer done()

	image, err := h.mediaService.CreatePost(r.Context(), user.ID, upload, r.FormValue("description"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, api.ImageUploaded{
		Message:  "image uploaded",
		Filename: image.Filename,
		URL:      api.MediaURL(image.Filename),
	})
}

func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	images, err := h.mediaService.ListImages(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]api.Image, 0, len(images))
	for _, img := range images {
		resp = append(resp, api.NewImage(img))
	}
	respond.JSON(w, http.StatusOK, resp)
}

func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	if err := h.mediaService.DeleteImage(r.Context(), user.ID, r.PathValue("filename")); err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Message{Message: "image deleted"})
}
