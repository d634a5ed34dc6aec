package handler

import (
	"net/http"

	"github.com/templui/photoshare/internal/api"
	"github.com/templui/photoshare/internal/ctxkeys"
	"github.com/templui/photoshare/internal/respond"
	"github.com/templui/photoshare/internal/service"
)

type ProfileHandler struct {
	userService   *service.UserService
	mediaService  *service.MediaService
	maxUploadSize int64
}

func NewProfileHandler(userService *service.UserService, mediaService *service.MediaService, maxUploadSize int64) *ProfileHandler {
	return &ProfileHandler{
		userService:   userService,
		mediaService:  mediaService,
		maxUploadSize: maxUploadSize,
	}
}

func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	profile, err := h.userService.Profile(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := api.Profile{
		ID:       profile.User.ID,
		Email:    profile.User.Email,
		Username: profile.User.DisplayName(),
		Bio:      profile.User.BioText(),
	}
	if profile.Picture != "" {
		resp.PictureURL = api.MediaURL(profile.Picture)
	}
	respond.JSON(w, http.StatusOK, resp)
}

func (h *ProfileHandler) Edit(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req api.ProfileEdit
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, service.ProfileUpdate{
		Username: req.Username,
		Bio:      req.Bio,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, api.ProfileEdited{
		Message:  "profile updated",
		Username: updated.DisplayName(),
		Bio:      updated.BioText(),
	})
}

func (h *ProfileHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	upload, done, err := readUpload(w, r, h.maxUploadSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer done()

	name, err := h.mediaService.UploadProfilePicture(r.Context(), user.ID, upload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, api.PictureUploaded{
		Message: "profile picture updated",
		URL:     api.MediaURL(name),
	})
}

func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	if err := h.userService.DeleteAccount(r.Context(), user.ID); err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Message{Message: "account deleted"})
}
