package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/templui/photoshare/internal/service"
)

const multipartMemory = 8 << 20

// decodeJSON reads an optional JSON body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("%w: invalid JSON body", service.ErrValidation)
}

// readUpload parses a multipart form bounded by maxSize and returns its "file" part.
// The returned close func must be called once the upload has been consumed.
func readUpload(w http.ResponseWriter, r *http.Request, maxSize int64) (service.Upload, func(), error) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return service.Upload{}, noop, fmt.Errorf("%w: file too large (max %d bytes)", service.ErrValidation, maxSize)
		case errors.Is(err, http.ErrNotMultipart):
			return service.Upload{}, noop, fmt.Errorf("%w: expected multipart/form-data", service.ErrValidation)
		default:
			return service.Upload{}, noop, fmt.Errorf("%w: malformed multipart form", service.ErrValidation)
		}
	}
	cleanup := func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		cleanup()
		return service.Upload{}, noop, fmt.Errorf("%w: no file part", service.ErrValidation)
	}

	return service.Upload{Filename: header.Filename, Body: file}, func() {
		file.Close()
		cleanup()
	}, nil
}

func invalidField(err error) error {
	return fmt.Errorf("%w: %v", service.ErrValidation, err)
}
