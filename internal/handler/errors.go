package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/photoshare/internal/respond"
	"github.com/templui/photoshare/internal/service"
)

type errorKind struct {
	err    error
	status int
}

// Checked in order; the first match wins.
var errorKinds = []errorKind{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrConflict, http.StatusConflict},
	{service.ErrProcessing, http.StatusInternalServerError},
	{service.ErrIO, http.StatusInternalServerError},
}

// writeError maps a service error to its status code and JSON body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrInvalidCredentials) {
		respond.Error(w, http.StatusUnauthorized, "invalid credentials", "")
		return
	}

	for _, kind := range errorKinds {
		if !errors.Is(err, kind.err) {
			continue
		}
		if kind.status >= http.StatusInternalServerError {
			slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		}
		respond.Error(w, kind.status, kind.err.Error(), strings.TrimPrefix(err.Error(), kind.err.Error()+": "))
		return
	}

	slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
	respond.Error(w, http.StatusInternalServerError, "internal error", "")
}

// NotFound is the JSON fallback for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusNotFound, "not found", r.Method+" "+r.URL.Path)
}
