package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/photoshare/internal/ctxkeys"
	"github.com/templui/photoshare/internal/model"
	"github.com/templui/photoshare/internal/respond"
	"github.com/templui/photoshare/internal/service"
)

// TokenVerifier resolves a bearer token to its user.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*model.User, error)
}

// RequireAuth only lets requests with a valid bearer token through and puts
// the token's user in the request context. Handlers must read identity from
// there and never from the request body or query.
func RequireAuth(tokens TokenVerifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respond.Error(w, http.StatusUnauthorized, reason(service.ErrMissingToken), "")
				return
			}

			user, err := tokens.Verify(r.Context(), token)
			if err != nil {
				if !errors.Is(err, service.ErrUnauthorized) {
					slog.Error("token verification failed", "error", err)
					respond.Error(w, http.StatusInternalServerError, "internal error", "")
					return
				}
				respond.Error(w, http.StatusUnauthorized, "invalid token", reason(err))
				return
			}

			next(w, r.WithContext(ctxkeys.WithUser(r.Context(), user)))
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// reason strips the shared "unauthorized: " prefix for the response details.
func reason(err error) string {
	return strings.TrimPrefix(err.Error(), service.ErrUnauthorized.Error()+": ")
}
