package routes

import (
	"net/http"

	"github.com/templui/photoshare/internal/app"
	"github.com/templui/photoshare/internal/handler"
	"github.com/templui/photoshare/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	profile := handler.NewProfileHandler(app.UserService, app.MediaService, app.Cfg.MaxUploadSize)
	images := handler.NewImageHandler(app.MediaService, app.Cfg.MaxUploadSize)
	albums := handler.NewAlbumHandler(app.AlbumService, app.MediaService, app.Cfg.MaxUploadSize)
	media := handler.NewMediaHandler(app.MediaService)
	health := handler.NewHealthHandler(app.DB)

	requireAuth := middleware.RequireAuth(app.TokenService)
	rateLimit := app.AuthLimiter.Limit

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Check)

	// Auth (rate limited per client IP)
	mux.HandleFunc("POST /register", rateLimit(auth.Register))
	mux.HandleFunc("POST /login", rateLimit(auth.Login))

	// Media files are public by name
	mux.HandleFunc("GET /uploads/{filename}", middleware.MediaHeaders(media.Serve))

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Profile & account
	mux.HandleFunc("GET /profile", requireAuth(profile.Show))
	mux.HandleFunc("POST /profile-edit", requireAuth(profile.Edit))
	mux.HandleFunc("POST /profile-picture", requireAuth(profile.UploadPicture))
	mux.HandleFunc("DELETE /account", requireAuth(profile.DeleteAccount))

	// Posts
	mux.HandleFunc("POST /upload", requireAuth(images.Upload))
	mux.HandleFunc("GET /images", requireAuth(images.List))
	mux.HandleFunc("DELETE /images/{filename}", requireAuth(images.Delete))

	// Albums
	mux.HandleFunc("GET /albums", requireAuth(albums.List))
	mux.HandleFunc("POST /albums", requireAuth(albums.Create))
	mux.HandleFunc("GET /albums/{id}/images", requireAuth(albums.ListImages))
	mux.HandleFunc("POST /albums/{id}/images", requireAuth(albums.AddImage))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.Recover,
		middleware.RequestLogging,
		middleware.CORS(app.Cfg.AllowedOrigins),
	)
}
