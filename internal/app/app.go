package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/photoshare/internal/config"
	"github.com/templui/photoshare/internal/db"
	"github.com/templui/photoshare/internal/middleware"
	"github.com/templui/photoshare/internal/repository"
	"github.com/templui/photoshare/internal/service"
	"github.com/templui/photoshare/internal/storage"
)

type App struct {
	Cfg          *config.Config
	DB           *sqlx.DB
	Storage      storage.Storage
	TokenService *service.TokenService
	AuthService  *service.AuthService
	UserService  *service.UserService
	AlbumService *service.AlbumService
	MediaService *service.MediaService
	AuthLimiter  *middleware.RateLimiter

	stop chan struct{}
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Storage
	fileStorage, err := storage.New(ctx, cfg)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	imageRepository := repository.NewImageRepository(database)
	albumRepository := repository.NewAlbumRepository(database)
	albumImageRepository := repository.NewAlbumImageRepository(database)

	// Services
	tokenService := service.NewTokenService(userRepository, cfg.JWTSecret, cfg.JWTExpiry)
	authService := service.NewAuthService(userRepository, tokenService)
	userService := service.NewUserService(userRepository, imageRepository, albumImageRepository, fileStorage)
	albumService := service.NewAlbumService(albumRepository, albumImageRepository)
	mediaService := service.NewMediaService(imageRepository, albumImageRepository, albumService, fileStorage, cfg.JPEGQuality)

	a := &App{
		Cfg:          cfg,
		DB:           database,
		Storage:      fileStorage,
		TokenService: tokenService,
		AuthService:  authService,
		UserService:  userService,
		AlbumService: albumService,
		MediaService: mediaService,
		AuthLimiter:  middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst),
		stop:         make(chan struct{}),
	}
	go a.AuthLimiter.Run(a.stop)

	return a, nil
}

func (a *App) Close() error {
	close(a.stop)
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
