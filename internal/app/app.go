package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-blog-api/internal/auth"
	"go-blog-api/internal/config"
	"go-blog-api/internal/database"
	"go-blog-api/internal/handler"
	"go-blog-api/internal/middleware"
	"go-blog-api/internal/repository"
	"go-blog-api/internal/router"
	"go-blog-api/internal/service"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	codec, err := auth.NewTokenCodec(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	revocationRepo := repository.NewRevocationRepository(pool)
	postRepo := repository.NewPostRepository(pool)
	taxonomyRepo := repository.NewTaxonomyRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	mediaRepo := repository.NewMediaRepository(pool)
	slog.Info("database ready")

	authService := service.NewAuthService(userRepo, revocationRepo, codec, cfg.StrictPasswords)
	gate := middleware.NewGate(authService)
	authHandler := handler.NewAuthHandler(authService, cfg.IsProduction())

	postService := service.NewPostService(postRepo, taxonomyRepo)
	postHandler := handler.NewPostHandler(postService)
	taxonomyService := service.NewTaxonomyService(taxonomyRepo)
	taxonomyHandler := handler.NewTaxonomyHandler(taxonomyService)
	commentService := service.NewCommentService(commentRepo, postRepo)
	commentHandler := handler.NewCommentHandler(commentService)

	mediaService, err := service.NewMediaService(mediaRepo, cfg.MediaRoot, cfg.ThumbnailRoot, cfg.MaxUploadSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize media service: %w", err)
	}
	mediaHandler := handler.NewMediaHandler(mediaService, cfg.MaxUploadSize)

	userService := service.NewUserService(userRepo)
	userHandler := handler.NewUserHandler(userService)
	pageHandler := handler.NewPageHandler()

	appRouter := router.New(cfg, gate, router.Handlers{
		Auth:     authHandler,
		Post:     postHandler,
		Taxonomy: taxonomyHandler,
		Comment:  commentHandler,
		Media:    mediaHandler,
		User:     userHandler,
		Page:     pageHandler,
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				db.Close()
			},
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
