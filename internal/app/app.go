package app

import (
	"fmt"
	"net/http"
	"time"

	"photobooth/internal/config"
	"photobooth/internal/database"
	"photobooth/internal/logger"
	"photobooth/internal/routes"
	"photobooth/internal/services"
	"photobooth/internal/services/emotion"
	"photobooth/internal/services/session"
	"photobooth/internal/services/storage"
	"photobooth/internal/services/websocket"
	"photobooth/internal/strip"
)

type App struct {
	config         *config.Config
	logger         *logger.Logger
	analyzer       *emotion.AnalyzerService
	archiveService *storage.ArchiveService
	hubService     *websocket.HubService
	sessionStore   *session.Store
	manager        *services.Manager
}

func NewApp() *App {
	cfg := config.Load()
	log := logger.NewLogger(cfg)

	// The archive database is optional; the booth works without it
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Warning("Archive database unavailable: %v", err)
		db = nil
	}

	analyzer := emotion.NewAnalyzerService(cfg, log)
	archive := storage.NewArchiveService(cfg.ArchiveDirectory, cfg.ArchiveBuffer, db, log)
	hub := websocket.NewHubService(log)
	store := session.NewStore(cfg.SessionTTL, log)
	composer := strip.NewComposer(cfg.FrameWidth, cfg.StripPadding, cfg.CaptionHeight, cfg.FontPath)

	manager := services.NewManager(analyzer, composer, archive, hub, cfg, log)

	return &App{
		config:         cfg,
		logger:         log,
		analyzer:       analyzer,
		archiveService: archive,
		hubService:     hub,
		sessionStore:   store,
		manager:        manager,
	}
}

func (a *App) Run() error {
	// Start background services
	go a.archiveService.Run(a.config.ArchiveFlush)
	go a.hubService.Run()
	go a.sessionStore.Run(5 * time.Minute)

	// Setup routes
	router := routes.SetupRoutes(a.manager, a.sessionStore, a.config, a.logger)

	fmt.Printf("Photobooth Server\n")
	fmt.Printf("URL: http://localhost:%d\n", a.config.Port)
	fmt.Printf("Archive: %s\n", a.config.ArchiveDirectory)
	fmt.Printf("Emotion model: %s\n", a.config.EmotionModelPath)

	return http.ListenAndServe(fmt.Sprintf(":%d", a.config.Port), router)
}
