package routes

import (
	"net/http"
	"os"
	"path/filepath"

	"photobooth/internal/config"
	"photobooth/internal/handlers"
	"photobooth/internal/logger"
	"photobooth/internal/middleware"
	"photobooth/internal/services"
	"photobooth/internal/services/session"
)

// dynamicHTMLHandler serves /path as /static/path.html if the file exists;
// otherwise 404.
func dynamicHTMLHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path == "/" {
			path = "/index"
		}

		filePath := filepath.Join(staticDir, path+".html")

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, filePath)
	}
}

// SetupRoutes registers static file serving and API endpoints, and wraps the
// mux with the session middleware.
func SetupRoutes(manager *services.Manager, store *session.Store, cfg *config.Config, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDirectory))))

	// Photoshoot pipeline
	mux.HandleFunc("/api/photoshoot", handlers.PhotoshootHandler(manager, store, cfg, logger))
	mux.HandleFunc("/api/strip/download", handlers.DownloadStripHandler(store, logger))
	mux.HandleFunc("/api/filters", handlers.FilterNamesHandler())

	// Session gallery
	mux.HandleFunc("/api/gallery", handlers.GalleryHandler(store, logger))
	mux.HandleFunc("/api/gallery/clear", handlers.ClearGalleryHandler(store, logger))
	mux.HandleFunc("/api/emotions/trend", handlers.EmotionTrendHandler(store, logger))

	// Live gallery events
	mux.HandleFunc("/api/view", handlers.ViewWebsocketHandler(manager, logger))

	// Photo archive
	mux.HandleFunc("/api/archive", handlers.ArchivePhotosHandler(manager, logger))
	mux.HandleFunc("/api/archive/view", handlers.ViewArchivedPhotoHandler(cfg))
	mux.HandleFunc("/api/archive/delete", handlers.DeleteArchivedPhotoHandler(manager, cfg, logger))
	mux.HandleFunc("/api/archive/stats", handlers.ArchiveStatsHandler(manager, logger))

	// Optional assets
	mux.HandleFunc("/api/assets/shutter", handlers.ShutterSoundHandler(cfg))

	// Log endpoints
	mux.HandleFunc("/logs/info", handlers.ShowInfoLogsHandler(cfg))
	mux.HandleFunc("/logs/warning", handlers.ShowWarningLogsHandler(cfg))
	mux.HandleFunc("/logs/error", handlers.ShowErrorLogsHandler(cfg))

	mux.HandleFunc("/logs/info/clear", handlers.ClearInfoLogsHandler(logger))
	mux.HandleFunc("/logs/warning/clear", handlers.ClearWarningLogsHandler(logger))
	mux.HandleFunc("/logs/error/clear", handlers.ClearErrorLogsHandler(logger))

	// Automatic HTML handler mapping, for example /archive -> /static/archive.html
	mux.HandleFunc("/", dynamicHTMLHandler(cfg.StaticDirectory))

	// Apply middleware
	return middleware.SessionMiddleware(mux)
}
